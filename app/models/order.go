package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Order links a user (by email value, not enforced) to a tool (by id value,
// not enforced). Like Tool, order documents are stored verbatim and this
// struct names only the fields the application reads.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User          string             `bson:"user" json:"user"`
	ProductID     string             `bson:"productId" json:"productId"`
	OrderQuantity int                `bson:"orderQuantity" json:"orderQuantity"`
	Price         float64            `bson:"price,omitempty" json:"price,omitempty"`
}
