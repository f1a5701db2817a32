package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tool is the typed view of a catalog document. Tool documents are created
// from arbitrary request bodies, so this struct only names the fields the
// application itself reads; unknown fields pass through the store untouched
// as raw documents.
type Tool struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Image        string             `bson:"img,omitempty" json:"img,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	MinOrderQty  int                `bson:"minOrderQty,omitempty" json:"minOrderQty,omitempty"`
	AvailableQty int                `bson:"availableQty" json:"availableQty"`
}
