package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"makers/pkg/database"
)

// OrderRepository is order storage access.
type OrderRepository interface {
	// All returns every order document, unfiltered.
	All(ctx context.Context) ([]bson.M, error)

	// FindByUser returns the orders whose user field equals email.
	FindByUser(ctx context.Context, email string) ([]bson.M, error)

	// Insert stores doc verbatim as a new order.
	Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error)

	// UpsertByID $sets only the supplied fields on the order with the given
	// id, inserting a new document when none exists.
	UpsertByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error)

	// DeleteByID removes at most one order; deleting a missing id is not
	// an error.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
}

type orderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{col: db.Collection(database.OrdersCollection)}
}

func (r *orderRepository) All(ctx context.Context) ([]bson.M, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) FindByUser(ctx context.Context, email string) ([]bson.M, error) {
	return r.find(ctx, bson.M{"user": email})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	orders := []bson.M{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	return r.col.InsertOne(ctx, doc)
}

func (r *orderRepository) UpsertByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	return r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
}

func (r *orderRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	return r.col.DeleteOne(ctx, bson.M{"_id": id})
}
