// Package repositories holds the MongoDB data access layer. Each repository
// is an interface plus a Mongo-backed implementation; services depend on the
// interfaces so tests can substitute in-memory fakes.
//
// Catalog and order documents are handled as raw bson.M so fields the
// application does not know about survive round-trips unchanged.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"makers/pkg/database"
)

// ToolRepository is catalog storage access.
type ToolRepository interface {
	// All returns every tool document in storage-native order.
	All(ctx context.Context) ([]bson.M, error)

	// FindByID returns the tool document, or (nil, nil) when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error)

	// Insert stores doc verbatim as a new tool.
	Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error)

	// UpsertByID $sets only the supplied fields on the tool with the given
	// id, inserting a new document when none exists.
	UpsertByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error)

	// AdjustStock atomically adds delta to the tool's availableQty. A
	// MatchedCount of zero means no such tool exists.
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int64) (*mongo.UpdateResult, error)
}

type toolRepository struct {
	col *mongo.Collection
}

func NewToolRepository(db *mongo.Database) ToolRepository {
	return &toolRepository{col: db.Collection(database.ToolsCollection)}
}

func (r *toolRepository) All(ctx context.Context) ([]bson.M, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	tools := []bson.M{}
	if err := cursor.All(ctx, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (r *toolRepository) FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *toolRepository) Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	return r.col.InsertOne(ctx, doc)
}

func (r *toolRepository) UpsertByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	return r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
}

func (r *toolRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int64) (*mongo.UpdateResult, error) {
	return r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"availableQty": delta}},
	)
}
