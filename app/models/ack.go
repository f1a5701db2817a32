package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store acknowledgments returned to API clients. They mirror the driver's
// result types with stable JSON field names.

// InsertAck acknowledges a single-document insert.
type InsertAck struct {
	InsertedID interface{} `json:"insertedId"`
}

// UpdateAck acknowledges an update/upsert.
type UpdateAck struct {
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}

// DeleteAck acknowledges a delete; DeletedCount is zero when nothing
// matched, which is still a success.
type DeleteAck struct {
	DeletedCount int64 `json:"deletedCount"`
}

func NewInsertAck(res *mongo.InsertOneResult) InsertAck {
	ack := InsertAck{}
	if res != nil {
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			ack.InsertedID = oid.Hex()
		} else {
			ack.InsertedID = res.InsertedID
		}
	}
	return ack
}

func NewUpdateAck(res *mongo.UpdateResult) UpdateAck {
	ack := UpdateAck{}
	if res != nil {
		ack.MatchedCount = res.MatchedCount
		ack.ModifiedCount = res.ModifiedCount
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			ack.UpsertedID = oid.Hex()
		} else {
			ack.UpsertedID = res.UpsertedID
		}
	}
	return ack
}

func NewDeleteAck(res *mongo.DeleteResult) DeleteAck {
	ack := DeleteAck{}
	if res != nil {
		ack.DeletedCount = res.DeletedCount
	}
	return ack
}
