package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"makers/pkg/database"
)

func init() {
	Register("tools", SeedTools)
	Register("admin-user", SeedAdminUser)
}

// SeedTools inserts a starter catalog when the collection is empty, so a
// repeated seed run stays idempotent.
func SeedTools(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(database.ToolsCollection)

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tools := []interface{}{
		bson.M{
			"name":         "Cordless Drill Machine",
			"description":  "18V brushless drill driver with two battery packs.",
			"img":          "",
			"price":        120.0,
			"minOrderQty":  5,
			"availableQty": 250,
		},
		bson.M{
			"name":         "Angle Grinder",
			"description":  "850W grinder, 100mm disc, side handle included.",
			"img":          "",
			"price":        65.5,
			"minOrderQty":  10,
			"availableQty": 400,
		},
		bson.M{
			"name":         "Circular Saw Blade Set",
			"description":  "Carbide tipped blades, pack of three sizes.",
			"img":          "",
			"price":        42.0,
			"minOrderQty":  20,
			"availableQty": 800,
		},
		bson.M{
			"name":         "Digital Vernier Caliper",
			"description":  "150mm stainless caliper with LCD readout.",
			"img":          "",
			"price":        28.75,
			"minOrderQty":  10,
			"availableQty": 600,
		},
		bson.M{
			"name":         "Hydraulic Floor Jack",
			"description":  "3 ton low profile jack for workshop use.",
			"img":          "",
			"price":        210.0,
			"minOrderQty":  2,
			"availableQty": 90,
		},
		bson.M{
			"name":         "Welding Helmet",
			"description":  "Auto darkening helmet, solar assisted.",
			"img":          "",
			"price":        55.0,
			"minOrderQty":  5,
			"availableQty": 320,
		},
	}

	_, err = col.InsertMany(ctx, tools)
	return err
}

// SeedAdminUser upserts a default admin so a fresh install has one account
// that can pass the role gate.
func SeedAdminUser(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(database.UsersCollection)

	filter := bson.M{"email": "admin@makers.local"}
	update := bson.M{"$set": bson.M{
		"email": "admin@makers.local",
		"name":  "Makers Admin",
		"role":  "admin",
	}}
	opts := options.Update().SetUpsert(true)
	_, err := col.UpdateOne(ctx, filter, update, opts)
	return err
}
