package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"makers/config"
	"makers/database/seeders"
	"makers/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}
	return database.Connect(ctx)
}

// makers db:index — create the collection indexes.
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the collection indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client, db, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		fmt.Println("Creating indexes…")
		return database.EnsureIndexes(ctx, db)
	},
}

// makers db:seed — run all registered seeders.
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		client, db, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, db)
	},
}
