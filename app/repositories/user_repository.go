package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"makers/app/models"
	"makers/pkg/database"
)

// UserRepository is user storage access, keyed by the email natural key.
type UserRepository interface {
	// FindByEmail returns the user, or (nil, nil) when absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpsertByEmail $sets only the supplied fields on the user with the
	// given email, inserting a new document when none exists.
	UpsertByEmail(ctx context.Context, email string, fields bson.M) (*mongo.UpdateResult, error)

	// RoleByEmail resolves the stored role for the admin gate.
	RoleByEmail(ctx context.Context, email string) (role string, found bool, err error)
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(database.UsersCollection)}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpsertByEmail(ctx context.Context, email string, fields bson.M) (*mongo.UpdateResult, error) {
	return r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
}

func (r *userRepository) RoleByEmail(ctx context.Context, email string) (string, bool, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return "", false, err
	}
	if user == nil {
		return "", false, nil
	}
	return user.Role, true, nil
}
