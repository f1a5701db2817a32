package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"makers/app/models"
	"makers/app/repositories"
	"makers/pkg/auth"
)

// AccountService maintains the users collection and issues access tokens.
type AccountService struct {
	users repositories.UserRepository
}

func NewAccountService(users repositories.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Register upserts the profile keyed by email, then mints a fresh token for
// that email. Every call issues a new token, so the same endpoint serves both
// sign-up and sign-in.
func (s *AccountService) Register(ctx context.Context, email string, fields bson.M) (models.UpdateAck, string, error) {
	res, err := s.users.UpsertByEmail(ctx, email, fields)
	if err != nil {
		return models.UpdateAck{}, "", err
	}

	token, err := auth.GenerateToken(email)
	if err != nil {
		return models.UpdateAck{}, "", err
	}
	return models.NewUpdateAck(res), token, nil
}

// IsAdmin reports whether a stored user with this email carries the admin
// role. Unknown emails are not admins.
func (s *AccountService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.IsAdmin(), nil
}
