package db

import (
	"context"

	"github.com/edouardv/campus-manager/internal/models"
)

// EnsureAdmin guarantees the configured administrator account exists.
// passwordHash must already be bcrypt-hashed; the seed never sees a raw
// password. Idempotent across restarts.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash string) (int64, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	return s.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.Admin,
	})
}
