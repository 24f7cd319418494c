package repository

import (
	"context"

	"github.com/coderharsx1122/utube-backend/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store. Duplicate username or email
	// surfaces as an already-exists error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsernameOrEmail retrieves a user matching either the username or
	// the email. Both parameters are bound explicitly; an empty string never
	// matches.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// UpdateRefreshToken sets or clears (nil) the stored refresh token for
	// the user. No other fields are touched or re-validated.
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
}
