package authx

import (
	"context"
	"time"
)

// User is an account row as stored by the provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository describes account storage.
type UserRepository interface {
	// Create stores a new account. common.ErrEmailTaken is returned when
	// the email is already registered.
	Create(ctx context.Context, email, passwordHash string) (*User, error)

	// GetByEmail returns the account or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RefreshTokenRepository describes refresh-token storage. Tokens are
// single-use: Consume removes the token as it resolves it.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, token string, ttl time.Duration) error

	// Consume resolves token to its user id and deletes it. Expired or
	// unknown tokens yield common.ErrInvalidToken.
	Consume(ctx context.Context, token string) (string, error)

	// DeleteByUser revokes every token of the user (sign-out).
	DeleteByUser(ctx context.Context, userID string) error
}
