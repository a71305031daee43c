package auth

import (
	"context"

	"github.com/lmercier/giftpool/internal/models"
)

// UserStore is the slice of the storage layer the authenticator needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator defines the interface for authentication implementations.
// The abstraction allows swapping auth methods (password, OAuth, passkeys)
// without touching the API layer.
type Authenticator interface {
	// Register creates a new account. The credential format depends on
	// the implementation; for passwords it is the plaintext password.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the
	// implementation's requirements before use.
	ValidateCredential(credential string) error
}
