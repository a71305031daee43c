package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the email", func(t *testing.T) {
		a := newAuthenticator(t)
		user, err := a.Register(ctx, "  Alice@Example.COM ", "Alice", "password123")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("email = %q, want lowercased and trimmed", user.Email)
		}
		if user.PasswordHash == "password123" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		a := newAuthenticator(t)
		if _, err := a.Register(ctx, "alice@example.com", "Alice", "password123"); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		_, err := a.Register(ctx, "ALICE@example.com", "Alice 2", "password456")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		a := newAuthenticator(t)
		_, err := a.Register(ctx, "alice@example.com", "Alice", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		a := newAuthenticator(t)
		_, err := a.Register(ctx, "   ", "Alice", "password123")
		if !errors.Is(err, ErrMissingEmail) {
			t.Errorf("expected ErrMissingEmail, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newAuthenticator(t)
	if _, err := a.Register(ctx, "alice@example.com", "Alice", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "Alice@Example.com", "password123")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user.Name != "Alice" {
			t.Errorf("name = %q, want Alice", user.Name)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "alice@example.com", "wrong password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "bob@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("claims = %+v, want user-1 / alice@example.com", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret-a", time.Hour).Generate(user)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, err := NewJWTManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		m := NewJWTManager("test-secret", -time.Minute)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
