// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository is the credential store capability consumed by the auth service.
type UserRepository interface {
	// Create inserts a new user. A unique e-mail violation maps to errs.ErrEmailTaken.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail loads a user by normalized e-mail.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// EmailExists reports whether a user with the normalized e-mail exists.
	EmailExists(ctx context.Context, email string) (bool, error)
}
