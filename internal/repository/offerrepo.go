package repository

import (
	"context"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
)

// OfferRepository provides owner-scoped CRUD access for offers.
type OfferRepository interface {
	// Create inserts a new offer.
	Create(ctx context.Context, o *model.Offer) error
	// ListByUser returns all offers owned by the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Offer, error)
	// GetByID loads an offer by ID, scoped to its owner.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Offer, error)
	// Update persists changes to an offer, scoped to its owner.
	Update(ctx context.Context, o *model.Offer) error
	// Delete removes an offer, scoped to its owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// Exists reports whether the offer exists and is owned by the user.
	Exists(ctx context.Context, id, userID uuid.UUID) (bool, error)
}
