package service

import (
	"context"
	"time"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/repository"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/gofrs/uuid/v5"
)

// OfferService defines owner-scoped operations over offers.
type OfferService interface {
	// Create validates the payload and stores a new offer for the user.
	Create(ctx context.Context, userID uuid.UUID, in schema.CreateOffer) (*model.Offer, error)
	// List returns all offers owned by the user, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Offer, error)
	// Get returns one offer owned by the user.
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Offer, error)
	// Update applies the present fields and returns the updated offer.
	Update(ctx context.Context, id, userID uuid.UUID, in schema.UpdateOffer) (*model.Offer, error)
	// Delete removes an offer owned by the user.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type OfferServiceImpl struct {
	repo repository.OfferRepository
}

// NewOfferService constructs OfferService.
func NewOfferService(repo repository.OfferRepository) *OfferServiceImpl {
	return &OfferServiceImpl{repo: repo}
}

// dateLayouts accepted for offer dates, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &schema.ValidationError{Violations: []schema.Violation{{
		Field:   field,
		Rule:    "format",
		Message: field + " must be an RFC 3339 timestamp or a YYYY-MM-DD date",
	}}}
}

func (s *OfferServiceImpl) Create(ctx context.Context, userID uuid.UUID, in schema.CreateOffer) (*model.Offer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if in.EndDate != nil {
		ts, err := parseDate("end_date", *in.EndDate)
		if err != nil {
			return nil, err
		}
		if ts.Before(start) {
			return nil, &schema.ValidationError{Violations: []schema.Violation{{
				Field: "end_date", Rule: "range", Message: "end date must not precede start date",
			}}}
		}
		end = &ts
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	o := &model.Offer{
		ID:            id,
		UserID:        userID,
		Name:          in.Name,
		Niche:         in.Niche,
		Country:       in.Country,
		TrafficSource: in.TrafficSource,
		FunnelType:    in.FunnelType,
		StartDate:     start,
		EndDate:       end,
		Budget:        in.Budget,
		Description:   in.Description,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OfferServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.Offer, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *OfferServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*model.Offer, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Update loads the current offer, applies the present fields and persists the
// result. Absent fields keep their stored values.
func (s *OfferServiceImpl) Update(ctx context.Context, id, userID uuid.UUID, in schema.UpdateOffer) (*model.Offer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		o.Name = *in.Name
	}
	if in.Niche != nil {
		o.Niche = *in.Niche
	}
	if in.Country != nil {
		o.Country = *in.Country
	}
	if in.TrafficSource != nil {
		o.TrafficSource = *in.TrafficSource
	}
	if in.FunnelType != nil {
		o.FunnelType = *in.FunnelType
	}
	if in.StartDate != nil {
		start, err := parseDate("start_date", *in.StartDate)
		if err != nil {
			return nil, err
		}
		o.StartDate = start
	}
	if in.EndDate != nil {
		end, err := parseDate("end_date", *in.EndDate)
		if err != nil {
			return nil, err
		}
		o.EndDate = &end
	}
	if o.EndDate != nil && o.EndDate.Before(o.StartDate) {
		return nil, &schema.ValidationError{Violations: []schema.Violation{{
			Field: "end_date", Rule: "range", Message: "end date must not precede start date",
		}}}
	}
	if in.Budget != nil {
		o.Budget = in.Budget
	}
	if in.Description != nil {
		o.Description = in.Description
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OfferServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
