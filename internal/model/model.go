// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is a fixed enumeration of account roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// DefaultRole is assigned when registration omits the role.
const DefaultRole = RoleManager

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// User represents an account. PasswordHash never leaves the auth layer.
type User struct {
	ID           uuid.UUID // PK
	Email        string    // unique, lowercased and trimmed
	Name         string
	PasswordHash string // bcrypt, opaque
	Role         Role
	CreatedAt    time.Time
}

// Public returns the projection of the user that may cross the API boundary.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// PublicUser is the externally visible subset of User fields.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

// TokenPair collects issued access/refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Offer is a marketing campaign owned by a user.
type Offer struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"` // owner
	Name          string     `json:"name"`
	Niche         string     `json:"niche"`
	Country       string     `json:"country"` // ISO 3166-1 alpha-2
	TrafficSource string     `json:"traffic_source"`
	FunnelType    string     `json:"funnel_type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Budget        *float64   `json:"budget,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MetricsInput carries the raw counters reported for an offer.
type MetricsInput struct {
	Impressions int64
	Clicks      int64
	Leads       int64
	Sales       int64
	Revenue     float64
	Cost        float64
}

// Metrics is a single per-offer row of raw counters and derived values.
type Metrics struct {
	OfferID uuid.UUID `json:"offer_id"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Leads       int64   `json:"leads"`
	Sales       int64   `json:"sales"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`

	// Derived on upsert; zero when the denominator is zero.
	CTR            float64 `json:"ctr"`             // clicks / impressions * 100
	CPC            float64 `json:"cpc"`             // cost / clicks
	CPM            float64 `json:"cpm"`             // cost / impressions * 1000
	ConversionRate float64 `json:"conversion_rate"` // sales / leads * 100
	ROAS           float64 `json:"roas"`            // revenue / cost
	AOV            float64 `json:"aov"`             // revenue / sales

	UpdatedAt time.Time `json:"updated_at"`
}

// Benchmark is admin-maintained market reference data. The combination
// (niche, country, traffic_source, funnel_type) is unique.
type Benchmark struct {
	ID            uuid.UUID `json:"id"`
	Niche         string    `json:"niche"`
	Country       string    `json:"country"`
	TrafficSource string    `json:"traffic_source"`
	FunnelType    string    `json:"funnel_type"`
	AvgCTR        float64   `json:"avg_ctr"`
	AvgCPC        float64   `json:"avg_cpc"`
	AvgCPM        float64   `json:"avg_cpm"`
	AvgConvRate   float64   `json:"avg_conversion_rate"`
	AvgROAS       float64   `json:"avg_roas"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BenchmarkFilter narrows benchmark listings. Empty fields match everything.
type BenchmarkFilter struct {
	Niche         string
	Country       string
	TrafficSource string
}

// Analysis is the result of an AI-assisted campaign review.
type Analysis struct {
	OfferID     uuid.UUID `json:"offer_id"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
