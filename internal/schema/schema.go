// Package schema validates raw API input and normalizes it into typed values.
// Validation failures carry a structured, field-level violation list rather
// than a single opaque message.
package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aivolabs/aivo/internal/model"
)

// Violation describes a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError aggregates all violations found in one input.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, rule, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// passwordSymbols is the fixed set a password must draw at least one symbol from.
const passwordSymbols = "@$!%*?&"

// NormalizeEmail lowercases and trims an e-mail address without validating it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(e *ValidationError, email string) {
	if email == "" {
		e.add("email", "required", "e-mail is required")
		return
	}
	if !emailRe.MatchString(email) {
		e.add("email", "format", "invalid e-mail address")
	}
}

func checkPassword(e *ValidationError, password string) {
	// Length limits count characters, not bytes.
	switch n := utf8.RuneCountInString(password); {
	case n < 8:
		e.add("password", "min", "password must be at least 8 characters")
		return
	case n > 128:
		e.add("password", "max", "password must not exceed 128 characters")
		return
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		e.add("password", "complexity",
			"password must contain an uppercase letter, a lowercase letter, a digit, and one of %s", passwordSymbols)
	}
}

// RegisterUser is the raw registration payload.
type RegisterUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Validate normalizes the input in place and reports all violated rules.
// Role defaults to model.DefaultRole when absent.
func (in *RegisterUser) Validate() error {
	var e ValidationError

	in.Email = NormalizeEmail(in.Email)
	checkEmail(&e, in.Email)

	checkPassword(&e, in.Password)

	in.Name = strings.TrimSpace(in.Name)
	if n := len(in.Name); n < 3 {
		e.add("name", "min", "name must be at least 3 characters")
	} else if n > 100 {
		e.add("name", "max", "name must not exceed 100 characters")
	}

	if in.Role == "" {
		in.Role = string(model.DefaultRole)
	} else if !model.Role(in.Role).Valid() {
		e.add("role", "enum", "role must be one of ADMIN, MANAGER")
	}

	return e.orNil()
}

// SignInUser is the raw sign-in payload.
type SignInUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes the e-mail and checks structural requirements only;
// credential correctness is the auth service's concern.
func (in *SignInUser) Validate() error {
	var e ValidationError

	in.Email = NormalizeEmail(in.Email)
	checkEmail(&e, in.Email)

	if in.Password == "" {
		e.add("password", "required", "password is required")
	}

	return e.orNil()
}

// CreateOffer is the raw offer-creation payload.
type CreateOffer struct {
	Name          string   `json:"name"`
	Niche         string   `json:"niche"`
	Country       string   `json:"country"`
	TrafficSource string   `json:"traffic_source"`
	FunnelType    string   `json:"funnel_type"`
	StartDate     string   `json:"start_date"` // RFC 3339
	EndDate       *string  `json:"end_date,omitempty"`
	Budget        *float64 `json:"budget,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// Validate checks the offer payload. Date parsing happens at the service layer;
// here only presence and shape are enforced.
func (in *CreateOffer) Validate() error {
	var e ValidationError

	in.Name = strings.TrimSpace(in.Name)
	if len(in.Name) < 3 {
		e.add("name", "min", "name must be at least 3 characters")
	}
	if strings.TrimSpace(in.Niche) == "" {
		e.add("niche", "required", "niche is required")
	}
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if len(in.Country) != 2 {
		e.add("country", "length", "country must be a 2-letter code")
	}
	if strings.TrimSpace(in.TrafficSource) == "" {
		e.add("traffic_source", "required", "traffic source is required")
	}
	if strings.TrimSpace(in.FunnelType) == "" {
		e.add("funnel_type", "required", "funnel type is required")
	}
	if in.StartDate == "" {
		e.add("start_date", "required", "start date is required")
	}
	if in.Budget != nil && *in.Budget <= 0 {
		e.add("budget", "positive", "budget must be positive")
	}

	return e.orNil()
}

// UpdateOffer is the raw offer-update payload; every field is optional.
type UpdateOffer struct {
	Name          *string  `json:"name,omitempty"`
	Niche         *string  `json:"niche,omitempty"`
	Country       *string  `json:"country,omitempty"`
	TrafficSource *string  `json:"traffic_source,omitempty"`
	FunnelType    *string  `json:"funnel_type,omitempty"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	Budget        *float64 `json:"budget,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// Validate checks only the fields that are present.
func (in *UpdateOffer) Validate() error {
	var e ValidationError

	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		if len(*in.Name) < 3 {
			e.add("name", "min", "name must be at least 3 characters")
		}
	}
	if in.Country != nil {
		*in.Country = strings.ToUpper(strings.TrimSpace(*in.Country))
		if len(*in.Country) != 2 {
			e.add("country", "length", "country must be a 2-letter code")
		}
	}
	if in.Budget != nil && *in.Budget <= 0 {
		e.add("budget", "positive", "budget must be positive")
	}

	return e.orNil()
}

// UpsertMetrics is the raw metrics payload; absent counters default to zero.
type UpsertMetrics struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Leads       int64   `json:"leads"`
	Sales       int64   `json:"sales"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
}

// Validate rejects negative counters and amounts.
func (in *UpsertMetrics) Validate() error {
	var e ValidationError

	for _, f := range []struct {
		name string
		v    int64
	}{
		{"impressions", in.Impressions},
		{"clicks", in.Clicks},
		{"leads", in.Leads},
		{"sales", in.Sales},
	} {
		if f.v < 0 {
			e.add(f.name, "nonnegative", "%s must not be negative", f.name)
		}
	}
	if in.Revenue < 0 {
		e.add("revenue", "nonnegative", "revenue must not be negative")
	}
	if in.Cost < 0 {
		e.add("cost", "nonnegative", "cost must not be negative")
	}

	return e.orNil()
}

// CreateBenchmark is the raw benchmark payload.
type CreateBenchmark struct {
	Niche         string  `json:"niche"`
	Country       string  `json:"country"`
	TrafficSource string  `json:"traffic_source"`
	FunnelType    string  `json:"funnel_type"`
	AvgCTR        float64 `json:"avg_ctr"`
	AvgCPC        float64 `json:"avg_cpc"`
	AvgCPM        float64 `json:"avg_cpm"`
	AvgConvRate   float64 `json:"avg_conversion_rate"`
	AvgROAS       float64 `json:"avg_roas"`
}

// Validate checks benchmark dimensions and values.
func (in *CreateBenchmark) Validate() error {
	var e ValidationError

	if strings.TrimSpace(in.Niche) == "" {
		e.add("niche", "required", "niche is required")
	}
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if len(in.Country) != 2 {
		e.add("country", "length", "country must be a 2-letter code")
	}
	if strings.TrimSpace(in.TrafficSource) == "" {
		e.add("traffic_source", "required", "traffic source is required")
	}
	if strings.TrimSpace(in.FunnelType) == "" {
		e.add("funnel_type", "required", "funnel type is required")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"avg_ctr", in.AvgCTR},
		{"avg_cpc", in.AvgCPC},
		{"avg_cpm", in.AvgCPM},
		{"avg_conversion_rate", in.AvgConvRate},
		{"avg_roas", in.AvgROAS},
	} {
		if f.v < 0 {
			e.add(f.name, "nonnegative", "%s must not be negative", f.name)
		}
	}

	return e.orNil()
}
