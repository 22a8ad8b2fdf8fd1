package schema

import (
	"errors"
	"strings"
	"testing"
)

func violatedRules(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	rules := make(map[string]string, len(ve.Violations))
	for _, v := range ve.Violations {
		rules[v.Field] = v.Rule
	}
	return rules
}

func TestRegisterUser_Validate_OK_NormalizesAndDefaults(t *testing.T) {
	t.Parallel()

	in := RegisterUser{
		Email:    "  Alice@Example.COM ",
		Password: "Str0ng!pass",
		Name:     "  Alice  ",
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", in.Email)
	}
	if in.Name != "Alice" {
		t.Fatalf("name not trimmed: %q", in.Name)
	}
	if in.Role != "MANAGER" {
		t.Fatalf("role not defaulted: %q", in.Role)
	}
}

func TestRegisterUser_Validate_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	in := RegisterUser{Email: "not-an-email", Password: "short", Name: "ab", Role: "ROOT"}
	err := in.Validate()
	if err == nil {
		t.Fatalf("want validation error")
	}
	rules := violatedRules(t, err)
	for field, rule := range map[string]string{
		"email":    "format",
		"password": "min",
		"name":     "min",
		"role":     "enum",
	} {
		if rules[field] != rule {
			t.Fatalf("field %s: want rule %s, got %q (all: %v)", field, rule, rules[field], rules)
		}
	}
}

func TestRegisterUser_Validate_PasswordComplexity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		wantRule string // empty means valid
	}{
		{"ok", "Aa1!aaaa", ""},
		{"too short", "Aa1!", "min"},
		{"seven runes in ten bytes", "Aa1!ééé", "min"},
		{"128 runes over 128 bytes", "Aa1!" + strings.Repeat("é", 124), ""},
		{"129 runes", "Aa1!" + strings.Repeat("a", 125), "max"},
		{"no uppercase", "aa1!aaaa", "complexity"},
		{"no lowercase", "AA1!AAAA", "complexity"},
		{"no digit", "Aaa!aaaa", "complexity"},
		{"no symbol", "Aa1aaaaa", "complexity"},
		{"symbol outside fixed set", "Aa1#aaaa", "complexity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := RegisterUser{Email: "a@b.co", Password: tc.password, Name: "Alice"}
			err := in.Validate()
			if tc.wantRule == "" {
				if err != nil {
					t.Fatalf("want valid, got %v", err)
				}
				return
			}
			rules := violatedRules(t, err)
			if rules["password"] != tc.wantRule {
				t.Fatalf("want password rule %s, got %v", tc.wantRule, rules)
			}
		})
	}
}

func TestSignInUser_Validate(t *testing.T) {
	t.Parallel()

	in := SignInUser{Email: " Bob@Example.com ", Password: "x"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Email != "bob@example.com" {
		t.Fatalf("email not normalized: %q", in.Email)
	}

	in = SignInUser{Email: "", Password: ""}
	rules := violatedRules(t, in.Validate())
	if rules["email"] != "required" || rules["password"] != "required" {
		t.Fatalf("unexpected rules: %v", rules)
	}
}

func TestCreateOffer_Validate(t *testing.T) {
	t.Parallel()

	in := CreateOffer{
		Name:          "Summer Promo",
		Niche:         "fitness",
		Country:       "br",
		TrafficSource: "facebook",
		FunnelType:    "vsl",
		StartDate:     "2026-01-01T00:00:00Z",
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Country != "BR" {
		t.Fatalf("country not uppercased: %q", in.Country)
	}

	bad := CreateOffer{Name: "ab", Country: "BRA"}
	rules := violatedRules(t, bad.Validate())
	for _, field := range []string{"name", "niche", "country", "traffic_source", "funnel_type", "start_date"} {
		if _, ok := rules[field]; !ok {
			t.Fatalf("missing violation for %s: %v", field, rules)
		}
	}

	neg := -5.0
	withBudget := in
	withBudget.Budget = &neg
	rules = violatedRules(t, withBudget.Validate())
	if rules["budget"] != "positive" {
		t.Fatalf("want budget violation, got %v", rules)
	}
}

func TestUpsertMetrics_Validate(t *testing.T) {
	t.Parallel()

	ok := UpsertMetrics{Impressions: 100, Clicks: 10, Revenue: 50, Cost: 20}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := UpsertMetrics{Impressions: -1, Revenue: -2}
	rules := violatedRules(t, bad.Validate())
	if rules["impressions"] != "nonnegative" || rules["revenue"] != "nonnegative" {
		t.Fatalf("unexpected rules: %v", rules)
	}
}

func TestCreateBenchmark_Validate(t *testing.T) {
	t.Parallel()

	in := CreateBenchmark{
		Niche: "fitness", Country: "us", TrafficSource: "google", FunnelType: "webinar",
		AvgCTR: 1.2, AvgCPC: 0.8,
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Country != "US" {
		t.Fatalf("country not uppercased: %q", in.Country)
	}

	bad := CreateBenchmark{Country: "X", AvgROAS: -1}
	rules := violatedRules(t, bad.Validate())
	if _, ok := rules["niche"]; !ok {
		t.Fatalf("missing niche violation: %v", rules)
	}
	if rules["avg_roas"] != "nonnegative" {
		t.Fatalf("want avg_roas violation: %v", rules)
	}
}
