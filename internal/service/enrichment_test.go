package service

import (
	"testing"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
)

func TestNormalizePhone(t *testing.T) {
	if got := normalizePhone("+44 20 7031 3000", "US"); got != "+442070313000" {
		t.Fatalf("expected E164 number, got %q", got)
	}
	if got := normalizePhone("(650) 253-0000", "US"); got != "+16502530000" {
		t.Fatalf("expected region-based parsing, got %q", got)
	}
	if normalizePhone("12", "US") != "" {
		t.Fatalf("expected invalid number to be rejected")
	}
	if normalizePhone("  ", "US") != "" {
		t.Fatalf("expected blank number to be rejected")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail(" Sales@Example.COM "); got != "sales@example.com" {
		t.Fatalf("unexpected email: %q", got)
	}
	if got := normalizeEmail("info@bücher.de"); got != "info@xn--bcher-kva.de" {
		t.Fatalf("expected punycode domain, got %q", got)
	}
	for _, bad := range []string{"no-at-sign", "user@", "user@localhost", "user@-bad-.com"} {
		if normalizeEmail(bad) != "" {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestCanonicalIndustryAndTitle(t *testing.T) {
	cases := map[string]string{
		"technology":    "Technology",
		" real  estate": "Real Estate",
		"FinTech":       "Finance",
		"Aerospace":     "Aerospace",
	}
	for in, want := range cases {
		if got := canonicalIndustry(in); got != want {
			t.Fatalf("canonicalIndustry(%q) = %q, want %q", in, got, want)
		}
	}
	if got := canonicalJobTitle("vp of sales"); got != "VP of Sales" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := canonicalJobTitle("Head of Growth"); got != "Head of Growth" {
		t.Fatalf("expected unknown title to be kept, got %q", got)
	}
}

func TestEnricher_OnlyChangedFields(t *testing.T) {
	e := NewEnricher("")
	if e.DefaultRegion != "US" {
		t.Fatalf("expected default region, got %s", e.DefaultRegion)
	}

	clean := entity.Lead{
		Name:     "Jane Doe",
		Company:  "Acme",
		Email:    dto.StringPtr("jane@acme.io"),
		Industry: dto.StringPtr("Technology"),
	}
	if update := e.Enrich(clean); !update.IsEmpty() {
		t.Fatalf("expected no changes for canonical lead, got %+v", update)
	}

	invalid := entity.Lead{Name: "Jane", Company: "Acme", PhoneNumber: dto.StringPtr("not a phone")}
	if update := e.Enrich(invalid); update.PhoneNumber != nil {
		t.Fatalf("expected invalid phone to be left alone")
	}
}
