// internal/core/domain/target_test.go
package domain

import (
	"testing"

	"applyswarm/internal/testutil"
)

func TestNewTarget(t *testing.T) {
	target := NewTarget("  Curtin Maritime ", " https://curtinmaritime.bamboohr.com/jobs ")

	testutil.AssertNotNil(t, target, "target should not be nil")
	testutil.AssertEqual(t, target.Company, "Curtin Maritime", "company should be trimmed")
	testutil.AssertEqual(t, target.URL, "https://curtinmaritime.bamboohr.com/jobs", "url should be trimmed")
	testutil.AssertEqual(t, target.Status, StatusPending, "new targets start PENDING")
	testutil.AssertLen(t, target.Proof.TextHits, 0, "text hits start empty")
	testutil.AssertTrue(t, target.Proof.TextHits != nil, "text hits should serialize as [], not null")
}

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name        string
		company     string
		url         string
		status      Status
		shouldError bool
	}{
		{
			name:    "valid pending target",
			company: "Moran Towing",
			url:     "https://www.morantug.com/careers-at-moran/",
			status:  StatusPending,
		},
		{
			name:        "empty company",
			company:     "",
			url:         "https://example.com",
			status:      StatusPending,
			shouldError: true,
		},
		{
			name:        "empty url",
			company:     "Weeks Marine",
			url:         "",
			status:      StatusPending,
			shouldError: true,
		},
		{
			name:        "invalid status",
			company:     "Weeks Marine",
			url:         "https://example.com",
			status:      Status("DONE"),
			shouldError: true,
		},
		{
			name:    "terminal status is valid",
			company: "ZIM",
			url:     "https://example.com",
			status:  StatusBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget(tt.company, tt.url)
			target.Status = tt.status
			err := target.Validate()

			if tt.shouldError {
				testutil.AssertError(t, err, "validation should fail")
			} else {
				testutil.AssertNoError(t, err, "validation should succeed")
			}
		})
	}
}

func TestTarget_Slug(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"Great Lakes Dredge & Dock", "great-lakes-dredge-dock"},
		{"Curtin Maritime", "curtin-maritime"},
		{"MSC", "msc"},
		{"  Cashman   Dredging  ", "cashman-dredging"},
		{"***", "target"},
	}

	for _, tt := range tests {
		target := NewTarget(tt.company, "https://example.com")
		testutil.AssertEqual(t, target.Slug(), tt.want, tt.company)
	}
}

func TestTarget_RegisteredDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "ats subdomain collapses to registered domain",
			url:  "https://curtinmaritime.bamboohr.com/jobs",
			want: "bamboohr.com",
		},
		{
			name: "plain domain",
			url:  "https://gldd.com/careers/",
			want: "gldd.com",
		},
		{
			name: "deep path keeps host only",
			url:  "https://kiewitcareers.kiewit.com/Weeks",
			want: "kiewit.com",
		},
		{
			name: "unparseable url yields empty",
			url:  "::::not-a-url",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget("X", tt.url)
			testutil.AssertEqual(t, target.RegisteredDomain(), tt.want, "registered domain")
		})
	}
}

func TestNormalizeHit(t *testing.T) {
	testutil.AssertEqual(t, NormalizeHit("  Thank You "), "thank you", "lower+trim")
	testutil.AssertEqual(t, NormalizeHit("CONFIRMATION"), "confirmation", "lower")
	testutil.AssertEqual(t, NormalizeHit(""), "", "empty stays empty")
}

func TestConfirmationSet_ExactMembership(t *testing.T) {
	for _, hit := range testutil.FixtureConfirmations {
		_, ok := ConfirmationSet[NormalizeHit(hit)]
		testutil.AssertTrue(t, ok, hit)
	}

	// Supersets and fragments of allowed markers never count.
	for _, hit := range testutil.FixtureRejections {
		_, ok := ConfirmationSet[NormalizeHit(hit)]
		testutil.AssertFalse(t, ok, hit)
	}
}
