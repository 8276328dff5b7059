package service

import (
	"testing"

	"core/internal/model"
)

func TestCrossValidate_NumericFields(t *testing.T) {
	tests := []struct {
		name         string
		a            *model.CandidateProfile
		b            *model.CandidateProfile
		wantCount    int
		wantField    string
		wantDiffPct  float64
		wantSeverity string
	}{
		{
			name:         "budget gap above 30 percent is high",
			a:            &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			b:            &model.CandidateProfile{Budget: float64Ptr(5_000_000)},
			wantCount:    1,
			wantField:    "budget",
			wantDiffPct:  40.0,
			wantSeverity: model.SeverityHigh,
		},
		{
			name:         "budget gap between 20 and 30 percent is medium",
			a:            &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			b:            &model.CandidateProfile{Budget: float64Ptr(4_000_000)},
			wantCount:    1,
			wantField:    "budget",
			wantDiffPct:  25.0,
			wantSeverity: model.SeverityMedium,
		},
		{
			name:         "diff pct rounded to one decimal",
			a:            &model.CandidateProfile{Budget: float64Ptr(2_900_000)},
			b:            &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			wantCount:    1,
			wantField:    "budget",
			wantDiffPct:  3.3,
			wantSeverity: model.SeverityMedium,
		},
		{
			name:         "bedrooms off by one",
			a:            &model.CandidateProfile{Bedrooms: intPtr(3)},
			b:            &model.CandidateProfile{Bedrooms: intPtr(4)},
			wantCount:    1,
			wantField:    "bedrooms",
			wantDiffPct:  25.0,
			wantSeverity: model.SeverityMedium,
		},
		{
			name:      "equal values produce nothing",
			a:         &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			b:         &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			wantCount: 0,
		},
		{
			name:      "one-sided field is not disagreement",
			a:         &model.CandidateProfile{Budget: float64Ptr(3_000_000)},
			b:         &model.CandidateProfile{},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discrepancies := CrossValidate(tt.a, tt.b)

			if len(discrepancies) != tt.wantCount {
				t.Fatalf("Expected %d discrepancies, got %d", tt.wantCount, len(discrepancies))
			}
			if tt.wantCount == 0 {
				return
			}

			d := discrepancies[0]
			if d.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, d.Field)
			}
			if d.DiffPct == nil {
				t.Fatal("Expected diff_pct on numeric discrepancy")
			}
			if *d.DiffPct != tt.wantDiffPct {
				t.Errorf("Expected diff_pct %.1f, got %.1f", tt.wantDiffPct, *d.DiffPct)
			}
			if d.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %q, got %q", tt.wantSeverity, d.Severity)
			}
		})
	}
}

func TestCrossValidate_CategoricalFields(t *testing.T) {
	tests := []struct {
		name      string
		a         *model.CandidateProfile
		b         *model.CandidateProfile
		wantCount int
		wantField string
	}{
		{
			name:      "different cities",
			a:         &model.CandidateProfile{City: stringPtr("monterrey")},
			b:         &model.CandidateProfile{City: stringPtr("guadalajara")},
			wantCount: 1,
			wantField: "city",
		},
		{
			name:      "case-insensitive comparison",
			a:         &model.CandidateProfile{City: stringPtr("Monterrey")},
			b:         &model.CandidateProfile{City: stringPtr("monterrey")},
			wantCount: 0,
		},
		{
			name:      "different property types",
			a:         &model.CandidateProfile{PropertyType: stringPtr(model.PropertyTypeHouse)},
			b:         &model.CandidateProfile{PropertyType: stringPtr(model.PropertyTypeApartment)},
			wantCount: 1,
			wantField: "property_type",
		},
		{
			name:      "one-sided area is not disagreement",
			a:         &model.CandidateProfile{},
			b:         &model.CandidateProfile{Area: stringPtr("cumbres")},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discrepancies := CrossValidate(tt.a, tt.b)

			if len(discrepancies) != tt.wantCount {
				t.Fatalf("Expected %d discrepancies, got %d", tt.wantCount, len(discrepancies))
			}
			if tt.wantCount == 0 {
				return
			}

			d := discrepancies[0]
			if d.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, d.Field)
			}
			if d.DiffPct != nil {
				t.Error("Categorical discrepancy must not carry diff_pct")
			}
			if d.Severity != model.SeverityMedium {
				t.Errorf("Expected severity medium, got %q", d.Severity)
			}
		})
	}
}

func TestNeedsReview(t *testing.T) {
	tests := []struct {
		name          string
		discrepancies []model.Discrepancy
		want          bool
	}{
		{
			name:          "no discrepancies",
			discrepancies: []model.Discrepancy{},
			want:          false,
		},
		{
			name: "high severity forces review",
			discrepancies: []model.Discrepancy{
				{Field: "budget", DiffPct: float64Ptr(40.0), Severity: model.SeverityHigh},
			},
			want: true,
		},
		{
			name: "medium between 20 and 30 still forces review",
			discrepancies: []model.Discrepancy{
				{Field: "budget", DiffPct: float64Ptr(25.0), Severity: model.SeverityMedium},
			},
			want: true,
		},
		{
			name: "medium at or below 20 does not",
			discrepancies: []model.Discrepancy{
				{Field: "budget", DiffPct: float64Ptr(20.0), Severity: model.SeverityMedium},
			},
			want: false,
		},
		{
			name: "categorical medium without diff pct does not",
			discrepancies: []model.Discrepancy{
				{Field: "city", Severity: model.SeverityMedium},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsReview(tt.discrepancies); got != tt.want {
				t.Errorf("Expected needsReview=%v, got %v", tt.want, got)
			}
		})
	}
}
