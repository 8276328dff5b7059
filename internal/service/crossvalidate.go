package service

import (
	"math"
	"strings"

	"core/internal/model"
)

// Severity and review thresholds. The two values differ on purpose: a
// numeric gap between 20% and 30% stays "medium" but still forces review.
const (
	severityHighPct  = 30.0
	reviewTriggerPct = 20.0
)

// CrossValidate compares the two candidate profiles field by field. A field
// present in only one profile never produces a discrepancy; absence is not
// disagreement.
func CrossValidate(a, b *model.CandidateProfile) []model.Discrepancy {
	discrepancies := []model.Discrepancy{}

	// Numeric fields: budget, bedrooms, bathrooms
	if a.Budget != nil && b.Budget != nil && *a.Budget != *b.Budget {
		discrepancies = append(discrepancies, numericDiscrepancy("budget", *a.Budget, *b.Budget))
	}
	if a.Bedrooms != nil && b.Bedrooms != nil && *a.Bedrooms != *b.Bedrooms {
		discrepancies = append(discrepancies, numericDiscrepancy("bedrooms", float64(*a.Bedrooms), float64(*b.Bedrooms)))
	}
	if a.Bathrooms != nil && b.Bathrooms != nil && *a.Bathrooms != *b.Bathrooms {
		discrepancies = append(discrepancies, numericDiscrepancy("bathrooms", float64(*a.Bathrooms), float64(*b.Bathrooms)))
	}

	// Categorical fields: city, area, property_type
	if d, ok := categoricalDiscrepancy("city", a.City, b.City); ok {
		discrepancies = append(discrepancies, d)
	}
	if d, ok := categoricalDiscrepancy("area", a.Area, b.Area); ok {
		discrepancies = append(discrepancies, d)
	}
	if d, ok := categoricalDiscrepancy("property_type", a.PropertyType, b.PropertyType); ok {
		discrepancies = append(discrepancies, d)
	}

	return discrepancies
}

func numericDiscrepancy(field string, a, b float64) model.Discrepancy {
	diffPct := math.Abs(a-b) / math.Max(a, b) * 100
	diffPct = math.Round(diffPct*10) / 10

	severity := model.SeverityMedium
	if diffPct > severityHighPct {
		severity = model.SeverityHigh
	}

	return model.Discrepancy{
		Field:    field,
		ValueA:   a,
		ValueB:   b,
		DiffPct:  &diffPct,
		Severity: severity,
	}
}

func categoricalDiscrepancy(field string, a, b *string) (model.Discrepancy, bool) {
	if a == nil || b == nil || strings.EqualFold(*a, *b) {
		return model.Discrepancy{}, false
	}

	return model.Discrepancy{
		Field:    field,
		ValueA:   *a,
		ValueB:   *b,
		Severity: model.SeverityMedium,
	}, true
}

// needsReview reports whether any discrepancy forces a human look: severity
// high, or a numeric gap above the review trigger even when still medium.
func needsReview(discrepancies []model.Discrepancy) bool {
	for _, d := range discrepancies {
		if d.Severity == model.SeverityHigh {
			return true
		}
		if d.DiffPct != nil && *d.DiffPct > reviewTriggerPct {
			return true
		}
	}
	return false
}

// conflictingFields returns the set of field names the validator flagged.
func conflictingFields(discrepancies []model.Discrepancy) map[string]bool {
	fields := make(map[string]bool, len(discrepancies))
	for _, d := range discrepancies {
		fields[d.Field] = true
	}
	return fields
}
