package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"core/internal/model"

	"go.uber.org/zap"
)

// Match reason constants, derived from the numeric breakdown only.
const (
	ReasonBudgetExactMatch   = "budget_exact_match"
	ReasonBudgetCloseMatch   = "budget_close_match"
	ReasonBedroomsExactMatch = "bedrooms_exact_match"
	ReasonBedroomsCloseMatch = "bedrooms_close_match"
	ReasonAreaExactMatch     = "area_exact_match"
	ReasonAreaPartialMatch   = "area_partial_match"
	ReasonPropertyTypeMatch  = "property_type_match"
)

// Score component weights
const (
	maxBudgetScore       = 40
	maxBedroomsScore     = 30
	maxAreaScore         = 20
	maxPropertyTypeScore = 10
)

// CatalogSource supplies active listings for a city. Matching on city is
// case-insensitive at this boundary.
type CatalogSource interface {
	ActiveInCity(ctx context.Context, city string) ([]model.Property, error)
}

// Matcher scores catalog entries against a buyer profile with a transparent
// 0-100 rubric.
type Matcher struct {
	catalog CatalogSource
	topK    int
	logger  *zap.Logger
}

// NewMatcher creates a new matcher returning at most topK results
func NewMatcher(catalog CatalogSource, topK int, logger *zap.Logger) *Matcher {
	return &Matcher{
		catalog: catalog,
		topK:    topK,
		logger:  logger,
	}
}

// Match ranks active listings in the profile's city and returns the top
// results, score descending. A profile without a city yields an empty list;
// there is never a fallback to an unfiltered search.
func (m *Matcher) Match(ctx context.Context, profile *model.CandidateProfile) ([]model.MatchResult, error) {
	if profile.City == nil || *profile.City == "" {
		m.logger.Info("matching skipped: profile has no city")
		return []model.MatchResult{}, nil
	}

	properties, err := m.catalog.ActiveInCity(ctx, *profile.City)
	if err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, 0, len(properties))
	for _, property := range properties {
		results = append(results, m.score(profile, property))
	}

	// Score descending; equal scores break toward the lower catalog id so
	// ordering is stable across enumeration order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PropertyID < results[j].PropertyID
	})

	if len(results) > m.topK {
		results = results[:m.topK]
	}

	m.logger.Debug("matching complete",
		zap.String("city", *profile.City),
		zap.Int("candidates", len(properties)),
		zap.Int("returned", len(results)),
	)

	return results, nil
}

// score computes one entry's components. A dimension is computed only when
// the profile asserts the field; absent fields contribute nothing, not zero.
func (m *Matcher) score(profile *model.CandidateProfile, property model.Property) model.MatchResult {
	components := map[string]int{}

	if profile.Budget != nil {
		components["budget"] = budgetScore(property.Price, *profile.Budget)
	}
	if profile.Bedrooms != nil {
		components["bedrooms"] = bedroomsScore(property.Bedrooms, *profile.Bedrooms)
	}
	if profile.Area != nil {
		components["area"] = areaScore(property.Area, *profile.Area)
	}
	if profile.PropertyType != nil {
		components["property_type"] = propertyTypeScore(property.PropertyType, *profile.PropertyType)
	}

	total := 0
	for _, v := range components {
		total += v
	}

	return model.MatchResult{
		PropertyID:      property.ID,
		Score:           total,
		ScoreComponents: components,
		Reasons:         reasonsFromComponents(components),
	}
}

// budgetScore tiers the percent difference between price and budget.
func budgetScore(price, budget float64) int {
	diffPct := math.Abs(price-budget) / budget * 100

	switch {
	case diffPct <= 10:
		return maxBudgetScore
	case diffPct <= 20:
		return 30
	case diffPct <= 30:
		return 20
	default:
		return 0
	}
}

func bedroomsScore(actual, wanted int) int {
	switch {
	case actual == wanted:
		return maxBedroomsScore
	case actual == wanted-1 || actual == wanted+1:
		return 20
	default:
		return 0
	}
}

func areaScore(actual, wanted string) int {
	a := strings.ToLower(actual)
	w := strings.ToLower(wanted)

	switch {
	case a == w:
		return maxAreaScore
	case strings.Contains(a, w) || strings.Contains(w, a):
		return 10
	default:
		return 0
	}
}

func propertyTypeScore(actual, wanted string) int {
	if strings.EqualFold(actual, wanted) {
		return maxPropertyTypeScore
	}
	return 0
}

// reasonsFromComponents derives the human-readable reasons purely from the
// numeric breakdown.
func reasonsFromComponents(components map[string]int) []string {
	reasons := []string{}

	if v, ok := components["budget"]; ok {
		if v == maxBudgetScore {
			reasons = append(reasons, ReasonBudgetExactMatch)
		} else if v >= 20 {
			reasons = append(reasons, ReasonBudgetCloseMatch)
		}
	}
	if v, ok := components["bedrooms"]; ok {
		if v == maxBedroomsScore {
			reasons = append(reasons, ReasonBedroomsExactMatch)
		} else if v == 20 {
			reasons = append(reasons, ReasonBedroomsCloseMatch)
		}
	}
	if v, ok := components["area"]; ok {
		if v == maxAreaScore {
			reasons = append(reasons, ReasonAreaExactMatch)
		} else if v == 10 {
			reasons = append(reasons, ReasonAreaPartialMatch)
		}
	}
	if v, ok := components["property_type"]; ok && v == maxPropertyTypeScore {
		reasons = append(reasons, ReasonPropertyTypeMatch)
	}

	return reasons
}
