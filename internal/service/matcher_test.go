package service

import (
	"context"
	"errors"
	"testing"

	"core/internal/model"

	"go.uber.org/zap"
)

type fakeCatalog struct {
	properties []model.Property
	err        error
	lastCity   string
}

func (f *fakeCatalog) ActiveInCity(ctx context.Context, city string) ([]model.Property, error) {
	f.lastCity = city
	if f.err != nil {
		return nil, f.err
	}
	return f.properties, nil
}

func newTestMatcher(catalog CatalogSource) *Matcher {
	return NewMatcher(catalog, 3, zap.NewNop())
}

func fullProfile() *model.CandidateProfile {
	return &model.CandidateProfile{
		Budget:       float64Ptr(3_000_000),
		City:         stringPtr("monterrey"),
		Area:         stringPtr("cumbres"),
		Bedrooms:     intPtr(3),
		PropertyType: stringPtr(model.PropertyTypeHouse),
	}
}

func catalogEntry(id int64, price float64, area string, bedrooms int, ptype string) model.Property {
	return model.Property{
		ID:           id,
		Price:        price,
		City:         "monterrey",
		Area:         area,
		Bedrooms:     bedrooms,
		PropertyType: ptype,
		IsActive:     true,
	}
}

func TestMatcher_NoCityReturnsEmpty(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{catalogEntry(1, 3_000_000, "cumbres", 3, model.PropertyTypeHouse)}}
	matcher := newTestMatcher(catalog)

	results, err := matcher.Match(context.Background(), &model.CandidateProfile{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if results == nil {
		t.Fatal("Expected an empty list, not nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected empty results without a city, got %d", len(results))
	}
	if catalog.lastCity != "" {
		t.Error("Catalog must not be queried when the profile has no city")
	}
}

func TestMatcher_PerfectMatchScores100(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{
		catalogEntry(1, 3_000_000, "cumbres", 3, model.PropertyTypeHouse),
	}}
	matcher := newTestMatcher(catalog)

	results, err := matcher.Match(context.Background(), fullProfile())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Score != 100 {
		t.Errorf("Expected score 100, got %d", r.Score)
	}

	wantComponents := map[string]int{
		"budget":        40,
		"bedrooms":      30,
		"area":          20,
		"property_type": 10,
	}
	for field, want := range wantComponents {
		if got := r.ScoreComponents[field]; got != want {
			t.Errorf("Expected %s component %d, got %d", field, want, got)
		}
	}

	wantReasons := []string{
		ReasonBudgetExactMatch,
		ReasonBedroomsExactMatch,
		ReasonAreaExactMatch,
		ReasonPropertyTypeMatch,
	}
	if len(r.Reasons) != len(wantReasons) {
		t.Fatalf("Expected %d reasons, got %v", len(wantReasons), r.Reasons)
	}
	for i, want := range wantReasons {
		if r.Reasons[i] != want {
			t.Errorf("Expected reason %q at %d, got %q", want, i, r.Reasons[i])
		}
	}
}

func TestMatcher_BudgetTiers(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int
	}{
		{name: "within 10 percent", price: 3_200_000, want: 40},
		{name: "within 20 percent", price: 3_500_000, want: 30},
		{name: "within 30 percent", price: 3_800_000, want: 20},
		{name: "beyond 30 percent", price: 4_500_000, want: 0},
		{name: "cheaper also tiers", price: 2_800_000, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{properties: []model.Property{
				catalogEntry(1, tt.price, "obispado", 1, model.PropertyTypeLand),
			}}
			matcher := newTestMatcher(catalog)

			profile := &model.CandidateProfile{
				Budget: float64Ptr(3_000_000),
				City:   stringPtr("monterrey"),
			}
			results, err := matcher.Match(context.Background(), profile)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if got := results[0].ScoreComponents["budget"]; got != tt.want {
				t.Errorf("Expected budget component %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMatcher_BedroomsOffByOne(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{
		catalogEntry(1, 9_000_000, "obispado", 4, model.PropertyTypeLand),
	}}
	matcher := newTestMatcher(catalog)

	profile := &model.CandidateProfile{
		City:     stringPtr("monterrey"),
		Bedrooms: intPtr(3),
	}
	results, err := matcher.Match(context.Background(), profile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	r := results[0]
	if got := r.ScoreComponents["bedrooms"]; got != 20 {
		t.Errorf("Expected bedrooms component 20 for off-by-one, got %d", got)
	}
	if len(r.Reasons) != 1 || r.Reasons[0] != ReasonBedroomsCloseMatch {
		t.Errorf("Expected bedrooms_close_match reason, got %v", r.Reasons)
	}
}

func TestMatcher_AreaSubstringContainment(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{
		catalogEntry(1, 9_000_000, "Cumbres Elite", 1, model.PropertyTypeLand),
	}}
	matcher := newTestMatcher(catalog)

	profile := &model.CandidateProfile{
		City: stringPtr("monterrey"),
		Area: stringPtr("cumbres"),
	}
	results, err := matcher.Match(context.Background(), profile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := results[0].ScoreComponents["area"]; got != 10 {
		t.Errorf("Expected area component 10 for substring containment, got %d", got)
	}
}

func TestMatcher_AbsentFieldsContributeNothing(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{
		catalogEntry(1, 3_000_000, "cumbres", 3, model.PropertyTypeHouse),
	}}
	matcher := newTestMatcher(catalog)

	profile := &model.CandidateProfile{
		City:   stringPtr("monterrey"),
		Budget: float64Ptr(3_000_000),
	}
	results, err := matcher.Match(context.Background(), profile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	r := results[0]
	if r.Score != 40 {
		t.Errorf("Expected score 40 with only budget present, got %d", r.Score)
	}
	if len(r.ScoreComponents) != 1 {
		t.Errorf("Absent fields must not appear in components, got %v", r.ScoreComponents)
	}
	if _, ok := r.ScoreComponents["bedrooms"]; ok {
		t.Error("Bedrooms component must be absent, not zero")
	}
}

func TestMatcher_TopThreeSortedWithStableTieBreak(t *testing.T) {
	catalog := &fakeCatalog{properties: []model.Property{
		catalogEntry(4, 9_000_000, "obispado", 1, model.PropertyTypeLand), // score 0
		catalogEntry(3, 3_000_000, "cumbres", 3, model.PropertyTypeHouse), // score 100
		catalogEntry(2, 3_000_000, "cumbres", 3, model.PropertyTypeHouse), // score 100, lower id
		catalogEntry(1, 3_500_000, "cumbres", 3, model.PropertyTypeHouse), // score 90
		catalogEntry(5, 3_000_000, "cumbres", 3, model.PropertyTypeHouse), // score 100
	}}
	matcher := newTestMatcher(catalog)

	results, err := matcher.Match(context.Background(), fullProfile())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected at most 3 results, got %d", len(results))
	}

	wantIDs := []int64{2, 3, 5}
	for i, want := range wantIDs {
		if results[i].PropertyID != want {
			t.Errorf("Expected property %d at position %d, got %d", want, i, results[i].PropertyID)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Error("Results must be sorted by score descending")
		}
	}
}

func TestMatcher_CatalogErrorPropagates(t *testing.T) {
	matcher := newTestMatcher(&fakeCatalog{err: errors.New("connection refused")})

	_, err := matcher.Match(context.Background(), fullProfile())
	if err == nil {
		t.Fatal("Expected catalog error to propagate")
	}
}
