package model

import "time"

// Property represents a catalog listing. Owned by the catalog collaborator;
// read-only from the qualification core.
type Property struct {
	ID           int64     `json:"id" db:"id"`
	Title        *string   `json:"title,omitempty" db:"title"`
	Price        float64   `json:"price" db:"price"`
	City         string    `json:"city" db:"city"`
	Area         string    `json:"area" db:"area"`
	Bedrooms     int       `json:"bedrooms" db:"bedrooms"`
	Bathrooms    int       `json:"bathrooms" db:"bathrooms"`
	PropertyType string    `json:"property_type" db:"property_type"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MatchResult is the scored outcome for one catalog entry. Recomputed on
// every matching call, never persisted.
type MatchResult struct {
	PropertyID      int64          `json:"property_id"`
	Score           int            `json:"score"`
	ScoreComponents map[string]int `json:"score_components"`
	Reasons         []string       `json:"reasons"`
}
