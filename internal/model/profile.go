package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Turn roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Property types extracted from conversations
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
	PropertyTypeLand      = "land"
)

// Discrepancy severities
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// StatusQualified is the single terminal status of a qualification run.
const StatusQualified = "qualified"

// ConversationTurn is one message of a buyer conversation, ordered by Position.
type ConversationTurn struct {
	Role     string `json:"role" db:"role"`
	Text     string `json:"text" db:"text"`
	Position int    `json:"position" db:"position"`
}

// CandidateProfile is one extractor's best-effort guess at buyer attributes.
// Absent fields are nil and omitted from JSON, never null-filled.
type CandidateProfile struct {
	Budget       *float64 `json:"budget,omitempty"`
	City         *string  `json:"city,omitempty"`
	Area         *string  `json:"area,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Confidence   *string  `json:"confidence,omitempty"` // model path only
}

// IsEmpty reports whether no field was extracted.
func (p *CandidateProfile) IsEmpty() bool {
	return p.Budget == nil && p.City == nil && p.Area == nil &&
		p.Bedrooms == nil && p.Bathrooms == nil && p.PropertyType == nil &&
		p.Phone == nil
}

// Discrepancy records a disagreement between the two candidate profiles on
// one field. DiffPct is present only for numeric fields.
type Discrepancy struct {
	Field    string   `json:"field"`
	ValueA   any      `json:"value_a"`
	ValueB   any      `json:"value_b"`
	DiffPct  *float64 `json:"diff_pct,omitempty"`
	Severity string   `json:"severity"`
}

// DiscrepancyList is stored as a JSONB column on qualified profiles.
type DiscrepancyList []Discrepancy

// Value implements driver.Valuer interface
func (d DiscrepancyList) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(DiscrepancyList{})
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface
func (d *DiscrepancyList) Scan(value interface{}) error {
	if value == nil {
		*d = DiscrepancyList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), d)
	}
	return json.Unmarshal(bytes, d)
}

// QualifiedProfile is the merged, reviewed result of one qualification run.
// Discrepancies is always a list, even when empty.
type QualifiedProfile struct {
	CandidateProfile
	Discrepancies DiscrepancyList `json:"discrepancies"`
	NeedsReview   bool            `json:"needs_review"`
	DurationMS    int64           `json:"duration_ms"`
	Status        string          `json:"status"`
}
