package service

import (
	"context"

	"core/internal/model"
)

// ModelExtractor is the contract for the context-aware extraction path. It
// receives the full ordered conversation, both roles included, and may fail;
// the qualifier treats a failure as "no model profile".
type ModelExtractor interface {
	ExtractProfile(ctx context.Context, turns []model.ConversationTurn) (*model.CandidateProfile, error)

	// IsEnabled returns whether the extractor is configured and ready
	IsEnabled() bool
}

// AIExtractionResponse is the raw shape the model is asked to produce.
type AIExtractionResponse struct {
	Budget       *float64 `json:"budget,omitempty"`
	City         *string  `json:"city,omitempty"`
	Area         *string  `json:"area,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Confidence   *string  `json:"confidence,omitempty"`
}

// Ensure OpenAIClient implements ModelExtractor
var _ ModelExtractor = (*OpenAIClient)(nil)
