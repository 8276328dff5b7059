package service

import (
	"context"
	"time"

	"core/internal/model"

	"go.uber.org/zap"
)

// Qualifier orchestrates one qualification run: both extraction paths,
// cross-validation, the defensive merge, and the review decision. It is
// stateless; every call owns its own inputs and result.
type Qualifier struct {
	heuristic *HeuristicExtractor
	extractor ModelExtractor
	logger    *zap.Logger
}

// NewQualifier creates a new qualifier. The model extractor may be nil when
// the external service is not configured; qualification then runs on the
// heuristic path alone.
func NewQualifier(heuristic *HeuristicExtractor, extractor ModelExtractor, logger *zap.Logger) *Qualifier {
	return &Qualifier{
		heuristic: heuristic,
		extractor: extractor,
		logger:    logger,
	}
}

// QualifyResult carries the final profile plus both candidate profiles.
type QualifyResult struct {
	Profile          *model.QualifiedProfile
	HeuristicProfile *model.CandidateProfile
	ModelProfile     *model.CandidateProfile
}

// Qualify turns a conversation into a final profile. It never fails: a model
// extractor error degrades to a heuristic-only run.
func (q *Qualifier) Qualify(ctx context.Context, turns []model.ConversationTurn) *QualifyResult {
	startTime := time.Now()

	heuristicProfile := q.heuristic.Extract(turns)
	modelProfile := q.extractModel(ctx, turns)

	discrepancies := CrossValidate(heuristicProfile, modelProfile)

	merged := mergeProfiles(heuristicProfile, modelProfile, conflictingFields(discrepancies))

	// Downstream storage requires a strictly-positive duration.
	duration := time.Since(startTime).Milliseconds()
	if duration < 1 {
		duration = 1
	}

	profile := &model.QualifiedProfile{
		CandidateProfile: *merged,
		Discrepancies:    discrepancies,
		NeedsReview:      needsReview(discrepancies),
		DurationMS:       duration,
		Status:           model.StatusQualified,
	}

	q.logger.Info("qualification complete",
		zap.Int("turns", len(turns)),
		zap.Int("discrepancies", len(discrepancies)),
		zap.Bool("needs_review", profile.NeedsReview),
		zap.Int64("duration_ms", duration),
	)

	return &QualifyResult{
		Profile:          profile,
		HeuristicProfile: heuristicProfile,
		ModelProfile:     modelProfile,
	}
}

// extractModel runs the context-aware path. Any failure is recovered here
// and replaced with an empty profile; it never reaches the caller.
func (q *Qualifier) extractModel(ctx context.Context, turns []model.ConversationTurn) *model.CandidateProfile {
	if q.extractor == nil || !q.extractor.IsEnabled() {
		q.logger.Debug("model extractor not configured, using heuristic path only")
		return &model.CandidateProfile{}
	}

	profile, err := q.extractor.ExtractProfile(ctx, turns)
	if err != nil {
		q.logger.Warn("model extraction failed, continuing with heuristic profile",
			zap.Error(err),
		)
		return &model.CandidateProfile{}
	}

	return profile
}

// mergeProfiles starts from the heuristic profile in full and adds model
// fields only where the heuristic said nothing and the validator found no
// conflict. On conflicting fields the heuristic value always wins.
func mergeProfiles(heuristic, modelProfile *model.CandidateProfile, conflicts map[string]bool) *model.CandidateProfile {
	merged := *heuristic

	if merged.Budget == nil && modelProfile.Budget != nil && !conflicts["budget"] {
		merged.Budget = modelProfile.Budget
	}
	if merged.City == nil && modelProfile.City != nil && !conflicts["city"] {
		merged.City = modelProfile.City
	}
	if merged.Area == nil && modelProfile.Area != nil && !conflicts["area"] {
		merged.Area = modelProfile.Area
	}
	if merged.Bedrooms == nil && modelProfile.Bedrooms != nil && !conflicts["bedrooms"] {
		merged.Bedrooms = modelProfile.Bedrooms
	}
	if merged.Bathrooms == nil && modelProfile.Bathrooms != nil && !conflicts["bathrooms"] {
		merged.Bathrooms = modelProfile.Bathrooms
	}
	if merged.PropertyType == nil && modelProfile.PropertyType != nil && !conflicts["property_type"] {
		merged.PropertyType = modelProfile.PropertyType
	}
	if merged.Phone == nil && modelProfile.Phone != nil && !conflicts["phone"] {
		merged.Phone = modelProfile.Phone
	}
	if merged.Confidence == nil && modelProfile.Confidence != nil {
		merged.Confidence = modelProfile.Confidence
	}

	return &merged
}
