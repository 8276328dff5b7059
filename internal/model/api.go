package model

// QualifyRequest carries an inline conversation to qualify.
type QualifyRequest struct {
	Turns []ConversationTurn `json:"turns" binding:"required"`
}

// QualifyResponse returns the final profile plus both candidate profiles for
// transparency, the way intent echoing works in search responses.
type QualifyResponse struct {
	Profile          *QualifiedProfile `json:"profile"`
	HeuristicProfile *CandidateProfile `json:"heuristic_profile,omitempty"`
	ModelProfile     *CandidateProfile `json:"model_profile,omitempty"`
	Took             int64             `json:"took_ms"`
}

// MatchRequest carries a buyer profile to match against the catalog.
type MatchRequest struct {
	Profile CandidateProfile `json:"profile"`
}

// MatchResponse returns up to three ranked matches.
type MatchResponse struct {
	Results []MatchResult `json:"results"`
	Total   int           `json:"total"`
	Took    int64         `json:"took_ms"`
}

// SessionQualifyResponse combines qualification and matching for a stored
// conversation session.
type SessionQualifyResponse struct {
	SessionID string            `json:"session_id"`
	Profile   *QualifiedProfile `json:"profile"`
	Matches   []MatchResult     `json:"matches"`
	Took      int64             `json:"took_ms"`
}
