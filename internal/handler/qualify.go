package handler

import (
	"net/http"
	"time"

	"core/internal/model"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// QualifyHandler handles qualification HTTP requests
type QualifyHandler struct {
	qualifier *service.Qualifier
	matcher   *service.Matcher
	repo      *repository.PostgresRepository
}

// NewQualifyHandler creates a new qualify handler
func NewQualifyHandler(qualifier *service.Qualifier, matcher *service.Matcher, repo *repository.PostgresRepository) *QualifyHandler {
	return &QualifyHandler{
		qualifier: qualifier,
		matcher:   matcher,
		repo:      repo,
	}
}

// Qualify handles POST /api/v1/qualify with an inline conversation.
func (h *QualifyHandler) Qualify(c *gin.Context) {
	var req model.QualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Turns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conversation must contain at least one turn"})
		return
	}

	startTime := time.Now()
	result := h.qualifier.Qualify(c.Request.Context(), req.Turns)

	c.JSON(http.StatusOK, model.QualifyResponse{
		Profile:          result.Profile,
		HeuristicProfile: result.HeuristicProfile,
		ModelProfile:     result.ModelProfile,
		Took:             time.Since(startTime).Milliseconds(),
	})
}

// QualifySession handles POST /api/v1/sessions/:id/qualify. It loads the
// stored conversation, qualifies it, persists the profile, and returns the
// profile together with its catalog matches.
func (h *QualifyHandler) QualifySession(c *gin.Context) {
	sessionID := c.Param("id")

	startTime := time.Now()

	turns, err := h.repo.GetConversation(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation: " + err.Error()})
		return
	}
	if len(turns) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	result := h.qualifier.Qualify(c.Request.Context(), turns)

	if err := h.repo.SaveQualifiedProfile(c.Request.Context(), sessionID, result.Profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile: " + err.Error()})
		return
	}

	matches, err := h.matcher.Match(c.Request.Context(), &result.Profile.CandidateProfile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Matching failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SessionQualifyResponse{
		SessionID: sessionID,
		Profile:   result.Profile,
		Matches:   matches,
		Took:      time.Since(startTime).Milliseconds(),
	})
}
