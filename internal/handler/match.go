package handler

import (
	"net/http"
	"strconv"
	"time"

	"core/internal/model"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchHandler handles matching HTTP requests
type MatchHandler struct {
	matcher *service.Matcher
	repo    *repository.PostgresRepository
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matcher *service.Matcher, repo *repository.PostgresRepository) *MatchHandler {
	return &MatchHandler{
		matcher: matcher,
		repo:    repo,
	}
}

// Match handles POST /api/v1/match
func (h *MatchHandler) Match(c *gin.Context) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	startTime := time.Now()
	results, err := h.matcher.Match(c.Request.Context(), &req.Profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Matching failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.MatchResponse{
		Results: results,
		Total:   len(results),
		Took:    time.Since(startTime).Milliseconds(),
	})
}

// GetProperty handles GET /api/v1/properties/:id
func (h *MatchHandler) GetProperty(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.repo.GetProperty(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property: " + err.Error()})
		return
	}

	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}
