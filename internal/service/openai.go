package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"core/internal/config"
	"core/internal/model"
	"core/internal/utils"

	"go.uber.org/zap"
)

// OpenAIClient handles OpenAI-compatible API interactions for the model
// extraction path. The bounded timeout lives on its HTTP client; callers see
// a single request/response with no partial results.
type OpenAIClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == 0 && c.config.Temperature > 0 {
		req.Temperature = c.config.Temperature
	}
	if req.TopP == 0 && c.config.TopP > 0 {
		req.TopP = c.config.TopP
	}
	if req.MaxTokens == 0 && c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

const extractionSystemPrompt = `You are a real estate buyer qualification assistant for the Mexican market. Read the full conversation between a prospective buyer (user) and an agent, and extract the buyer's requirements as structured JSON.

Extract the following fields if present:
- budget: budget in MXN (number). "3 millones" = 3000000, "2.5 mdp" = 2500000
- city: city name, lowercase, no accents (e.g. "monterrey", "ciudad de mexico")
- area: neighborhood name, lowercase, no accents (e.g. "san pedro", "cumbres")
- bedrooms: number of bedrooms (integer)
- bathrooms: number of bathrooms (integer)
- property_type: one of "apartment", "house", "land"
- phone: 10-digit contact phone if the buyer shares one (string)
- confidence: your confidence in the extraction, one of "high", "medium", "low"

Important rules:
- Respond ONLY with valid JSON
- If a field is not mentioned, omit it
- Use the whole conversation: buyers correct themselves, and later statements matter
- "cdmx" and "df" mean "ciudad de mexico"
- "depa" means apartment, "terreno" and "lote" mean land

Examples:
Conversation:
user: busco depa en monterrey, presupuesto 3 millones
Response: {"budget": 3000000, "city": "monterrey", "property_type": "apartment", "confidence": "high"}

Conversation:
user: quiero una casa de 3 recamaras en cumbres
agent: perfecto, en que ciudad?
user: monterrey, hasta 5 millones
Response: {"budget": 5000000, "city": "monterrey", "area": "cumbres", "bedrooms": 3, "property_type": "house", "confidence": "high"}`

// ExtractProfile asks the model to read the full ordered conversation and
// return a candidate buyer profile.
func (c *OpenAIClient) ExtractProfile(ctx context.Context, turns []model.ConversationTurn) (*model.CandidateProfile, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("OpenAI API is not enabled")
	}

	var transcript strings.Builder
	for _, turn := range turns {
		transcript.WriteString(turn.Role)
		transcript.WriteString(": ")
		transcript.WriteString(turn.Text)
		transcript.WriteString("\n")
	}

	req := ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: transcript.String()},
		},
		Temperature:    0.2,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.ChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	// Use robust JSON parser to handle various AI output formats
	var result AIExtractionResponse
	content := resp.Choices[0].Message.Content
	if err := utils.ParseAIJSON(content, &result); err != nil {
		c.logger.Warn("failed to parse model extraction response",
			zap.String("content", utils.TruncateString(content, 200)),
		)
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	if err := validateExtraction(&result); err != nil {
		return nil, fmt.Errorf("model response validation failed: %w", err)
	}

	return &model.CandidateProfile{
		Budget:       result.Budget,
		City:         result.City,
		Area:         result.Area,
		Bedrooms:     result.Bedrooms,
		Bathrooms:    result.Bathrooms,
		PropertyType: result.PropertyType,
		Phone:        result.Phone,
		Confidence:   result.Confidence,
	}, nil
}

// validateExtraction validates the AI response using business rules
func validateExtraction(resp *AIExtractionResponse) error {
	if resp.Budget != nil && *resp.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %f", *resp.Budget)
	}

	if resp.PropertyType != nil {
		validTypes := map[string]bool{
			model.PropertyTypeApartment: true,
			model.PropertyTypeHouse:     true,
			model.PropertyTypeLand:      true,
		}
		if !validTypes[*resp.PropertyType] {
			return fmt.Errorf("invalid property_type: %s, must be one of: apartment, house, land", *resp.PropertyType)
		}
	}

	if resp.Bedrooms != nil && (*resp.Bedrooms < 0 || *resp.Bedrooms > 10) {
		return fmt.Errorf("bedrooms must be between 0 and 10")
	}
	if resp.Bathrooms != nil && (*resp.Bathrooms < 0 || *resp.Bathrooms > 10) {
		return fmt.Errorf("bathrooms must be between 0 and 10")
	}

	if resp.Confidence != nil {
		validConfidence := map[string]bool{"high": true, "medium": true, "low": true}
		if !validConfidence[*resp.Confidence] {
			return fmt.Errorf("invalid confidence: %s, must be one of: high, medium, low", *resp.Confidence)
		}
	}

	return nil
}
