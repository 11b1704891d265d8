package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cardwise/cardwise-api/internal/api/shared"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/responder"
)

// GenerateQuizRequest is the body for POST /api/ai/generate-quiz.
type GenerateQuizRequest struct {
	Topic         string `json:"topic" validate:"required,min=1,max=500"`
	QuestionCount int    `json:"questionCount" validate:"required,min=1,max=20"`
	Difficulty    int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
}

// GenerateQuizResponse is the body returned by POST /api/ai/generate-quiz.
type GenerateQuizResponse struct {
	Quiz            []domain.GeneratedCard `json:"quiz"`
	Topic           string                 `json:"topic"`
	TokensUsed      int                    `json:"tokensUsed"`
	RemainingTokens *int64                 `json:"remainingTokens,omitempty"`
	FromCache       bool                   `json:"fromCache"`
}

// HintRequest is the body for POST /api/ai/hint.
type HintRequest struct {
	CardID string `json:"cardId" validate:"required,uuid"`
	Level  int    `json:"level" validate:"required,min=1,max=3"`
	Front  string `json:"front" validate:"required,min=1,max=1000"`
	Back   string `json:"back" validate:"required,min=1,max=1000"`
}

// HintResponse is the body returned by POST /api/ai/hint.
type HintResponse struct {
	Hint   string `json:"hint"`
	Level  int    `json:"level"`
	CardID string `json:"cardId"`
}

// ExplainRequest is the body for POST /api/ai/explain.
type ExplainRequest struct {
	CardID     string `json:"cardId" validate:"required,uuid"`
	Front      string `json:"front" validate:"required,min=1,max=1000"`
	Back       string `json:"back" validate:"required,min=1,max=1000"`
	UserAnswer string `json:"userAnswer" validate:"omitempty,max=1000"`
}

// ExplainResponse is the body returned by POST /api/ai/explain.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
	CardID      string `json:"cardId"`
}

// ImproveCardRequest is the body for POST /api/ai/improve-card.
type ImproveCardRequest struct {
	Front           string `json:"front" validate:"required,min=1,max=1000"`
	Back            string `json:"back" validate:"required,min=1,max=1000"`
	ImprovementType string `json:"improvementType" validate:"required,oneof=clarity difficulty accuracy"`
}

// ImproveCardResponse is the body returned by POST /api/ai/improve-card.
type ImproveCardResponse struct {
	Improved        domain.CardImprovement `json:"improved"`
	Original        CardSnapshot           `json:"original"`
	ImprovementType string                 `json:"improvementType"`
}

// CardSnapshot echoes the card content the caller submitted.
type CardSnapshot struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// UsageResponse is the body returned by GET /api/ai/usage.
type UsageResponse struct {
	Usage domain.UsageSnapshot `json:"usage"`
}

// AIService is the orchestration surface the handler depends on.
// *responder.Responder is the production implementation.
type AIService interface {
	GenerateCards(ctx context.Context, userID uuid.UUID, topic string, count, difficulty int) (*responder.Outcome, error)
	GenerateHint(ctx context.Context, userID uuid.UUID, level int, front, back string) (*responder.Outcome, error)
	GenerateExplanation(ctx context.Context, userID uuid.UUID, front, back, userAnswer string) (*responder.Outcome, error)
	ImproveCard(ctx context.Context, userID uuid.UUID, front, back, improvementType string) (*domain.CardImprovement, *responder.Outcome, error)
	Usage(ctx context.Context, userID uuid.UUID) domain.UsageSnapshot
}

var _ AIService = (*responder.Responder)(nil)

// AIHandler serves the AI generation endpoints.
type AIHandler struct {
	service   AIService
	validator *validator.Validate
}

// NewAIHandler creates an AIHandler over the given service.
func NewAIHandler(service AIService) *AIHandler {
	return &AIHandler{
		service:   service,
		validator: validator.New(),
	}
}

// userIDFromContext extracts the user ID placed by the identity middleware.
func userIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// decodeAndValidate decodes the body into req and validates it, writing the
// error response itself on failure.
func (h *AIHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// respondFailure maps err to a status, message, and optional error type.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if t := errorType(err); t != "" {
		shared.RespondWithTypedError(w, r, status, message, t)
		return
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// GenerateQuiz handles POST /api/ai/generate-quiz.
func (h *AIHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateQuizRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Difficulty == 0 {
		req.Difficulty = 3
	}

	outcome, err := h.service.GenerateCards(r.Context(), userID, req.Topic, req.QuestionCount, req.Difficulty)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	resp := GenerateQuizResponse{
		Quiz:       outcome.Cards,
		Topic:      req.Topic,
		TokensUsed: outcome.TokensConsumed,
		FromCache:  outcome.FromCache,
	}
	if outcome.Headroom != nil {
		remaining := outcome.Headroom.DailyLimit - outcome.Headroom.CurrentUsage - int64(outcome.TokensConsumed)
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingTokens = &remaining
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Hint handles POST /api/ai/hint.
func (h *AIHandler) Hint(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req HintRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := h.service.GenerateHint(r.Context(), userID, req.Level, req.Front, req.Back)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HintResponse{
		Hint:   outcome.Content,
		Level:  req.Level,
		CardID: req.CardID,
	})
}

// Explain handles POST /api/ai/explain.
func (h *AIHandler) Explain(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ExplainRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := h.service.GenerateExplanation(r.Context(), userID, req.Front, req.Back, req.UserAnswer)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExplainResponse{
		Explanation: outcome.Content,
		CardID:      req.CardID,
	})
}

// ImproveCard handles POST /api/ai/improve-card.
func (h *AIHandler) ImproveCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ImproveCardRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	improvement, _, err := h.service.ImproveCard(r.Context(), userID, req.Front, req.Back, req.ImprovementType)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ImproveCardResponse{
		Improved:        *improvement,
		Original:        CardSnapshot{Front: req.Front, Back: req.Back},
		ImprovementType: req.ImprovementType,
	})
}

// Usage handles GET /api/ai/usage.
func (h *AIHandler) Usage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	snapshot := h.service.Usage(r.Context(), userID)
	shared.RespondWithJSON(w, r, http.StatusOK, UsageResponse{Usage: snapshot})
}
