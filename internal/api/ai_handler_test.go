package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/api/shared"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/quota"
	"github.com/cardwise/cardwise-api/internal/responder"
)

// mockAIService is a mock implementation of the AIService interface.
type mockAIService struct {
	generateCardsFn func(ctx context.Context, userID uuid.UUID, topic string, count, difficulty int) (*responder.Outcome, error)
	generateHintFn  func(ctx context.Context, userID uuid.UUID, level int, front, back string) (*responder.Outcome, error)
	explainFn       func(ctx context.Context, userID uuid.UUID, front, back, userAnswer string) (*responder.Outcome, error)
	improveFn       func(ctx context.Context, userID uuid.UUID, front, back, improvementType string) (*domain.CardImprovement, *responder.Outcome, error)
	usageFn         func(ctx context.Context, userID uuid.UUID) domain.UsageSnapshot
}

func (m *mockAIService) GenerateCards(ctx context.Context, userID uuid.UUID, topic string, count, difficulty int) (*responder.Outcome, error) {
	return m.generateCardsFn(ctx, userID, topic, count, difficulty)
}

func (m *mockAIService) GenerateHint(ctx context.Context, userID uuid.UUID, level int, front, back string) (*responder.Outcome, error) {
	return m.generateHintFn(ctx, userID, level, front, back)
}

func (m *mockAIService) GenerateExplanation(ctx context.Context, userID uuid.UUID, front, back, userAnswer string) (*responder.Outcome, error) {
	return m.explainFn(ctx, userID, front, back, userAnswer)
}

func (m *mockAIService) ImproveCard(ctx context.Context, userID uuid.UUID, front, back, improvementType string) (*domain.CardImprovement, *responder.Outcome, error) {
	return m.improveFn(ctx, userID, front, back, improvementType)
}

func (m *mockAIService) Usage(ctx context.Context, userID uuid.UUID) domain.UsageSnapshot {
	return m.usageFn(ctx, userID)
}

func newRequest(t *testing.T, method, path string, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func sampleCards(n int) []domain.GeneratedCard {
	cards := make([]domain.GeneratedCard, n)
	for i := range cards {
		cards[i] = domain.GeneratedCard{
			Front:         "Q?",
			Back:          "A.",
			Difficulty:    2,
			IsQuiz:        true,
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 0,
		}
	}
	return cards
}

func TestGenerateQuiz(t *testing.T) {
	userID := uuid.New()
	remaining := int64(9000)

	tests := []struct {
		name           string
		body           interface{}
		userIDInCtx    uuid.UUID
		outcome        *responder.Outcome
		serviceErr     error
		expectedStatus int
		expectedType   string
	}{
		{
			name:        "success",
			body:        GenerateQuizRequest{Topic: "biology", QuestionCount: 5},
			userIDInCtx: userID,
			outcome: &responder.Outcome{
				Cards:          sampleCards(5),
				TokensConsumed: 500,
				Headroom:       &quota.Headroom{CurrentUsage: 500, DailyLimit: 10000},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing user",
			body:           GenerateQuizRequest{Topic: "biology", QuestionCount: 5},
			userIDInCtx:    uuid.Nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty topic",
			body:           GenerateQuizRequest{QuestionCount: 5},
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "count too large",
			body:           GenerateQuizRequest{Topic: "biology", QuestionCount: 21},
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "quota exceeded",
			body:           GenerateQuizRequest{Topic: "biology", QuestionCount: 5},
			userIDInCtx:    userID,
			serviceErr:     responder.ErrQuotaExceeded,
			expectedStatus: http.StatusTooManyRequests,
			expectedType:   "TOKEN_LIMIT_EXCEEDED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := &mockAIService{
				generateCardsFn: func(_ context.Context, _ uuid.UUID, _ string, count, difficulty int) (*responder.Outcome, error) {
					assert.Equal(t, 3, difficulty, "difficulty defaults to 3")
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return tc.outcome, nil
				},
			}
			handler := NewAIHandler(service)

			req := newRequest(t, http.MethodPost, "/api/ai/generate-quiz", tc.body, tc.userIDInCtx)
			rec := httptest.NewRecorder()
			handler.GenerateQuiz(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp GenerateQuizResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp.Quiz, 5)
				assert.Equal(t, "biology", resp.Topic)
				assert.Equal(t, 500, resp.TokensUsed)
				require.NotNil(t, resp.RemainingTokens)
				assert.Equal(t, remaining, *resp.RemainingTokens)
			}

			if tc.expectedType != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.expectedType, resp.Type)
			}
		})
	}
}

func TestGenerateQuizCacheHitOmitsRemaining(t *testing.T) {
	service := &mockAIService{
		generateCardsFn: func(context.Context, uuid.UUID, string, int, int) (*responder.Outcome, error) {
			return &responder.Outcome{
				Cards:          sampleCards(2),
				TokensConsumed: 180,
				FromCache:      true,
			}, nil
		},
	}
	handler := NewAIHandler(service)

	req := newRequest(t, http.MethodPost, "/api/ai/generate-quiz",
		GenerateQuizRequest{Topic: "physics", QuestionCount: 2, Difficulty: 3}, uuid.New())
	rec := httptest.NewRecorder()
	handler.GenerateQuiz(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp GenerateQuizResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.FromCache)
	assert.Nil(t, resp.RemainingTokens)
}

func TestHint(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New().String()

	tests := []struct {
		name           string
		body           HintRequest
		expectedStatus int
	}{
		{
			name:           "success",
			body:           HintRequest{CardID: cardID, Level: 2, Front: "Q", Back: "A"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "level out of range",
			body:           HintRequest{CardID: cardID, Level: 4, Front: "Q", Back: "A"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "card ID not a UUID",
			body:           HintRequest{CardID: "not-a-uuid", Level: 2, Front: "Q", Back: "A"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing front",
			body:           HintRequest{CardID: cardID, Level: 2, Back: "A"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := &mockAIService{
				generateHintFn: func(context.Context, uuid.UUID, int, string, string) (*responder.Outcome, error) {
					return &responder.Outcome{Content: "Think geography.", TokensConsumed: 20}, nil
				},
			}
			handler := NewAIHandler(service)

			req := newRequest(t, http.MethodPost, "/api/ai/hint", tc.body, userID)
			rec := httptest.NewRecorder()
			handler.Hint(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp HintResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Think geography.", resp.Hint)
				assert.Equal(t, 2, resp.Level)
				assert.Equal(t, cardID, resp.CardID)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New().String()

	service := &mockAIService{
		explainFn: func(_ context.Context, _ uuid.UUID, _, _, userAnswer string) (*responder.Outcome, error) {
			assert.Equal(t, "London", userAnswer)
			return &responder.Outcome{Content: "Paris is the capital.", TokensConsumed: 40}, nil
		},
	}
	handler := NewAIHandler(service)

	body := ExplainRequest{CardID: cardID, Front: "Capital of France?", Back: "Paris", UserAnswer: "London"}
	req := newRequest(t, http.MethodPost, "/api/ai/explain", body, userID)
	rec := httptest.NewRecorder()
	handler.Explain(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExplainResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Paris is the capital.", resp.Explanation)
	assert.Equal(t, cardID, resp.CardID)
}

func TestExplainGenerationFailureMapsToServerError(t *testing.T) {
	service := &mockAIService{
		explainFn: func(context.Context, uuid.UUID, string, string, string) (*responder.Outcome, error) {
			return nil, responder.ErrGenerationFailed
		},
	}
	handler := NewAIHandler(service)

	body := ExplainRequest{CardID: uuid.New().String(), Front: "Q", Back: "A"}
	req := newRequest(t, http.MethodPost, "/api/ai/explain", body, uuid.New())
	rec := httptest.NewRecorder()
	handler.Explain(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestImproveCard(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           ImproveCardRequest
		expectedStatus int
	}{
		{
			name:           "success",
			body:           ImproveCardRequest{Front: "Q", Back: "A", ImprovementType: "clarity"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown improvement type",
			body:           ImproveCardRequest{Front: "Q", Back: "A", ImprovementType: "vibes"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := &mockAIService{
				improveFn: func(context.Context, uuid.UUID, string, string, string) (*domain.CardImprovement, *responder.Outcome, error) {
					improvement := &domain.CardImprovement{Front: "Better Q", Back: "Better A", Changes: "reworded"}
					return improvement, &responder.Outcome{TokensConsumed: 100}, nil
				},
			}
			handler := NewAIHandler(service)

			req := newRequest(t, http.MethodPost, "/api/ai/improve-card", tc.body, userID)
			rec := httptest.NewRecorder()
			handler.ImproveCard(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp ImproveCardResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Better Q", resp.Improved.Front)
				assert.Equal(t, "Q", resp.Original.Front)
				assert.Equal(t, "clarity", resp.ImprovementType)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	userID := uuid.New()

	service := &mockAIService{
		usageFn: func(_ context.Context, id uuid.UUID) domain.UsageSnapshot {
			assert.Equal(t, userID, id)
			return domain.UsageSnapshot{
				TotalConsumed:  50000,
				TodayConsumed:  1200,
				DailyLimit:     10000,
				RemainingToday: 8800,
			}
		},
	}
	handler := NewAIHandler(service)

	req := newRequest(t, http.MethodGet, "/api/ai/usage", nil, userID)
	rec := httptest.NewRecorder()
	handler.Usage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UsageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(50000), resp.Usage.TotalConsumed)
	assert.Equal(t, int64(8800), resp.Usage.RemainingToday)
}
