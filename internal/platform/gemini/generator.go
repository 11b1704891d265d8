package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/generation"
)

// Generator implements the generation.Generator interface using Google's
// Gemini API.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// NewGenerator creates a new Gemini-backed Generator with the provided
// dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and timeouts
//
// Returns:
//   - A properly initialized Generator or an error if initialization fails
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Ensure Generator implements the generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// Generate submits the prompt to the Gemini API and returns the generated
// text with the token count from the response's usage metadata. The call is
// bounded by the configured request timeout; a timeout is classified as
// transient (generation.ErrUnavailable).
func (g *Generator) Generate(
	ctx context.Context,
	prompt string,
	opts domain.RequestOptions,
) (*generation.Result, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", generation.ErrInvalidRequest)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.config.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(opts.MaxTokens),
		Temperature:     genai.Ptr(float32(opts.Temperature)),
	}

	// Structured-output hint: ask the model for a JSON body instead of prose.
	if opts.StructuredOutput {
		genConfig.ResponseMIMEType = "application/json"
	}

	if opts.SystemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}

	g.logger.DebugContext(ctx, "Making Gemini API call",
		"model", g.model,
		"prompt_length", len(prompt),
		"max_tokens", opts.MaxTokens,
		"structured_output", opts.StructuredOutput)

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(callCtx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		classified := classifyError(err)
		g.logger.WarnContext(ctx, "Gemini API call failed",
			"error", err,
			"classified", classified,
			"elapsed", time.Since(start))
		return nil, classified
	}

	text := resp.Text()
	if text == "" {
		// An empty body with a successful status usually means the content
		// was filtered; there is nothing to retry against.
		return nil, fmt.Errorf("%w: empty response from model", generation.ErrInvalidRequest)
	}

	tokenCount := 0
	if resp.UsageMetadata != nil {
		tokenCount = int(resp.UsageMetadata.TotalTokenCount)
	}

	g.logger.DebugContext(ctx, "Gemini API call successful",
		"response_length", len(text),
		"token_count", tokenCount,
		"elapsed", time.Since(start))

	return &generation.Result{
		Text:       text,
		TokenCount: tokenCount,
	}, nil
}
