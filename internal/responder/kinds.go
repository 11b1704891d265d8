package responder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// ErrUnknownImprovementType is returned by ImproveCard for an improvement
// type outside the supported set.
var ErrUnknownImprovementType = errors.New("unknown improvement type")

const (
	// quizSystemPrompt constrains the model to bare JSON array output for
	// card generation.
	quizSystemPrompt = "You are a quiz question generator specializing in multiple choice questions. " +
		"You must return only valid JSON arrays containing quiz objects with is_quiz:true, " +
		"an options array, and a correct_option index. Never include explanatory text or " +
		"markdown formatting. The response must start with [ and end with ]. Each question " +
		"must have exactly 4 options with only one correct answer."

	// generalSystemPrompt is the default instruction for the text kinds.
	generalSystemPrompt = "You are a helpful AI assistant that creates educational content. " +
		"Be concise and accurate."
)

var (
	cardsPromptTmpl = template.Must(template.New("cards").Parse(
		`Create exactly {{.Count}} multiple choice quiz questions for the topic "{{.Topic}}" at difficulty level {{.Difficulty}}/5.

You must return ONLY a JSON array (starting with [ and ending with ]) containing quiz question objects. Do not include any explanatory text, markdown formatting, or other content.

Each quiz question object must have exactly these fields:
- "front": The question (max 200 chars)
- "back": Brief explanation of why the correct answer is correct (max 200 chars)
- "difficulty": Number from 1-5
- "is_quiz": true (boolean)
- "options": Array of exactly 4 answer choices (each max 100 chars)
- "correct_option": The index (0-3) of the correct answer in the options array

IMPORTANT:
- Each question must have exactly 4 options
- Only ONE option should be correct
- The other 3 options should be plausible but incorrect
- Mix up the position of the correct answer (don't always make it the same index)

Example response:
[
  {
    "front": "What is the capital of France?",
    "back": "Paris has been France's capital since 987 AD and is its largest city.",
    "difficulty": 2,
    "is_quiz": true,
    "options": ["London", "Berlin", "Paris", "Madrid"],
    "correct_option": 2
  }
]

Topic: {{.Topic}}
Count: {{.Count}}
Difficulty: {{.Difficulty}}`))

	hintPromptTmpl = template.Must(template.New("hint").Parse(
		`For this flashcard question: "{{.Front}}"
Answer: "{{.Back}}"

Provide a level {{.Level}} hint ({{.Description}}).

Return ONLY the hint text, maximum 100 characters.`))

	explanationPromptTmpl = template.Must(template.New("explanation").Parse(
		`Question: "{{.Front}}"
Correct answer: "{{.Back}}"
User's answer: "{{.UserAnswer}}"

Explain why the correct answer is right and what the user might have missed. Be encouraging and educational.

Maximum 300 characters.`))

	improvementPromptTmpl = template.Must(template.New("improvement").Parse(
		`{{.Instruction}} for this flashcard:

Question: "{{.Front}}"
Answer: "{{.Back}}"

Return improved version as JSON:
{
  "front": "improved question",
  "back": "improved answer",
  "changes": "brief description of what was improved"
}`))
)

// hintDescriptions maps a hint level to the strength wording embedded in
// the prompt.
var hintDescriptions = map[int]string{
	1: "very subtle hint that doesn't give away the answer",
	2: "moderate hint that provides some guidance",
	3: "strong hint that makes the answer more obvious",
}

// improvementInstructions maps an improvement type to its prompt lead-in.
var improvementInstructions = map[string]string{
	"clarity":    "Make this flashcard clearer and easier to understand",
	"difficulty": "Adjust the difficulty level to be more appropriate",
	"accuracy":   "Improve the accuracy and correctness of the information",
}

func renderPrompt(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// Templates are compiled in and data is a plain struct; execution
	// cannot fail at runtime.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// GenerateCards produces count quiz cards for a topic at the given
// difficulty (1-5). The outcome's Cards field always holds at least one
// card: on repeated provider failure the built-in fallback set is served.
func (r *Responder) GenerateCards(ctx context.Context, userID uuid.UUID, topic string, count, difficulty int) (*Outcome, error) {
	prompt := renderPrompt(cardsPromptTmpl, struct {
		Topic      string
		Count      int
		Difficulty int
	}{Topic: topic, Count: count, Difficulty: difficulty})

	opts := domain.CardsOptions(count)
	opts.SystemPrompt = quizSystemPrompt

	return r.Obtain(ctx, domain.GenerationRequest{
		Kind:       domain.KindCards,
		PromptText: prompt,
		Options:    opts,
		UserID:     userID,
		CardCount:  count,
	})
}

// GenerateHint produces a progressive hint (level 1-3) for a card. Levels
// outside the range are clamped.
func (r *Responder) GenerateHint(ctx context.Context, userID uuid.UUID, level int, front, back string) (*Outcome, error) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}

	prompt := renderPrompt(hintPromptTmpl, struct {
		Front       string
		Back        string
		Level       int
		Description string
	}{Front: front, Back: back, Level: level, Description: hintDescriptions[level]})

	opts := domain.DefaultOptionsForKind(domain.KindHint)
	opts.SystemPrompt = generalSystemPrompt

	outcome, err := r.Obtain(ctx, domain.GenerationRequest{
		Kind:       domain.KindHint,
		PromptText: prompt,
		Options:    opts,
		UserID:     userID,
	})
	if err != nil {
		return nil, err
	}
	outcome.Content = strings.TrimSpace(outcome.Content)
	return outcome, nil
}

// GenerateExplanation explains why a card's correct answer is right,
// relative to what the user answered. An empty userAnswer is rendered as
// "No answer provided" so that the fingerprint distinguishes it from real
// answers.
func (r *Responder) GenerateExplanation(ctx context.Context, userID uuid.UUID, front, back, userAnswer string) (*Outcome, error) {
	if userAnswer == "" {
		userAnswer = "No answer provided"
	}

	prompt := renderPrompt(explanationPromptTmpl, struct {
		Front      string
		Back       string
		UserAnswer string
	}{Front: front, Back: back, UserAnswer: userAnswer})

	opts := domain.DefaultOptionsForKind(domain.KindExplanation)
	opts.SystemPrompt = generalSystemPrompt

	outcome, err := r.Obtain(ctx, domain.GenerationRequest{
		Kind:       domain.KindExplanation,
		PromptText: prompt,
		Options:    opts,
		UserID:     userID,
	})
	if err != nil {
		return nil, err
	}
	outcome.Content = strings.TrimSpace(outcome.Content)
	return outcome, nil
}

// ImproveCard rewrites a card along one axis: "clarity", "difficulty", or
// "accuracy". It returns the parsed improvement alongside the raw outcome.
func (r *Responder) ImproveCard(ctx context.Context, userID uuid.UUID, front, back, improvementType string) (*domain.CardImprovement, *Outcome, error) {
	instruction, ok := improvementInstructions[improvementType]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownImprovementType, improvementType)
	}

	prompt := renderPrompt(improvementPromptTmpl, struct {
		Instruction string
		Front       string
		Back        string
	}{Instruction: instruction, Front: front, Back: back})

	opts := domain.DefaultOptionsForKind(domain.KindImprovement)
	opts.SystemPrompt = generalSystemPrompt

	outcome, err := r.Obtain(ctx, domain.GenerationRequest{
		Kind:       domain.KindImprovement,
		PromptText: prompt,
		Options:    opts,
		UserID:     userID,
	})
	if err != nil {
		return nil, nil, err
	}

	improvement, err := parseImprovement(outcome.Content)
	if err != nil {
		return nil, nil, err
	}
	return improvement, outcome, nil
}

// Usage reports the user's token consumption across both ledger tiers.
func (r *Responder) Usage(ctx context.Context, userID uuid.UUID) domain.UsageSnapshot {
	return r.ledger.UsageSnapshot(ctx, userID)
}
