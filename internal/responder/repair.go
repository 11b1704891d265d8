package responder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// stripFences removes Markdown code-fence wrappers that models often add
// around JSON bodies. Already-bare text passes through unchanged.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// repairArray normalizes a malformed JSON array: code fences are stripped
// and a truncated array (missing its closing bracket) is trimmed to the
// last complete element and closed. Valid input comes back unchanged.
func repairArray(raw string) string {
	s := stripFences(raw)
	if strings.HasSuffix(s, "]") {
		return s
	}
	if idx := strings.LastIndex(s, "}"); idx >= 0 {
		return s[:idx+1] + "]"
	}
	return s
}

// parseCards parses provider output as a JSON array of generated cards,
// applying the repair procedure when the initial parse fails or yields an
// empty array. Each parsed card is normalized (quiz defaults) and
// validated; cards that fail validation, such as a quiz card with three
// options, are dropped. Returns an error if no valid cards remain.
func parseCards(raw string) ([]domain.GeneratedCard, error) {
	var cards []domain.GeneratedCard

	if err := json.Unmarshal([]byte(raw), &cards); err != nil || len(cards) == 0 {
		repaired := repairArray(raw)
		if err := json.Unmarshal([]byte(repaired), &cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	valid := make([]domain.GeneratedCard, 0, len(cards))
	for _, card := range cards {
		card.Normalize()
		if err := card.Validate(); err != nil {
			continue
		}
		valid = append(valid, card)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no valid cards in response", ErrInvalidResponse)
	}
	return valid, nil
}

// parseImprovement parses provider output as a structured card improvement,
// stripping code fences first. There is no deeper repair for object bodies.
func parseImprovement(raw string) (*domain.CardImprovement, error) {
	var improvement domain.CardImprovement
	if err := json.Unmarshal([]byte(stripFences(raw)), &improvement); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if improvement.Front == "" || improvement.Back == "" {
		return nil, fmt.Errorf("%w: improvement missing front or back", ErrInvalidResponse)
	}
	return &improvement, nil
}
