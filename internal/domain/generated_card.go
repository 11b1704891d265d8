package domain

import "errors"

// Card validation errors
var (
	// ErrCardFrontEmpty is returned when a generated card has no front side.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a generated card has no back side.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrQuizOptionCount is returned when a quiz card supplies options but
	// not exactly four of them.
	ErrQuizOptionCount = errors.New("quiz card must have exactly 4 options")

	// ErrQuizCorrectIndex is returned when a quiz card's correct option
	// index is outside the options range.
	ErrQuizCorrectIndex = errors.New("quiz correct option index out of range")
)

// GeneratedCard is a flashcard produced by the cards generation path.
// The JSON field names match the provider-facing prompt contract.
type GeneratedCard struct {
	Front         string   `json:"front"`
	Back          string   `json:"back"`
	Difficulty    int      `json:"difficulty"`
	IsQuiz        bool     `json:"is_quiz"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Normalize applies the defaulting rules for provider output: every card
// from the cards path is quiz-shaped, a missing options list becomes an
// empty one, and a missing correct index defaults to 0. Callers decide
// whether an empty-options quiz card is acceptable for their use.
func (c *GeneratedCard) Normalize() {
	c.IsQuiz = true
	if c.Options == nil {
		c.Options = []string{}
	}
	if c.CorrectOption < 0 {
		c.CorrectOption = 0
	}
}

// Validate checks the card's invariants. A quiz card that supplies a
// non-empty options list must have exactly four options with the correct
// index in [0,3]; a quiz card with an empty options list passes (it was
// defaulted by Normalize and the caller owns the accept/reject decision).
func (c *GeneratedCard) Validate() error {
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	if c.Back == "" {
		return ErrCardBackEmpty
	}
	if c.IsQuiz && len(c.Options) > 0 {
		if len(c.Options) != 4 {
			return ErrQuizOptionCount
		}
		if c.CorrectOption < 0 || c.CorrectOption >= len(c.Options) {
			return ErrQuizCorrectIndex
		}
	}
	return nil
}

// CardImprovement is the structured result of the improvement kind.
type CardImprovement struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Changes string `json:"changes"`
}
