package responder

import "github.com/cardwise/cardwise-api/internal/domain"

// fallbackPool is the built-in set of generic study questions served when
// card generation fails all attempts. The cards kind never hard-fails the
// caller; degraded content beats an error on a study screen.
var fallbackPool = []domain.GeneratedCard{
	{
		Front:         "Which study technique involves recalling information from memory rather than re-reading it?",
		Back:          "Active recall strengthens memory far more than passive review.",
		Difficulty:    2,
		IsQuiz:        true,
		Options:       []string{"Highlighting", "Active recall", "Re-reading", "Summarizing"},
		CorrectOption: 1,
	},
	{
		Front:         "What is the practice of spreading study sessions over time called?",
		Back:          "Spaced repetition schedules reviews at increasing intervals.",
		Difficulty:    2,
		IsQuiz:        true,
		Options:       []string{"Cramming", "Chunking", "Spaced repetition", "Skimming"},
		CorrectOption: 2,
	},
	{
		Front:         "Which approach breaks complex material into smaller, manageable units?",
		Back:          "Chunking groups related pieces of information together.",
		Difficulty:    1,
		IsQuiz:        true,
		Options:       []string{"Chunking", "Speed reading", "Annotation", "Repetition"},
		CorrectOption: 0,
	},
	{
		Front:         "Explaining a concept in simple terms to expose gaps in understanding is known as what?",
		Back:          "The Feynman technique tests understanding through simple explanation.",
		Difficulty:    3,
		IsQuiz:        true,
		Options:       []string{"Mind mapping", "The Feynman technique", "Outlining", "Shadowing"},
		CorrectOption: 1,
	},
	{
		Front:         "What is the benefit of testing yourself before learning new material?",
		Back:          "Pretesting primes the brain to notice and retain the answers later.",
		Difficulty:    3,
		IsQuiz:        true,
		Options:       []string{"It wastes time", "It primes later retention", "It causes confusion", "It has no effect"},
		CorrectOption: 1,
	},
}

// fallbackCards returns up to count generic cards from the built-in pool.
func fallbackCards(count int) []domain.GeneratedCard {
	if count <= 0 {
		return []domain.GeneratedCard{}
	}
	if count > len(fallbackPool) {
		count = len(fallbackPool)
	}
	cards := make([]domain.GeneratedCard, count)
	copy(cards, fallbackPool[:count])
	return cards
}
