package service

import (
	"html"
	"math/rand"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// Decoder turns source text with HTML entities into display text.
type Decoder func(string) string

// Shuffler permutes n elements in place through swap.
type Shuffler func(n int, swap func(i, j int))

// DecodeEntities is the default Decoder.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// BuildOptions returns the decoded answers of q in shuffled order.
// The correct answer appears exactly once; distractors that decode to an
// already present label are dropped.
func BuildOptions(q entities.Question, decode Decoder, shuffle Shuffler) []entities.AnswerOption {
	correct := decode(q.CorrectAnswer)

	options := make([]entities.AnswerOption, 0, len(q.IncorrectAnswers)+1)
	seen := map[string]bool{correct: true}
	for _, raw := range q.IncorrectAnswers {
		label := decode(raw)
		if seen[label] {
			continue
		}
		seen[label] = true
		options = append(options, entities.AnswerOption{Label: label})
	}
	options = append(options, entities.AnswerOption{Label: correct, IsCorrect: true})

	shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

func defaultShuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}
