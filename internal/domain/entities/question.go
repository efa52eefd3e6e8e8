package entities

// BatchSize is the number of questions requested per fetch.
const BatchSize = 5

// Question is a single trivia item as delivered by the question source.
// Text fields keep their HTML entities; decoding happens once, right before display.
type Question struct {
	Text             string   // question text, may contain HTML entities
	CorrectAnswer    string   // the right answer
	IncorrectAnswers []string // distractors, possibly empty
	Category         string   // source category, e.g. "Science: Computers"
	Difficulty       string   // "easy", "medium" or "hard"
	Type             string   // "multiple" or "boolean"
}

// AnswerOption is a decoded answer shown to the player.
type AnswerOption struct {
	Label     string
	IsCorrect bool
}

// CorrectOption returns the correct option from opts.
func CorrectOption(opts []AnswerOption) (AnswerOption, bool) {
	for _, o := range opts {
		if o.IsCorrect {
			return o, true
		}
	}
	return AnswerOption{}, false
}
