package entities

// QuestionTimeLimit is the countdown, in seconds, given for every question.
const QuestionTimeLimit = 30

// QuizState is the phase a quiz session is in.
type QuizState string

const (
	QuizStateIdle       QuizState = "idle"       // created, nothing requested yet
	QuizStateLoading    QuizState = "loading"    // waiting for a batch
	QuizStatePresenting QuizState = "presenting" // question shown, countdown running
	QuizStateResolved   QuizState = "resolved"   // answered or timed out, waiting for advance
	QuizStateFailed     QuizState = "failed"     // last load failed, waiting for restart
)

// QuizSession holds the state of one player's quiz.
// It is owned by a single goroutine and is not safe for concurrent use.
type QuizSession struct {
	State         QuizState      // current phase
	Batch         []Question     // questions of the active batch
	CurrentIndex  int            // index into Batch of the question on screen
	Score         int            // correct answers in the active batch
	TimeRemaining int            // seconds left for the current question
	Answered      bool           // current question already resolved
	Options       []AnswerOption // shuffled options of the current question
	Err           *SupplyError   // reason of the last failed load
}

// NewQuizSession creates an idle quiz session.
func NewQuizSession() *QuizSession {
	return &QuizSession{State: QuizStateIdle}
}

// BeginLoading switches the session into Loading. It reports false if a load is already pending.
func (qs *QuizSession) BeginLoading() bool {
	if qs.State == QuizStateLoading {
		return false
	}
	qs.State = QuizStateLoading
	qs.Options = nil
	qs.Answered = false
	return true
}

// Begin installs a freshly fetched batch and resets index and score.
func (qs *QuizSession) Begin(batch []Question) bool {
	if qs.State != QuizStateLoading || len(batch) == 0 {
		return false
	}
	qs.Batch = batch
	qs.CurrentIndex = 0
	qs.Score = 0
	qs.Err = nil
	return true
}

// Fail records a failed load.
func (qs *QuizSession) Fail(err *SupplyError) bool {
	if qs.State != QuizStateLoading {
		return false
	}
	qs.State = QuizStateFailed
	qs.Err = err
	return true
}

// Current returns the question on screen.
func (qs *QuizSession) Current() (Question, bool) {
	if qs.CurrentIndex < 0 || qs.CurrentIndex >= len(qs.Batch) {
		return Question{}, false
	}
	return qs.Batch[qs.CurrentIndex], true
}

// Present starts the current question with the given options.
func (qs *QuizSession) Present(options []AnswerOption) {
	qs.State = QuizStatePresenting
	qs.Options = options
	qs.TimeRemaining = QuestionTimeLimit
	qs.Answered = false
}

// Answer resolves the current question with the option labelled label.
// It reports false when the question is not open or the label is unknown.
func (qs *QuizSession) Answer(label string) (AnswerOption, bool) {
	if qs.State != QuizStatePresenting || qs.Answered {
		return AnswerOption{}, false
	}
	for _, o := range qs.Options {
		if o.Label != label {
			continue
		}
		qs.Answered = true
		qs.State = QuizStateResolved
		if o.IsCorrect {
			qs.Score++
		}
		return o, true
	}
	return AnswerOption{}, false
}

// Tick takes one second off the countdown and reports whether it ran out.
// Ticks outside an open question are ignored.
func (qs *QuizSession) Tick() (expired bool, ok bool) {
	if qs.State != QuizStatePresenting || qs.Answered {
		return false, false
	}
	qs.TimeRemaining--
	return qs.TimeRemaining <= 0, true
}

// Expire resolves the current question without scoring.
func (qs *QuizSession) Expire() bool {
	if qs.State != QuizStatePresenting || qs.Answered {
		return false
	}
	qs.TimeRemaining = 0
	qs.Answered = true
	qs.State = QuizStateResolved
	return true
}

// Advance moves to the next question. It reports false if the session is not Resolved
// and exhausted=true when the batch has no more questions.
func (qs *QuizSession) Advance() (exhausted bool, ok bool) {
	if qs.State != QuizStateResolved {
		return false, false
	}
	qs.CurrentIndex++
	return qs.CurrentIndex >= len(qs.Batch), true
}
