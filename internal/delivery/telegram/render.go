package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// chatRenderer renders one chat's quiz into outgoing messages. Render methods
// run on the quiz loop goroutine; optionLabel is called from the update loop.
type chatRenderer struct {
	chatID int64
	push   func(tgbotapi.Chattable)

	mu      sync.Mutex
	score   int
	seq     int
	options []entities.AnswerOption
}

var _ service.Renderer = (*chatRenderer)(nil)

func newChatRenderer(chatID int64, push func(tgbotapi.Chattable)) *chatRenderer {
	return &chatRenderer{chatID: chatID, push: push}
}

// optionLabel resolves a button press to the label it stands for. Presses on a
// question that is no longer on screen resolve to nothing.
func (r *chatRenderer) optionLabel(seq, index int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq || index < 0 || index >= len(r.options) {
		return "", false
	}
	return r.options[index].Label, true
}

// closeQuestion invalidates the buttons of the current question.
func (r *chatRenderer) closeQuestion() {
	r.mu.Lock()
	r.options = nil
	r.mu.Unlock()
}

func (r *chatRenderer) RenderLoading() {
	r.closeQuestion()
	r.push(newHTMLMessage(r.chatID, msgLoading))
}

func (r *chatRenderer) RenderQuestion(v service.QuestionView) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	score := r.score
	r.options = append([]entities.AnswerOption(nil), v.Options...)
	r.mu.Unlock()

	r.push(newKeyboardMessage(r.chatID, formatQuestion(v, score), buildOptionsKeyboard(seq, v.Options)))
}

func (r *chatRenderer) RenderScore(score int) {
	r.mu.Lock()
	r.score = score
	r.mu.Unlock()
}

func (r *chatRenderer) RenderTimeRemaining(seconds int) {
	if !countdownMarks[seconds] {
		return
	}
	r.push(newHTMLMessage(r.chatID, formatTimeLeft(seconds)))
}

func (r *chatRenderer) RenderAnswer(selected, correct string, isCorrect bool) {
	r.closeQuestion()
	r.push(newKeyboardMessage(r.chatID, formatAnswer(selected, correct, isCorrect), buildNextKeyboard()))
}

func (r *chatRenderer) RenderTimeExpired(correct string) {
	r.closeQuestion()
	r.push(newHTMLMessage(r.chatID, formatTimeExpired(correct)))
}

func (r *chatRenderer) RenderBatchComplete(score, total int) {
	r.push(newHTMLMessage(r.chatID, formatBatchComplete(score, total)))
}

func (r *chatRenderer) RenderFailure(err *entities.SupplyError) {
	r.closeQuestion()
	r.push(newKeyboardMessage(r.chatID, formatFailure(err), buildRestartKeyboard()))
}
