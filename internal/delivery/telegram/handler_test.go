package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

const (
	testChatID = int64(42)
	waitFor    = 2 * time.Second
	pollEvery  = 10 * time.Millisecond
)

type fakeBot struct {
	updates chan tgbotapi.Update

	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update, 16)}
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (b *fakeBot) callbackAnswers() []tgbotapi.CallbackConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.CallbackConfig
	for _, c := range b.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

// waitMessage waits for a sent message whose text contains substr.
func (b *fakeBot) waitMessage(t *testing.T, substr string) tgbotapi.MessageConfig {
	t.Helper()

	var found tgbotapi.MessageConfig
	require.Eventually(t, func() bool {
		for _, msg := range b.messages() {
			if strings.Contains(msg.Text, substr) {
				found = msg
				return true
			}
		}
		return false
	}, waitFor, pollEvery, "no message containing %q", substr)

	return found
}

func (b *fakeBot) waitCallbackAnswer(t *testing.T, id string) tgbotapi.CallbackConfig {
	t.Helper()

	var found tgbotapi.CallbackConfig
	require.Eventually(t, func() bool {
		for _, cb := range b.callbackAnswers() {
			if cb.CallbackQueryID == id {
				found = cb
				return true
			}
		}
		return false
	}, waitFor, pollEvery, "callback %q not answered", id)

	return found
}

type stubSupplier struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubSupplier) FetchBatch(context.Context) ([]entities.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	batch := make([]entities.Question, 0, entities.BatchSize)
	for i := 0; i < entities.BatchSize; i++ {
		batch = append(batch, entities.Question{
			Text:             fmt.Sprintf("Question &quot;%d&quot;", i),
			CorrectAnswer:    fmt.Sprintf("right %d", i),
			IncorrectAnswers: []string{fmt.Sprintf("wrong %d", i), "other"},
			Category:         "Science &amp; Nature",
			Difficulty:       "easy",
		})
	}
	return batch, nil
}

func (s *stubSupplier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func startHandler(t *testing.T, sup *stubSupplier) *fakeBot {
	t.Helper()

	bot := newFakeBot()
	h := NewHandler(bot, zap.NewNop(), sup, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(waitFor):
			t.Error("handler did not stop")
		}
	})

	return bot
}

func commandUpdate(chatID int64, cmd string) tgbotapi.Update {
	text := "/" + cmd
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func callbackUpdate(chatID int64, id, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      id,
		From:    &tgbotapi.User{ID: chatID},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 100, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

// buttonData returns the callback data of the button labelled label.
func buttonData(t *testing.T, msg tgbotapi.MessageConfig, label string) string {
	t.Helper()

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok, "message has no inline keyboard")

	for _, row := range kb.InlineKeyboard {
		for _, button := range row {
			if button.Text == label && button.CallbackData != nil {
				return *button.CallbackData
			}
		}
	}
	t.Fatalf("no button labelled %q", label)
	return ""
}

func TestHandler_Start(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "start")

	msg := bot.waitMessage(t, "Trivia Quiz")
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
}

func TestHandler_QuizFlow(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "quiz")

	bot.waitMessage(t, msgLoading)
	q := bot.waitMessage(t, "Question 1/5")
	assert.Contains(t, q.Text, `Question "0"`)
	assert.Contains(t, q.Text, "Science &amp; Nature")
	assert.Contains(t, q.Text, "easy")
	assert.Equal(t, testChatID, q.ChatID)

	bot.updates <- callbackUpdate(testChatID, "cb-1", buttonData(t, q, "right 0"))

	feedback := bot.waitMessage(t, "Correct!")
	assert.Equal(t, buildNextCallback(), buttonData(t, feedback, "Next ▶️"))
	assert.Empty(t, bot.waitCallbackAnswer(t, "cb-1").Text)

	bot.updates <- callbackUpdate(testChatID, "cb-2", buildNextCallback())

	q2 := bot.waitMessage(t, "Question 2/5")
	assert.Contains(t, q2.Text, "score 1")
}

func TestHandler_WrongAnswerRevealsCorrect(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "quiz")
	q := bot.waitMessage(t, "Question 1/5")

	bot.updates <- callbackUpdate(testChatID, "cb-1", buttonData(t, q, "other"))

	feedback := bot.waitMessage(t, "is wrong")
	assert.Contains(t, feedback.Text, "<b>right 0</b>")
}

func TestHandler_StaleOptionCallback(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "quiz")
	bot.waitMessage(t, "Question 1/5")

	bot.updates <- callbackUpdate(testChatID, "cb-old", buildOptionCallback(99, 0))

	assert.Equal(t, msgQuestionClosed, bot.waitCallbackAnswer(t, "cb-old").Text)
}

func TestHandler_FailureOffersReload(t *testing.T) {
	sup := &stubSupplier{err: entities.NewUpstreamRejected(1)}
	bot := startHandler(t, sup)

	bot.updates <- commandUpdate(testChatID, "quiz")

	failure := bot.waitMessage(t, "Could not load questions")
	assert.Contains(t, failure.Text, "code 1")

	bot.updates <- callbackUpdate(testChatID, "cb-reload", buttonData(t, failure, "🔄 Reload"))

	bot.waitCallbackAnswer(t, "cb-reload")
	require.Eventually(t, func() bool { return sup.Calls() == 2 }, waitFor, pollEvery)
}

func TestHandler_StopWithoutQuiz(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "stop")

	bot.waitMessage(t, msgNoActiveQuiz)
}

func TestHandler_StopEndsSession(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "quiz")
	q := bot.waitMessage(t, "Question 1/5")

	bot.updates <- commandUpdate(testChatID, "stop")
	bot.waitMessage(t, msgStopped)

	bot.updates <- callbackUpdate(testChatID, "cb-late", buttonData(t, q, "right 0"))
	assert.Equal(t, msgNoActiveQuiz, bot.waitCallbackAnswer(t, "cb-late").Text)
}

func TestHandler_UnknownCommand(t *testing.T) {
	bot := startHandler(t, &stubSupplier{})

	bot.updates <- commandUpdate(testChatID, "dance")

	bot.waitMessage(t, "Unknown command")
}

func TestHandler_RunStopsWhenUpdatesClose(t *testing.T) {
	bot := newFakeBot()
	h := NewHandler(bot, zap.NewNop(), &stubSupplier{}, nil)

	close(bot.updates)

	err := h.Run(context.Background())
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
