// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

const (
	msgWelcome = "👋 <b>Trivia Quiz</b>\n\n" +
		"Answer rounds of five multiple-choice questions. Each question has a 30 second timer.\n\n" +
		"/quiz — start a new quiz\n/stop — end the current quiz"
	msgLoading        = "⏳ Loading questions…"
	msgStopped        = "🛑 Quiz stopped. Send /quiz to play again."
	msgNoActiveQuiz   = "There is no quiz running. Send /quiz to start one."
	msgQuestionClosed = "This question is closed."
	msgUnknownCommand = "Unknown command.\n\n/quiz — start a new quiz\n/stop — end the current quiz"
	msgInternalError  = "Something went wrong. Please try again later."
)

// countdownMarks are the remaining seconds announced in chat.
var countdownMarks = map[int]bool{10: true, 5: true}

func formatQuestion(v service.QuestionView, score int) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Question %d/%d", v.Number, v.Total)))
	sb.WriteString(fmt.Sprintf("  •  score %d\n", score))

	meta := make([]string, 0, 2)
	if v.Category != "" {
		meta = append(meta, esc(v.Category))
	}
	if v.Difficulty != "" {
		meta = append(meta, esc(v.Difficulty))
	}
	if len(meta) > 0 {
		sb.WriteString("<i>" + strings.Join(meta, " · ") + "</i>\n")
	}

	sb.WriteString("\n")
	sb.WriteString(esc(v.Text))
	sb.WriteString(fmt.Sprintf("\n\n⏱ %d seconds", entities.QuestionTimeLimit))

	return sb.String()
}

func formatAnswer(selected, correct string, isCorrect bool) string {
	if isCorrect {
		return "✅ Correct! " + bold(selected)
	}
	return fmt.Sprintf("❌ %s is wrong.\nCorrect answer: %s", bold(selected), bold(correct))
}

func formatTimeLeft(seconds int) string {
	return fmt.Sprintf("⏳ %d seconds left", seconds)
}

func formatTimeExpired(correct string) string {
	return "⌛ Time's up!\nCorrect answer: " + bold(correct)
}

func formatBatchComplete(score, total int) string {
	return fmt.Sprintf("🏁 Round complete: %s\nFetching new questions…", bold(fmt.Sprintf("%d/%d", score, total)))
}

// formatFailure describes a failed load in player terms.
func formatFailure(err *entities.SupplyError) string {
	var reason string
	switch err.Kind {
	case entities.SupplyUnreachable:
		reason = "The question service could not be reached."
	case entities.SupplyBadStatus:
		reason = fmt.Sprintf("The question service answered with HTTP %d.", err.Code)
	case entities.SupplyMalformed:
		reason = "The question service sent data that could not be read."
	case entities.SupplyUpstreamRejected:
		reason = fmt.Sprintf("The question service rejected the request (code %d).", err.Code)
	case entities.SupplyEmptyResult:
		reason = "The question service returned no questions."
	default:
		reason = "Questions are unavailable."
	}

	return "⚠️ " + bold("Could not load questions") + "\n" + esc(reason)
}
