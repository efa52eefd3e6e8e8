package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/metrics"
)

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
	return []entities.Question{
		{Text: "Capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: []string{"Lyon", "Nice"}, Category: "Geography", Difficulty: "easy"},
		{Text: "2 &lt; 3?", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}, Type: "boolean"},
	}, nil
}

func newTestServer(t *testing.T, sup *stubSupplier) (*httptest.Server, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	srv := NewServer(sup, metrics.New(reg), reg, zap.NewNop())

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	return ts, reg
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

// readUntil reads frames until one of type typ arrives and decodes it into v.
func readUntil(t *testing.T, c *websocket.Conn, typ string, v any) {
	t.Helper()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := c.ReadMessage()
		require.NoError(t, err, "waiting for %q frame", typ)

		var head struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &head))
		if head.Type == typ {
			require.NoError(t, json.Unmarshal(data, v))
			return
		}
	}
}

func TestWebSocket_QuizFlow(t *testing.T) {
	ts, _ := newTestServer(t, &stubSupplier{})
	c := dial(t, ts)

	var loading loadingFrame
	readUntil(t, c, frameLoading, &loading)

	var score scoreFrame
	readUntil(t, c, frameScore, &score)
	assert.Equal(t, 0, score.Score)

	var q questionFrame
	readUntil(t, c, frameQuestion, &q)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, 2, q.Total)
	assert.Equal(t, "Capital of France?", q.Text)
	assert.Equal(t, "Geography", q.Category)
	assert.ElementsMatch(t, []string{"Paris", "Lyon", "Nice"}, q.Options)

	var tf timeFrame
	readUntil(t, c, frameTime, &tf)
	assert.Equal(t, entities.QuestionTimeLimit, tf.Seconds)

	require.NoError(t, c.WriteJSON(clientFrame{Type: frameSelect, Label: "Paris"}))

	var ans answerFrame
	readUntil(t, c, frameAnswer, &ans)
	assert.Equal(t, answerFrame{Type: frameAnswer, Selected: "Paris", Correct: "Paris", IsCorrect: true}, ans)

	readUntil(t, c, frameScore, &score)
	assert.Equal(t, 1, score.Score)

	require.NoError(t, c.WriteJSON(clientFrame{Type: frameNext}))

	readUntil(t, c, frameQuestion, &q)
	assert.Equal(t, 2, q.Number)
	assert.Equal(t, "2 < 3?", q.Text)

	require.NoError(t, c.WriteJSON(clientFrame{Type: frameSelect, Label: "False"}))
	readUntil(t, c, frameAnswer, &ans)
	assert.False(t, ans.IsCorrect)
	assert.Equal(t, "True", ans.Correct)

	require.NoError(t, c.WriteJSON(clientFrame{Type: frameNext}))

	var done completeFrame
	readUntil(t, c, frameComplete, &done)
	assert.Equal(t, completeFrame{Type: frameComplete, Score: 1, Total: 2}, done)

	readUntil(t, c, frameLoading, &loading)
}

func TestWebSocket_QuestionHidesCorrectness(t *testing.T) {
	ts, _ := newTestServer(t, &stubSupplier{})
	c := dial(t, ts)

	var raw map[string]any
	readUntil(t, c, frameQuestion, &raw)

	assert.NotContains(t, raw, "correct")
	assert.NotContains(t, raw, "is_correct")
	for _, opt := range raw["options"].([]any) {
		_, isString := opt.(string)
		assert.True(t, isString)
	}
}

func TestWebSocket_FailureAndRestart(t *testing.T) {
	sup := &stubSupplier{err: entities.NewBadStatus(http.StatusServiceUnavailable)}
	ts, _ := newTestServer(t, sup)
	c := dial(t, ts)

	var failure failureFrame
	readUntil(t, c, frameFailure, &failure)
	assert.Equal(t, "bad_status", failure.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, failure.Code)
	assert.NotEmpty(t, failure.Message)

	sup.mu.Lock()
	sup.err = nil
	sup.mu.Unlock()

	require.NoError(t, c.WriteJSON(clientFrame{Type: frameRestart}))

	var q questionFrame
	readUntil(t, c, frameQuestion, &q)
	assert.Equal(t, 1, q.Number)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, &stubSupplier{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &stubSupplier{})
	c := dial(t, ts)

	var q questionFrame
	readUntil(t, c, frameQuestion, &q)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `trivia_quiz_fetch_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "trivia_quiz_active_sessions 1")
}

func TestRenderer_OverflowCancelsOnce(t *testing.T) {
	calls := 0
	r := newWSRenderer(func() { calls++ }, zap.NewNop())

	for i := 0; i < outboxSize+5; i++ {
		r.RenderTimeRemaining(i)
	}

	assert.Equal(t, 1, calls)
	assert.Len(t, r.out, outboxSize)
}
