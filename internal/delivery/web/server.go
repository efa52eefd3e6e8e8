package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/service"
)

const writeWait = 10 * time.Second

// Recorder observes quiz activity across all connections.
type Recorder interface {
	service.Recorder
	SessionStarted()
	SessionStopped()
}

type Server struct {
	Router   *mux.Router
	supplier service.QuestionSupplier
	recorder Recorder
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer wires the quiz websocket, health and metrics routes. Metrics are
// served from gatherer.
func NewServer(
	supplier service.QuestionSupplier,
	recorder Recorder,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		Router:   mux.NewRouter(),
		supplier: supplier,
		recorder: recorder,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.Router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.Router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.Router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWebSocket runs one quiz session for the lifetime of the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := s.logger.With(zap.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	renderer := newWSRenderer(cancel, logger)
	quiz := service.NewQuizService(s.supplier, renderer, s.recorder, logger)

	s.recorder.SessionStarted()
	defer s.recorder.SessionStopped()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		s.writePump(ctx, conn, renderer.out, logger)
	}()

	go func() {
		defer cancel()
		s.readPump(ctx, conn, quiz, logger)
	}()

	logger.Info("quiz session started")

	if err := quiz.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("quiz session ended", zap.Error(err))
	}
	<-writerDone

	logger.Info("quiz session stopped")
}

// readPump forwards client frames to the quiz until the connection fails.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, quiz *service.QuizService, logger *zap.Logger) {
	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var err error
		switch frame.Type {
		case frameSelect:
			err = quiz.SelectOption(ctx, frame.Label)
		case frameNext:
			err = quiz.RequestAdvance(ctx)
		case frameRestart:
			err = quiz.Restart(ctx)
		default:
			logger.Debug("unknown client frame", zap.String("type", frame.Type))
		}

		if err != nil {
			return
		}
	}
}

// writePump serialises frames to the connection until ctx is done.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, out <-chan any, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		case frame := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
