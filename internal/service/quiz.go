package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/metrics"
)

const (
	tickInterval = time.Second
	eventBuffer  = 16
)

var ErrSessionStopped = errors.New("quiz session stopped")

// Ticker delivers countdown ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory starts a new Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the TickerFactory backed by time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type startEvent struct{}

type selectEvent struct {
	label string
}

// advanceEvent with auto set is bound to the question index it was raised for.
type advanceEvent struct {
	index int
	auto  bool
}

type fetchedEvent struct {
	id    uint64
	batch []entities.Question
	err   error
}

// QuizService runs one quiz session. All state changes happen on the goroutine
// executing Run; the exported input methods only enqueue events for it.
type QuizService struct {
	supplier QuestionSupplier
	renderer Renderer
	recorder Recorder
	logger   *zap.Logger

	newTicker TickerFactory
	decode    Decoder
	shuffle   Shuffler

	events  chan any
	done    chan struct{}
	pending []any

	session *entities.QuizSession
	ticker  Ticker
	fetchID uint64
}

// NewQuizService creates a session runtime. recorder may be nil.
func NewQuizService(
	supplier QuestionSupplier,
	renderer Renderer,
	recorder Recorder,
	logger *zap.Logger,
) *QuizService {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &QuizService{
		supplier:  supplier,
		renderer:  renderer,
		recorder:  recorder,
		logger:    logger,
		newTicker: NewTimeTicker,
		decode:    DecodeEntities,
		shuffle:   defaultShuffle,
		events:    make(chan any, eventBuffer),
		done:      make(chan struct{}),
		session:   entities.NewQuizSession(),
	}
}

// Run starts the quiz and processes events until ctx is cancelled.
// It must be called once.
func (s *QuizService) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.stopTimer()

	s.dispatch(ctx, startEvent{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.dispatch(ctx, ev)
		case <-s.tickC():
			s.onTick()
			s.drainPending(ctx)
		}
	}
}

// Done is closed once Run has returned.
func (s *QuizService) Done() <-chan struct{} {
	return s.done
}

// SelectOption reports that the player picked the option labelled label.
func (s *QuizService) SelectOption(ctx context.Context, label string) error {
	return s.post(ctx, selectEvent{label: label})
}

// RequestAdvance asks for the next question. Ignored unless the current one is resolved.
func (s *QuizService) RequestAdvance(ctx context.Context) error {
	return s.post(ctx, advanceEvent{index: -1})
}

// Restart fetches a fresh batch. Ignored while a fetch is already pending.
func (s *QuizService) Restart(ctx context.Context) error {
	return s.post(ctx, startEvent{})
}

func (s *QuizService) post(ctx context.Context, ev any) error {
	select {
	case <-s.done:
		return ErrSessionStopped
	default:
	}

	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *QuizService) dispatch(ctx context.Context, ev any) {
	s.handle(ctx, ev)
	s.drainPending(ctx)
}

func (s *QuizService) drainPending(ctx context.Context) {
	for len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		s.handle(ctx, ev)
	}
}

func (s *QuizService) handle(ctx context.Context, ev any) {
	switch e := ev.(type) {
	case startEvent:
		s.load(ctx)
	case fetchedEvent:
		s.onFetched(e)
	case selectEvent:
		s.onSelect(e.label)
	case advanceEvent:
		s.onAdvance(ctx, e)
	default:
		s.logger.Warn("unknown quiz event", zap.Any("event", ev))
	}
}

// load enters Loading and fetches a batch in the background.
func (s *QuizService) load(ctx context.Context) {
	if !s.session.BeginLoading() {
		s.logger.Debug("fetch already pending")
		return
	}
	s.stopTimer()

	s.fetchID++
	id := s.fetchID

	s.renderer.RenderLoading()

	go func() {
		batch, err := s.supplier.FetchBatch(ctx)
		select {
		case s.events <- fetchedEvent{id: id, batch: batch, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *QuizService) onFetched(ev fetchedEvent) {
	if ev.id != s.fetchID || s.session.State != entities.QuizStateLoading {
		s.logger.Debug("stale fetch result discarded",
			zap.Uint64("fetch_id", ev.id),
			zap.String("state", string(s.session.State)),
		)
		return
	}

	if ev.err == nil && len(ev.batch) == 0 {
		ev.err = entities.NewEmptyResult()
	}

	if ev.err != nil {
		supplyErr := entities.AsSupplyError(ev.err)
		s.session.Fail(supplyErr)
		s.recorder.ObserveFetch(supplyErr)
		s.logger.Warn("question batch unavailable", zap.Error(supplyErr))
		s.renderer.RenderFailure(supplyErr)
		return
	}

	s.session.Begin(ev.batch)
	s.recorder.ObserveFetch(nil)
	s.logger.Debug("question batch loaded", zap.Int("size", len(ev.batch)))

	s.renderer.RenderScore(s.session.Score)
	s.present()
}

// present shows the current question and restarts the countdown.
func (s *QuizService) present() {
	q, ok := s.session.Current()
	if !ok {
		return
	}

	options := BuildOptions(q, s.decode, s.shuffle)
	s.session.Present(options)
	s.startTimer()

	s.renderer.RenderQuestion(QuestionView{
		Number:     s.session.CurrentIndex + 1,
		Total:      len(s.session.Batch),
		Text:       s.decode(q.Text),
		Category:   s.decode(q.Category),
		Difficulty: q.Difficulty,
		Options:    options,
	})
	s.renderer.RenderTimeRemaining(s.session.TimeRemaining)
}

func (s *QuizService) onSelect(label string) {
	opt, ok := s.session.Answer(label)
	if !ok {
		s.logger.Debug("selection ignored",
			zap.String("label", label),
			zap.String("state", string(s.session.State)),
		)
		return
	}
	s.stopTimer()

	correct, _ := entities.CorrectOption(s.session.Options)

	result := metrics.ResultIncorrect
	if opt.IsCorrect {
		result = metrics.ResultCorrect
	}
	s.recorder.ObserveAnswer(result)

	s.renderer.RenderAnswer(opt.Label, correct.Label, opt.IsCorrect)
	if opt.IsCorrect {
		s.renderer.RenderScore(s.session.Score)
	}
}

func (s *QuizService) onTick() {
	expired, ok := s.session.Tick()
	if !ok {
		s.stopTimer()
		return
	}

	s.renderer.RenderTimeRemaining(s.session.TimeRemaining)
	if !expired {
		return
	}

	s.stopTimer()
	s.session.Expire()
	s.recorder.ObserveAnswer(metrics.ResultExpired)

	correct, _ := entities.CorrectOption(s.session.Options)
	s.renderer.RenderTimeExpired(correct.Label)

	s.pending = append(s.pending, advanceEvent{index: s.session.CurrentIndex, auto: true})
}

func (s *QuizService) onAdvance(ctx context.Context, ev advanceEvent) {
	if ev.auto && ev.index != s.session.CurrentIndex {
		return
	}

	exhausted, ok := s.session.Advance()
	if !ok {
		s.logger.Debug("advance ignored", zap.String("state", string(s.session.State)))
		return
	}

	if !exhausted {
		s.present()
		return
	}

	s.recorder.ObserveBatchCompleted()
	s.renderer.RenderBatchComplete(s.session.Score, len(s.session.Batch))
	s.load(ctx)
}

func (s *QuizService) startTimer() {
	s.stopTimer()
	s.ticker = s.newTicker(tickInterval)
}

func (s *QuizService) stopTimer() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *QuizService) tickC() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}
