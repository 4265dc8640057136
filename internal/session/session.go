// Package session is the exam state machine: it owns the generated test,
// the answers, the countdown task and the single transition to Evaluated.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/scoring"
)

var (
	// ErrInvalidArgument reports an out-of-range position or answer index.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrQuestionCount reports a generated test whose length differs from
	// the configured question count.
	ErrQuestionCount = errors.New("unexpected question count")
)

// Generator builds a test from the bank.
type Generator interface {
	Generate(b *bank.Bank) ([]bank.SelectedQuestion, error)
}

// Recorder archives evaluated attempts.
type Recorder interface {
	Append(questions []bank.SelectedQuestion, answers scoring.Answers, result scoring.Result) history.Entry
}

// Config controls timing and the pass rule.
type Config struct {
	TimeLimit    time.Duration
	TickInterval time.Duration
	Thresholds   countdown.Thresholds
	Scoring      scoring.Config

	// QuestionCount, when positive, is the exact test length Start
	// requires.
	QuestionCount int
}

// DefaultConfig returns the reference exam: 30 questions, 18 to pass,
// 30 minutes.
func DefaultConfig() Config {
	return Config{
		TimeLimit:     countdown.DefaultLimit,
		TickInterval:  time.Second,
		Thresholds:    countdown.DefaultThresholds(),
		Scoring:       scoring.DefaultConfig(),
		QuestionCount: scoring.DefaultQuestionCount,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithScheduler overrides how countdown ticks are delivered.
func WithScheduler(sched countdown.Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithRecorder sets where evaluated attempts are archived.
func WithRecorder(r Recorder) Option { return func(s *Session) { s.recorder = r } }

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener subscribes to session events.
func WithListener(fn Listener) Option { return func(s *Session) { s.listener = fn } }

// Session is safe for concurrent use. The scheduler's Every must not
// invoke its callback synchronously.
type Session struct {
	bank     *bank.Bank
	gen      Generator
	cfg      Config
	now      func() time.Time
	sched    countdown.Scheduler
	recorder Recorder
	logger   *zap.Logger
	listener Listener

	mu        sync.Mutex
	phase     Phase
	review    bool
	questions []bank.SelectedQuestion
	answers   scoring.Answers
	cursor    int
	timer     *countdown.Countdown
	task      countdown.Task
	lastTick  countdown.Tick
	result    *scoring.Result
	entryID   string

	// attempt increments on every Start, LoadForReview and Abandon so that
	// callbacks from a released task are recognised as stale.
	attempt uint64
}

// New creates a session in PhaseNotStarted.
func New(b *bank.Bank, gen Generator, cfg Config, opts ...Option) *Session {
	s := &Session{
		bank:    b,
		gen:     gen,
		cfg:     cfg,
		now:     time.Now,
		sched:   countdown.TickerScheduler{},
		logger:  zap.NewNop(),
		answers: scoring.Answers{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start generates a fresh test and starts the countdown. It may be called
// from any phase; a running countdown is released first. On error the
// session is left unchanged.
func (s *Session) Start() error {
	qs, err := s.gen.Generate(s.bank)
	if err != nil {
		return fmt.Errorf("generate test: %w", err)
	}
	if s.cfg.QuestionCount > 0 && len(qs) != s.cfg.QuestionCount {
		return fmt.Errorf("%w: bank yields %d questions, expected %d", ErrQuestionCount, len(qs), s.cfg.QuestionCount)
	}

	s.mu.Lock()
	s.releaseLocked()

	now := s.now()
	s.phase = PhaseInProgress
	s.review = false
	s.questions = qs
	s.answers = scoring.Answers{}
	s.cursor = 0
	s.result = nil
	s.entryID = ""
	s.timer = countdown.New(now, s.cfg.TimeLimit, s.cfg.Thresholds)
	s.lastTick = s.timer.Observe(now)

	attempt := s.attempt
	s.task = s.sched.Every(s.cfg.TickInterval, func(t time.Time) { s.onTick(attempt, t) })
	s.mu.Unlock()

	s.logger.Info("test started",
		zap.Int("questions", len(qs)),
		zap.Duration("time_limit", s.cfg.TimeLimit))
	s.emit(Event{Kind: EventStarted})
	return nil
}

// RecordAnswer stores answerIndex for the question at position,
// overwriting any earlier choice. After evaluation it is a no-op.
func (s *Session) RecordAnswer(position, answerIndex int) error {
	s.mu.Lock()
	if s.phase == PhaseEvaluated {
		s.mu.Unlock()
		return nil
	}
	if position < 0 || position >= len(s.questions) {
		n := len(s.questions)
		s.mu.Unlock()
		return fmt.Errorf("%w: position %d out of range [0, %d)", ErrInvalidArgument, position, n)
	}
	q := s.questions[position]
	if !q.ValidAnswer(answerIndex) {
		s.mu.Unlock()
		return fmt.Errorf("%w: answer %d out of range [0, %d) for position %d",
			ErrInvalidArgument, answerIndex, len(q.Answers), position)
	}
	s.answers[position] = answerIndex
	s.mu.Unlock()

	s.logger.Debug("answer recorded", zap.Int("position", position), zap.Int("answer", answerIndex))
	s.emit(Event{Kind: EventAnswered, Position: position})
	return nil
}

// Navigate moves the cursor to position.
func (s *Session) Navigate(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position < 0 || position >= len(s.questions) {
		return fmt.Errorf("%w: position %d out of range [0, %d)", ErrInvalidArgument, position, len(s.questions))
	}
	s.cursor = position
	return nil
}

// Next advances the cursor, stopping at the last question.
func (s *Session) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < len(s.questions)-1 {
		s.cursor++
	}
	return s.cursor
}

// Prev moves the cursor back, stopping at the first question.
func (s *Session) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor > 0 {
		s.cursor--
	}
	return s.cursor
}

// Evaluate freezes the answers, scores them, releases the countdown and
// archives the attempt. Only the first call after Start has any effect;
// later calls return the frozen result and false. Before Start it returns
// a zero Result and false.
func (s *Session) Evaluate() (scoring.Result, bool) {
	s.mu.Lock()
	if s.phase != PhaseInProgress {
		var r scoring.Result
		if s.result != nil {
			r = *s.result
		}
		s.mu.Unlock()
		return r, false
	}
	ev := s.evaluateLocked(TriggerManual)
	s.mu.Unlock()

	s.emit(ev)
	return ev.Result, true
}

// LoadForReview replaces the session with a read-only, evaluated session
// rebuilt from an archived entry. The stored result is shown as is and
// nothing is archived.
func (s *Session) LoadForReview(e history.Entry) {
	s.mu.Lock()
	s.releaseLocked()

	qs := make([]bank.SelectedQuestion, len(e.Questions))
	copy(qs, e.Questions)
	r := e.Result

	s.phase = PhaseEvaluated
	s.review = true
	s.questions = qs
	s.answers = e.Answers.Clone()
	s.cursor = 0
	s.timer = nil
	s.lastTick = countdown.Tick{}
	s.result = &r
	s.entryID = e.ID
	s.mu.Unlock()

	s.emit(Event{Kind: EventReviewLoaded, Result: r})
}

// Abandon discards the current attempt without archiving it and returns
// to PhaseNotStarted.
func (s *Session) Abandon() {
	s.mu.Lock()
	wasRunning := s.phase == PhaseInProgress
	s.releaseLocked()
	s.phase = PhaseNotStarted
	s.review = false
	s.questions = nil
	s.answers = scoring.Answers{}
	s.cursor = 0
	s.timer = nil
	s.lastTick = countdown.Tick{}
	s.result = nil
	s.entryID = ""
	s.mu.Unlock()

	if wasRunning {
		s.logger.Info("test abandoned")
	}
	s.emit(Event{Kind: EventAbandoned})
}

// Snapshot returns a copy of the state for rendering.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Phase:     s.phase,
		Review:    s.review,
		Questions: append([]bank.SelectedQuestion(nil), s.questions...),
		Answers:   s.answers.Clone(),
		Statuses:  scoring.Statuses(s.questions, s.answers, s.phase == PhaseEvaluated),
		Cursor:    s.cursor,
		Answered:  s.answeredLocked(),
		Limit:     s.cfg.TimeLimit,
		EntryID:   s.entryID,
	}

	switch {
	case s.phase == PhaseInProgress && s.timer != nil:
		v.Remaining = s.timer.Remaining(s.now())
		v.Band = s.cfg.Thresholds.Classify(v.Remaining)
	case s.phase == PhaseNotStarted:
		v.Remaining = s.cfg.TimeLimit
	default:
		v.Remaining = s.lastTick.Remaining
		v.Band = s.lastTick.Band
	}

	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

func (s *Session) onTick(attempt uint64, now time.Time) {
	s.mu.Lock()
	if attempt != s.attempt || s.phase != PhaseInProgress {
		s.mu.Unlock()
		return
	}

	tick := s.timer.Observe(now)
	s.lastTick = tick
	events := []Event{{Kind: EventTick, Tick: tick}}
	if tick.Expired {
		events = append(events, Event{Kind: EventExpired, Tick: tick})
		events = append(events, s.evaluateLocked(TriggerExpiry))
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.emit(ev)
	}
}

// evaluateLocked performs the single InProgress to Evaluated transition.
func (s *Session) evaluateLocked(trigger Trigger) Event {
	now := s.now()
	elapsed := s.timer.Elapsed(now)
	s.lastTick = countdown.Tick{
		Remaining: s.timer.Remaining(now),
		Band:      s.cfg.Thresholds.Classify(s.timer.Remaining(now)),
	}

	r := scoring.Score(s.cfg.Scoring, s.questions, s.answers, elapsed)
	s.phase = PhaseEvaluated
	s.result = &r
	s.releaseLocked()

	if s.recorder != nil {
		e := s.recorder.Append(s.questions, s.answers.Clone(), r)
		s.entryID = e.ID
	}

	s.logger.Info("test evaluated",
		zap.Int("correct", r.Correct),
		zap.Int("total", r.Total),
		zap.Bool("passed", r.Passed),
		zap.Int("elapsed_seconds", elapsed),
		zap.Stringer("trigger", trigger),
		zap.String("entry_id", s.entryID))

	return Event{Kind: EventEvaluated, Trigger: trigger, Result: r}
}

// releaseLocked stops the countdown task and invalidates its callbacks.
func (s *Session) releaseLocked() {
	if s.task != nil {
		s.task.Stop()
		s.task = nil
	}
	s.attempt++
}

func (s *Session) answeredLocked() int {
	n := 0
	for pos := range s.answers {
		if pos >= 0 && pos < len(s.questions) {
			n++
		}
	}
	return n
}

func (s *Session) emit(ev Event) {
	if s.listener != nil {
		s.listener(ev)
	}
}
