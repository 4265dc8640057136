// Package history keeps the most recent completed attempts in a single
// JSON blob under one key of an abstract key-value store.
package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/scoring"
)

// Defaults for the persisted log.
const (
	DefaultKey      = "cz-realie-test-history"
	DefaultCapacity = 10
)

// DateLayout is the timestamp format of Entry.Date (UTC, milliseconds).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one archived attempt. Entries are immutable once written.
type Entry struct {
	ID        string                  `json:"id"`
	Date      string                  `json:"date"`
	Questions []bank.SelectedQuestion `json:"questions"`
	Answers   scoring.Answers         `json:"userAnswers"`
	Result    scoring.Result          `json:"results"`
}

// Time parses Date. Entries with an unparseable date yield the zero time.
func (e Entry) Time() time.Time {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, e.Date)
	}
	return t
}

// KV is the storage the log persists through.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Option configures a Log.
type Option func(*Log)

// WithKey overrides the storage key.
func WithKey(key string) Option { return func(l *Log) { l.key = key } }

// WithCapacity overrides the number of retained entries.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option { return func(l *Log) { l.now = now } }

// WithIDFunc overrides entry id generation.
func WithIDFunc(fn func() string) Option { return func(l *Log) { l.newID = fn } }

// WithLogger sets the logger used for absorbed storage failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Log is the bounded, newest-first list of archived attempts. Every call
// reads the stored list first, so several Logs over one store stay in step.
//
// Storage failures never surface to callers: a failed read behaves as an
// empty history and a failed write keeps the in-memory list.
type Log struct {
	kv       KV
	key      string
	capacity int
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger

	mu      sync.Mutex
	loaded  bool
	entries []Entry
}

// New creates a log over kv. A nil kv is allowed and keeps the history in
// memory only.
func New(kv KV, opts ...Option) *Log {
	l := &Log{
		kv:       kv,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Capacity returns the maximum number of retained entries.
func (l *Log) Capacity() int { return l.capacity }

// List returns the entries newest first.
func (l *Log) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the entry with the given id.
func (l *Log) Get(id string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Append archives a completed attempt and returns the new entry. The
// oldest entries beyond capacity are dropped.
func (l *Log) Append(questions []bank.SelectedQuestion, answers scoring.Answers, result scoring.Result) Entry {
	qs := make([]bank.SelectedQuestion, len(questions))
	copy(qs, questions)

	e := Entry{
		ID:        l.newID(),
		Date:      l.now().UTC().Format(DateLayout),
		Questions: qs,
		Answers:   answers.Clone(),
		Result:    result,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()

	entries := make([]Entry, 0, len(l.entries)+1)
	entries = append(entries, e)
	entries = append(entries, l.entries...)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = entries
	l.persistLocked()
	return e
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (l *Log) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()

	kept := l.entries[:0:0]
	for _, e := range l.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(l.entries) {
		return false
	}
	l.entries = kept
	l.persistLocked()
	return true
}

// Clear drops every entry and removes the stored blob.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.loaded = true
	if l.kv == nil {
		return
	}
	if err := guard(func() error { return l.kv.Delete(l.key) }); err != nil {
		l.logger.Warn("clear history", zap.String("key", l.key), zap.Error(err))
	}
}

// loadLocked re-reads the stored list so changes written by another
// process are seen. A failed read keeps the cached list.
func (l *Log) loadLocked() {
	if l.kv == nil {
		l.loaded = true
		return
	}

	var (
		raw string
		ok  bool
	)
	err := guard(func() error {
		var err error
		raw, ok, err = l.kv.Get(l.key)
		return err
	})
	if err != nil {
		l.logger.Warn("read history", zap.String("key", l.key), zap.Error(err))
		if !l.loaded {
			l.entries = nil
			l.loaded = true
		}
		return
	}
	l.loaded = true
	l.entries = nil
	if !ok || raw == "" {
		return
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.Warn("malformed history, starting empty", zap.String("key", l.key), zap.Error(err))
		return
	}
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = entries
}

func (l *Log) persistLocked() {
	if l.kv == nil {
		return
	}
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		l.logger.Warn("encode history", zap.Error(err))
		return
	}
	if err := guard(func() error { return l.kv.Set(l.key, string(data)) }); err != nil {
		l.logger.Warn("write history", zap.String("key", l.key), zap.Int("entries", len(entries)), zap.Error(err))
	}
}

// guard runs fn and turns a panic inside the storage collaborator into an
// error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage panic: %v", r)
		}
	}()
	return fn()
}
