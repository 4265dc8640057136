package countdown

import (
	"sync"
	"time"
)

// Task is a handle to a running periodic callback.
type Task interface {
	// Stop cancels the task. It is safe to call more than once.
	Stop()
}

// Scheduler runs fn periodically until the returned Task is stopped.
type Scheduler interface {
	Every(interval time.Duration, fn func(now time.Time)) Task
}

// TickerScheduler drives callbacks from a time.Ticker on its own goroutine.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func(now time.Time)) Task {
	t := &tickerTask{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func(time.Time)) {
	for {
		select {
		case <-t.done:
			return
		case now := <-t.ticker.C:
			// Stop may race with a pending tick.
			select {
			case <-t.done:
				return
			default:
			}
			fn(now)
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// ManualScheduler records callbacks and fires them only when told to.
// It makes timer behaviour deterministic in tests.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	fn      func(time.Time)
	stopped bool
}

func (m *manualTask) Stop() {
	m.s.mu.Lock()
	m.stopped = true
	m.s.mu.Unlock()
}

// Every implements Scheduler.
func (s *ManualScheduler) Every(_ time.Duration, fn func(time.Time)) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Fire invokes every task that has not been stopped.
func (s *ManualScheduler) Fire(now time.Time) {
	s.mu.Lock()
	var live []*manualTask
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.mu.Unlock()

	for _, t := range live {
		s.mu.Lock()
		stopped := t.stopped
		s.mu.Unlock()
		if !stopped {
			t.fn(now)
		}
	}
}

// Active returns the number of tasks not yet stopped.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}
