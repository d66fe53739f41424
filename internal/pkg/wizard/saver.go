package wizard

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Saver coalesces rapid form-data writes into one persistence call per burst
// (trailing-edge debounce). The wizard autosaves on every field change; the
// database sees one write per pause in typing.
type Saver struct {
	delay   time.Duration
	persist func(formJSON string) error

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	dirty   bool
	closed  bool
}

// NewSaver creates a debounced saver. delay <= 0 falls back to 750ms.
func NewSaver(delay time.Duration, persist func(formJSON string) error) *Saver {
	if delay <= 0 {
		delay = 750 * time.Millisecond
	}
	return &Saver{delay: delay, persist: persist}
}

// Save schedules a persistence of the given payload, replacing any payload
// scheduled earlier in the same burst.
func (s *Saver) Save(formJSON string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = formJSON
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flushTimer)
}

func (s *Saver) flushTimer() {
	if err := s.Flush(); err != nil {
		log.Errorf("[Wizard] debounced save failed: %v", err)
	}
}

// Flush persists the pending payload immediately, if any.
func (s *Saver) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	payload := s.pending
	s.dirty = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.persist(payload)
}

// Close stops the timer and flushes whatever is pending.
func (s *Saver) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush()
}
