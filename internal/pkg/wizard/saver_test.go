package wizard

import (
	"sync"
	"testing"
	"time"
)

type persistRecorder struct {
	mu       sync.Mutex
	calls    int
	payloads []string
}

func (r *persistRecorder) persist(formJSON string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.payloads = append(r.payloads, formJSON)
	return nil
}

func (r *persistRecorder) snapshot() (int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, append([]string(nil), r.payloads...)
}

func TestSaverCoalescesBurst(t *testing.T) {
	rec := &persistRecorder{}
	saver := NewSaver(20*time.Millisecond, rec.persist)

	saver.Save(`{"v":1}`)
	saver.Save(`{"v":2}`)
	saver.Save(`{"v":3}`)

	time.Sleep(100 * time.Millisecond)

	calls, payloads := rec.snapshot()
	if calls != 1 {
		t.Fatalf("expected 1 persist call for a burst, got %d", calls)
	}
	if payloads[0] != `{"v":3}` {
		t.Fatalf("expected the last payload to win, got %q", payloads[0])
	}
}

func TestSaverFlushIsImmediate(t *testing.T) {
	rec := &persistRecorder{}
	saver := NewSaver(time.Hour, rec.persist)

	saver.Save(`{"v":1}`)
	if err := saver.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	calls, payloads := rec.snapshot()
	if calls != 1 || payloads[0] != `{"v":1}` {
		t.Fatalf("expected one immediate persist, got calls=%d payloads=%v", calls, payloads)
	}

	// Nothing pending; a second flush is a no-op.
	if err := saver.Flush(); err != nil {
		t.Fatalf("empty flush failed: %v", err)
	}
	if calls, _ := rec.snapshot(); calls != 1 {
		t.Fatalf("empty flush must not persist again")
	}
}

func TestSaverCloseFlushesAndStops(t *testing.T) {
	rec := &persistRecorder{}
	saver := NewSaver(time.Hour, rec.persist)

	saver.Save(`{"v":1}`)
	if err := saver.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if calls, _ := rec.snapshot(); calls != 1 {
		t.Fatalf("expected close to flush, got %d calls", calls)
	}

	// Saves after close are dropped.
	saver.Save(`{"v":2}`)
	if err := saver.Flush(); err != nil {
		t.Fatalf("flush after close failed: %v", err)
	}
	if calls, _ := rec.snapshot(); calls != 1 {
		t.Fatalf("expected saves after close to be ignored")
	}
}
