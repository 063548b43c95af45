package sender_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"psdevbot/internal/model"
	"psdevbot/internal/sender"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (mockLogger) Warnf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

type recordingTransport struct {
	mu     sync.Mutex
	frames []string
	times  []time.Time
	err    error
	sent   chan struct{}
}

func newRecordingTransport(capacity int) *recordingTransport {
	return &recordingTransport{sent: make(chan struct{}, capacity)}
}

func (t *recordingTransport) Send(frame string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.frames = append(t.frames, frame)
	t.times = append(t.times, time.Now())
	t.sent <- struct{}{}
	return nil
}

func waitN(t *testing.T, ch chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for send %d of %d", i+1, n)
		}
	}
}

func TestOrderAndPacing(t *testing.T) {
	const interval = 50 * time.Millisecond
	transport := newRecordingTransport(3)
	s := sender.NewWithInterval(mockLogger{}, transport, interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	for _, text := range []string{"one", "two", "three"} {
		if err := s.Enqueue(model.Chat("room", text)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}
	waitN(t, transport.sent, 3)

	transport.mu.Lock()
	defer transport.mu.Unlock()
	want := []string{"room|one", "room|two", "room|three"}
	for i, frame := range transport.frames {
		if frame != want[i] {
			t.Errorf("delivery order mismatch at %d: got %q want %q", i, frame, want[i])
		}
	}
	for i := 1; i < len(transport.times); i++ {
		if gap := transport.times[i].Sub(transport.times[i-1]); gap < interval-5*time.Millisecond {
			t.Errorf("sends %d and %d only %v apart, want >= %v", i-1, i, gap, interval)
		}
	}
}

func TestFirstSendImmediate(t *testing.T) {
	transport := newRecordingTransport(1)
	s := sender.NewWithInterval(mockLogger{}, transport, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	start := time.Now()
	if err := s.Enqueue(model.GlobalCommand("away")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitN(t, transport.sent, 1)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("first send should not wait for the interval, took %v", elapsed)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if transport.frames[0] != "|/away" {
		t.Errorf("unexpected frame %q", transport.frames[0])
	}
}

func TestClosesOnSendFailure(t *testing.T) {
	transport := newRecordingTransport(1)
	transport.err = errors.New("connection reset")
	s := sender.NewWithInterval(mockLogger{}, transport, time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	if err := s.Enqueue(model.Chat("room", "doomed")); err != nil {
		t.Fatalf("enqueue before failure should succeed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after send failure")
	}

	if err := s.Enqueue(model.Chat("room", "late")); !errors.Is(err, sender.ErrClosed) {
		t.Errorf("expected ErrClosed after worker stop, got %v", err)
	}
}

func TestStopsOnContextCancel(t *testing.T) {
	transport := newRecordingTransport(1)
	s := sender.NewWithInterval(mockLogger{}, transport, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
	if err := s.Enqueue(model.Chat("room", "late")); !errors.Is(err, sender.ErrClosed) {
		t.Errorf("expected ErrClosed after cancel, got %v", err)
	}
}
