package webhook

import (
	"context"
	"sync"

	"psdevbot/internal/model"
)

// Mock logger for testing
type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// mockPublisher records enqueued messages; enqueueFunc overrides the
// default success behavior when set.
type mockPublisher struct {
	mu          sync.Mutex
	messages    []model.OutboundMessage
	enqueueFunc func(model.OutboundMessage) error
}

func (p *mockPublisher) Enqueue(msg model.OutboundMessage) error {
	if p.enqueueFunc != nil {
		return p.enqueueFunc(msg)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *mockPublisher) all() []model.OutboundMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OutboundMessage(nil), p.messages...)
}
