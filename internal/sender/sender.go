package sender

import (
	"context"

	"psdevbot/internal/model"
	"psdevbot/internal/telemetry"
)

// Enqueue appends a message to the queue and returns immediately. It
// fails with ErrClosed once the delivery worker has stopped.
func (s *Sender) Enqueue(msg model.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.queue = append(s.queue, msg)
	s.cond.Signal()
	return nil
}

// Run drains the queue until the context is cancelled or a send fails.
// Either way the queue is closed permanently and any messages still
// queued are dropped.
func (s *Sender) Run(ctx context.Context) {
	// Wake the worker out of cond.Wait when the context ends.
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer stop()
	defer s.close()

	for {
		msg, ok := s.next(ctx)
		if !ok {
			return
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		if err := s.transport.Send(msg.Wire()); err != nil {
			s.l.Errorf(ctx, "Outbound send failed, stopping delivery worker: %v", err)
			return
		}
		telemetry.MessagesSent.Inc()
		s.l.Debugf(ctx, "Sent message: %q", msg.Wire())
	}
}

func (s *Sender) next(ctx context.Context) (model.OutboundMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 {
		if ctx.Err() != nil || s.closed {
			return model.OutboundMessage{}, false
		}
		s.cond.Wait()
	}
	if ctx.Err() != nil || s.closed {
		return model.OutboundMessage{}, false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	return msg, true
}

func (s *Sender) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.queue = nil
	s.cond.Broadcast()
}
