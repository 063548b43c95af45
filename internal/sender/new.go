package sender

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"psdevbot/internal/model"
	"psdevbot/pkg/log"
)

// DefaultInterval is the minimum spacing between two consecutive
// sends. Showdown throttles clients that write faster than this.
const DefaultInterval = 700 * time.Millisecond

// Transport writes one wire frame to the persistent connection.
type Transport interface {
	Send(frame string) error
}

// Sender is the single writer of the persistent connection. Enqueue is
// non-blocking and preserves FIFO order; one worker drains the queue,
// pacing consecutive sends by at least the configured interval. The
// first send after start (or after an idle period) goes out
// immediately; there is no accumulated burst credit beyond that.
type Sender struct {
	l         log.Logger
	transport Transport
	limiter   *rate.Limiter

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []model.OutboundMessage
	closed bool
}

// New creates a Sender with the default pacing interval.
func New(l log.Logger, transport Transport) *Sender {
	return NewWithInterval(l, transport, DefaultInterval)
}

// NewWithInterval creates a Sender with a custom pacing interval.
func NewWithInterval(l log.Logger, transport Transport, interval time.Duration) *Sender {
	s := &Sender{
		l:         l,
		transport: transport,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}
