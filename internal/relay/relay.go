package relay

import (
	"context"
	"fmt"
	"time"

	"psdevbot/internal/model"
	"psdevbot/internal/sender"
	"psdevbot/internal/telemetry"
	"psdevbot/pkg/showdown"
)

// Enqueue hands a message to the current connection's outbound queue.
// Returns sender.ErrClosed while no authenticated connection exists.
func (r *Relay) Enqueue(msg model.OutboundMessage) error {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()
	if s == nil {
		return sender.ErrClosed
	}
	return s.Enqueue(msg)
}

// Run supervises the connection: each attempt performs the handshake
// and runs the authenticated loop; on any failure the attempt is
// retried after the backoff, indefinitely, until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	for {
		if err := r.runOnce(ctx); err != nil {
			r.l.Errorf(ctx, "Relay connection ended: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.Backoff):
		}
		telemetry.Reconnects.Inc()
		r.l.Infof(ctx, "Reconnecting to %s", r.cfg.Showdown.Server)
	}
}

func (r *Relay) runOnce(ctx context.Context) error {
	authCtx, cancelAuth := context.WithTimeout(ctx, r.cfg.AuthTimeout)
	defer cancelAuth()

	conn, err := showdown.Dial(authCtx, r.cfg.Showdown.Server)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Receive has no context; closing the connection unblocks it when
	// the auth deadline (or ctx) expires mid-handshake.
	stopWatchdog := context.AfterFunc(authCtx, func() { conn.Close() })
	if err := r.handshake(authCtx, conn); err != nil {
		stopWatchdog()
		return err
	}
	stopWatchdog()
	cancelAuth()

	connCtx, cancelConn := context.WithCancel(ctx)
	defer cancelConn()
	stop := context.AfterFunc(connCtx, func() { conn.Close() })
	defer stop()

	s := sender.NewWithInterval(r.l, conn, r.cfg.PacingInterval)
	go s.Run(connCtx)

	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.current = nil
		r.mu.Unlock()
	}()

	return r.readLoop(connCtx, conn)
}

// handshake drives the connection to an authenticated state: wait for
// the challenge, exchange it for an assertion, send the login command.
// Messages received before the challenge are ignored.
func (r *Relay) handshake(ctx context.Context, conn *showdown.Conn) error {
	for {
		messages, err := conn.Receive()
		if err != nil {
			return fmt.Errorf("%w: connection closed before challenge: %v", ErrAuthentication, err)
		}
		for _, msg := range messages {
			if !msg.IsChallenge() {
				continue
			}
			assertion, err := r.login.Assertion(ctx, r.cfg.Showdown.User, r.cfg.Showdown.Password, msg.Rest)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrAuthentication, err)
			}
			login := fmt.Sprintf("|/trn %s,0,%s", r.cfg.Showdown.User, assertion)
			if err := conn.Send(login); err != nil {
				return fmt.Errorf("%w: %v", ErrAuthentication, err)
			}
			return nil
		}
	}
}

// readLoop consumes inbound frames until the connection fails. The
// named updateuser message confirms the login and triggers the away
// and join commands, paced through the outbound queue.
func (r *Relay) readLoop(ctx context.Context, conn *showdown.Conn) error {
	for {
		messages, err := conn.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read loop: %w", err)
		}
		for _, msg := range messages {
			r.l.Debugf(ctx, "Received message: %s|%s", msg.Command, msg.Rest)
			if msg.IsNamedUpdateUser() {
				r.onAuthenticated(ctx)
			}
		}
	}
}

func (r *Relay) onAuthenticated(ctx context.Context) {
	r.l.Infof(ctx, "Authenticated as %s, joining %d room(s)", r.cfg.Showdown.User, len(r.cfg.Rooms))
	if err := r.Enqueue(model.GlobalCommand("away")); err != nil {
		return
	}
	for _, room := range r.cfg.Rooms {
		if err := r.Enqueue(model.GlobalCommand("join " + room)); err != nil {
			return
		}
	}
}
