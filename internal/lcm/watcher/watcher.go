// Package watcher keeps a live subscription to the game client's champion
// selection and reports it as a stream of events.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// QueueSize bounds the event channel returned by Run.
	QueueSize = 100
	// DefaultRetryWindow is the pause between a disconnect and the next attempt.
	DefaultRetryWindow = 10 * time.Second
)

// Conn is an established selection subscription.
type Conn interface {
	// Next blocks until the client reports the current champion.
	Next(ctx context.Context) (uint32, error)
	Close() error
}

// Dialer opens a selection subscription.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Watcher reconnects to the client forever and emits Event values.
type Watcher struct {
	dialer  Dialer
	backoff backoff.BackOff
	tick    time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithBackOff sets the policy that sizes each retry window.
func WithBackOff(b backoff.BackOff) Option {
	return func(w *Watcher) { w.backoff = b }
}

// WithRetryWindow uses a constant retry window of d.
func WithRetryWindow(d time.Duration) Option {
	return func(w *Watcher) { w.backoff = backoff.NewConstantBackOff(d) }
}

// WithTick sets the countdown granularity.
func WithTick(d time.Duration) Option {
	return func(w *Watcher) { w.tick = d }
}

// WithSleep replaces the countdown sleeper.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Watcher) { w.sleep = sleep }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a Watcher that connects through dialer.
func New(dialer Dialer, opts ...Option) *Watcher {
	w := &Watcher{
		dialer:  dialer,
		backoff: backoff.NewConstantBackOff(DefaultRetryWindow),
		tick:    time.Second,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.tick <= 0 {
		w.tick = time.Second
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w
}

// Run starts the watcher in the background. The returned channel is closed
// only after ctx is done.
func (w *Watcher) Run(ctx context.Context) <-chan Event {
	out := make(chan Event, QueueSize)
	go w.loop(ctx, out)
	return out
}

func (w *Watcher) loop(ctx context.Context, out chan<- Event) {
	defer close(out)
	for {
		err := w.session(ctx, out)
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("client connection lost", "error", err)
		if !w.emit(ctx, out, Disconnected{}) {
			return
		}
		if !w.countdown(ctx, out) {
			return
		}
	}
}

// session runs one connection cycle and returns why it ended.
func (w *Watcher) session(ctx context.Context, out chan<- Event) error {
	conn, err := w.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	w.backoff.Reset()
	w.logger.Info("connected to client")
	if !w.emit(ctx, out, Connected{}) {
		return ctx.Err()
	}
	for {
		id, err := conn.Next(ctx)
		if err != nil {
			return err
		}
		w.logger.Debug("champion selected", "champion", id)
		if !w.emit(ctx, out, Selected{ChampionID: id}) {
			return ctx.Err()
		}
	}
}

func (w *Watcher) countdown(ctx context.Context, out chan<- Event) bool {
	window := w.backoff.NextBackOff()
	if window == backoff.Stop || window <= 0 {
		window = DefaultRetryWindow
	}
	// A partial tick still counts as one step, so a short window waits too.
	for left := window; left > 0; left -= w.tick {
		steps := int((left + w.tick - 1) / w.tick)
		if !w.emit(ctx, out, Retrying{Seconds: steps}) {
			return false
		}
		if err := w.sleep(ctx, min(w.tick, left)); err != nil {
			return false
		}
	}
	return true
}

// emit blocks while the queue is full; events are human-paced.
func (w *Watcher) emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
