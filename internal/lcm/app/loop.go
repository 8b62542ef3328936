package app

import (
	"context"
	"sync"

	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

// Loop owns an App and feeds it messages one at a time. Tasks run on their
// own goroutines and post their result back to the inbox.
type Loop struct {
	app      *App
	inbox    chan Msg
	observer func(Msg, *App)
	tasks    sync.WaitGroup
}

// NewLoop creates a Loop around app. observer, if not nil, is called on the
// loop goroutine after every Update.
func NewLoop(app *App, observer func(Msg, *App)) *Loop {
	return &Loop{
		app:      app,
		inbox:    make(chan Msg, 64),
		observer: observer,
	}
}

// Send posts msg to the loop.
func (l *Loop) Send(ctx context.Context, msg Msg) {
	select {
	case l.inbox <- msg:
	case <-ctx.Done():
	}
}

// Attach forwards watcher events into the loop. It blocks until events is
// closed or ctx is done.
func (l *Loop) Attach(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			l.Send(ctx, WatcherEvent{Event: ev})
		}
	}
}

// Run processes messages until ctx is done. Call Load first so watcher
// events never race the initial profile list.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.tasks.Wait()
			return ctx.Err()
		case msg := <-l.inbox:
			tasks := l.app.Update(msg)
			if l.observer != nil {
				l.observer(msg, l.app)
			}
			l.spawn(ctx, tasks)
		}
	}
}

func (l *Loop) spawn(ctx context.Context, tasks []Task) {
	for _, t := range tasks {
		l.app.logger.Debug("task started", "task", t.Name)
		l.tasks.Add(1)
		go func(t Task) {
			defer l.tasks.Done()
			l.Send(ctx, t.Run(ctx))
		}(t)
	}
}

// Load runs the Init tasks synchronously and settles their results.
func (a *App) Load(ctx context.Context) error {
	var msgs []Msg
	for _, t := range a.Init() {
		msgs = append(msgs, t.Run(ctx))
	}
	return a.Settle(ctx, msgs...)
}

// Settle runs msgs and every task they cause on the calling goroutine until
// nothing is left, then returns the error left in the status line. One-shot
// commands use it instead of a Loop.
func (a *App) Settle(ctx context.Context, msgs ...Msg) error {
	queue := append([]Msg(nil), msgs...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := queue[0]
		queue = queue[1:]
		for _, t := range a.Update(msg) {
			a.logger.Debug("task started", "task", t.Name)
			queue = append(queue, t.Run(ctx))
		}
	}
	return a.Err
}
