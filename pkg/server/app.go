package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "PhonePortal/pkg/http"
	pkgkafka "PhonePortal/pkg/kafka"
	"PhonePortal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Task is a background loop that runs until ctx is cancelled.
type Task func(ctx context.Context) error

type namedCloser struct {
	name string
	c    io.Closer
}

type namedTask struct {
	name string
	run  Task
}

// Option configures App.
type Option func(*App)

// WithConsumer runs consumer with the given handlers for the app lifetime.
func WithConsumer(consumer *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = consumer
		a.handlers = append(a.handlers, handlers...)
	}
}

// WithCloser registers a resource closed on shutdown. Closers run in
// reverse registration order.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, namedCloser{name: name, c: c})
		}
	}
}

// WithTask adds a background task.
func WithTask(name string, t Task) Option {
	return func(a *App) {
		a.tasks = append(a.tasks, namedTask{name: name, run: t})
	}
}

// WithShutdownTimeout bounds how long Run waits for the HTTP server and
// the consumer to drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = d
	}
}

// App encapsulates the entire application lifecycle.
type App struct {
	log             *logger.Logger
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	handlers        []pkgkafka.MessageHandler
	closers         []namedCloser
	tasks           []namedTask
	shutdownTimeout time.Duration
}

// New creates a new App around an HTTP server.
func New(log *logger.Logger, httpServer *xhttp.Server, opts ...Option) *App {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{
		log:             log,
		httpServer:      httpServer,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until ctx is cancelled, SIGINT or
// SIGTERM arrives, or a component fails. Resources are released before it
// returns.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.closeAll()

	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
		}
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.httpServer != nil {
		g.Go(a.httpServer.Serve)
	}
	for _, t := range a.tasks {
		t := t
		g.Go(func() error {
			if err := t.run(gctx); err != nil {
				return fmt.Errorf("task %s: %w", t.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")
		return a.shutdown()
	})

	err := g.Wait()
	if err != nil {
		a.log.Error("app stopped with error", logger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}

// shutdown stops the ingress side first so nothing new reaches the
// resources closed afterwards.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var firstErr error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", logger.Error(err))
			firstErr = err
		}
	}
	if a.consumer != nil && len(a.handlers) > 0 {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", logger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.log.Warn("close error", logger.String("resource", nc.name), logger.Error(err))
		}
	}
	a.closers = nil
}

// Every returns a Task that calls fn on each tick of interval.
func Every(interval time.Duration, fn func()) Task {
	return func(ctx context.Context) error {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				fn()
			}
		}
	}
}
