package app

import (
	"context"
	"os"
	"sync"
	"time"
)

// ExitOK is the process status after a signal-driven shutdown
const ExitOK = 0

type shutdownStep struct {
	name string
	fn   func(ctx context.Context) error
}

// Shutdown is a one-shot cleanup that always ends in exit. Steps share one
// deadline; a step that overruns it is abandoned.
type Shutdown struct {
	timeout time.Duration
	exit    func(code int)

	mu    sync.Mutex
	steps []shutdownStep
	once  sync.Once
}

// NewShutdown creates a shutdown that calls exit once cleanup finishes or timeout passes
func NewShutdown(timeout time.Duration, exit func(code int)) *Shutdown {
	return &Shutdown{timeout: timeout, exit: exit}
}

// Add appends a cleanup step. Steps run in the order they were added.
func (s *Shutdown) Add(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, shutdownStep{name: name, fn: fn})
}

// Trigger runs the cleanup steps and exits. Only the first call does anything.
func (s *Shutdown) Trigger() {
	s.once.Do(func() {
		s.mu.Lock()
		steps := append([]shutdownStep(nil), s.steps...)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for _, step := range steps {
				if err := step.fn(ctx); err != nil {
					log.WithField("step", step.name).WithError(err).Warn("shutdown step failed")
					continue
				}
				log.WithField("step", step.name).Debug("shutdown step done")
			}
		}()

		select {
		case <-done:
		case <-ctx.Done():
			log.WithField("timeout", s.timeout).Warn("shutdown timed out, exiting anyway")
		}

		log.Info("bye")
		s.exit(ExitOK)
	})
}

// Watch triggers the shutdown on the first signal. Later signals are ignored.
// It returns when ctx is done or signals is closed.
func (s *Shutdown) Watch(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			log.WithField("signal", sig.String()).Info("received signal")
			s.Trigger()
		}
	}
}
