package app

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestShutdownRunsStepsInOrder(t *testing.T) {
	exits := newExitRecorder()
	s := NewShutdown(time.Second, exits.exit)

	var order []string
	s.Add("first", func(context.Context) error {
		order = append(order, "first")
		return errors.New("ignored")
	})
	s.Add("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	s.Trigger()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected step order %v", order)
	}
	if got := exits.calls(); len(got) != 1 || got[0] != ExitOK {
		t.Fatalf("expected exit(0), got %v", got)
	}
}

func TestShutdownTriggerOnce(t *testing.T) {
	exits := newExitRecorder()
	s := NewShutdown(time.Second, exits.exit)

	var mu sync.Mutex
	runs := 0
	s.Add("count", func(context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Trigger()
		}()
	}
	wg.Wait()

	if runs != 1 {
		t.Fatalf("steps ran %d times", runs)
	}
	if got := exits.calls(); len(got) != 1 {
		t.Fatalf("exit called %d times", len(got))
	}
}

func TestShutdownTimeout(t *testing.T) {
	exits := newExitRecorder()
	s := NewShutdown(30*time.Millisecond, exits.exit)

	release := make(chan struct{})
	defer close(release)
	s.Add("hang", func(context.Context) error {
		<-release
		return nil
	})

	start := time.Now()
	s.Trigger()

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("trigger blocked for %v", elapsed)
	}
	if got := exits.calls(); len(got) != 1 || got[0] != ExitOK {
		t.Fatalf("expected exit(0) after timeout, got %v", got)
	}
}

func TestShutdownWatch(t *testing.T) {
	exits := newExitRecorder()
	s := NewShutdown(time.Second, exits.exit)

	signals := make(chan os.Signal, 3)
	signals <- syscall.SIGINT
	signals <- syscall.SIGINT
	signals <- syscall.SIGTERM
	close(signals)

	s.Watch(context.Background(), signals)

	if got := exits.calls(); len(got) != 1 {
		t.Fatalf("expected one exit for repeated signals, got %v", got)
	}
}

func TestShutdownWatchStopsOnContext(t *testing.T) {
	exits := newExitRecorder()
	s := NewShutdown(time.Second, exits.exit)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, make(chan os.Signal))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
	if len(exits.calls()) != 0 {
		t.Fatal("exit must not be called without a signal")
	}
}
