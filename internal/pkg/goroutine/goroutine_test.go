package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestManagerCollectsErrors(t *testing.T) {
	// Arrange
	m := NewManager(4)
	boom := errors.New("boom")

	// Act
	m.Go(context.Background(), func(context.Context) error { return nil })
	m.Go(context.Background(), func(context.Context) error { return boom })
	err := m.Wait()

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want %v", err, boom)
	}
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)
	m.Go(context.Background(), func(context.Context) error { panic("kaboom") })

	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v, want nil", err)
	}
}

func TestManagerRejectsAfterWait(t *testing.T) {
	m := NewManager(1)
	_ = m.Wait()

	var ran atomic.Bool
	m.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if ran.Load() {
		t.Fatalf("task ran on closed manager")
	}
}

func TestEveryStopsWithContext(t *testing.T) {
	// Arrange
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int32

	// Act
	m.Every(ctx, "tick", 5*time.Millisecond, func(context.Context) error {
		if ticks.Add(1) >= 3 {
			cancel()
		}
		return errors.New("ignored")
	})

	done := make(chan error, 1)
	go func() { done <- m.Wait() }()

	// Assert
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("periodic task did not stop")
	}
	if ticks.Load() < 3 {
		t.Fatalf("ticks = %d, want >= 3", ticks.Load())
	}
}
