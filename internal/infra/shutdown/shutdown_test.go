package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.done == nil {
		t.Error("done channel should be initialized")
	}
}

func TestHandler_ShutdownRunsHooksInReverseOrder(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	callOrder := make([]int, 0)
	var mu sync.Mutex
	record := func(n int) func(context.Context) error {
		return func(ctx context.Context) error {
			mu.Lock()
			callOrder = append(callOrder, n)
			mu.Unlock()
			return nil
		}
	}

	h.OnShutdown("store", record(1))
	h.OnShutdown("hub", record(2))
	h.OnShutdown("listeners", record(3))

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []int{3, 2, 1}
	if len(callOrder) != len(want) {
		t.Fatalf("hooks called = %v, want %v", callOrder, want)
	}
	for i := range want {
		if callOrder[i] != want[i] {
			t.Fatalf("hooks called in wrong order: %v, want %v", callOrder, want)
		}
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Shutdown")
	}
}

func TestHandler_ShutdownHookErrorDoesNotStopOthers(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	hookErr := errors.New("hook error")
	var laterRan bool

	h.OnShutdown("first", func(ctx context.Context) error {
		laterRan = true
		return nil
	})
	h.OnShutdown("failing", func(ctx context.Context) error {
		return hookErr
	})

	err := h.Shutdown()
	if !errors.Is(err, hookErr) {
		t.Errorf("Shutdown() error = %v, want %v", err, hookErr)
	}
	if !laterRan {
		t.Error("hooks after a failing hook should still run")
	}
}

func TestHandler_WaitRespondsToSignal(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	var ran bool
	h.OnShutdown("cleanup", func(ctx context.Context) error {
		ran = true
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	// Give Wait time to set up its signal handler.
	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	if !ran {
		t.Error("shutdown hook did not run")
	}
}

func TestHandler_HookReceivesDeadline(t *testing.T) {
	h := NewHandler(100*time.Millisecond, nil)

	h.OnShutdown("check-deadline", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("hook context should carry a deadline")
		}
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
