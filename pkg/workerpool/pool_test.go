package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/campuseats/pkg/workerpool"
)

func TestSubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := pool.SubmitWait(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 20 {
		t.Errorf("expected 20 executions, got %d", got)
	}
}

func TestSubmitReturnsPoolFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the single worker.
	if err := pool.Submit(func() {
		close(started)
		<-block
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	<-started

	// Fill the queue buffer (2× workers).
	for i := 0; i < 2; i++ {
		if err := pool.Submit(func() { <-block }); err != nil {
			t.Fatalf("buffered submit %d: %v", i, err)
		}
	}

	// Next submit has nowhere to go.
	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}

	close(block)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from Submit, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	if err := pool.SubmitWait(func() { panic("bad task") }); err != nil {
		t.Fatalf("submit panicking task: %v", err)
	}

	done := make(chan struct{})
	if err := pool.SubmitWait(func() { close(done) }); err != nil {
		t.Fatalf("submit after panic: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestShutdownWaitsForInflight(t *testing.T) {
	pool := workerpool.New(2)

	var finished int64
	for i := 0; i < 4; i++ {
		if err := pool.SubmitWait(func() {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt64(&finished, 1)
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	pool.Shutdown()

	if got := atomic.LoadInt64(&finished); got != 4 {
		t.Errorf("expected all in-flight tasks to finish, got %d", got)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	pool := workerpool.New(1)
	pool.Shutdown()
	pool.Shutdown() // must not panic
}
