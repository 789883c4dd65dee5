package queue_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/campuseats/pkg/queue"
)

// receiptJob mimics a post-checkout notification job. Processed IDs land on
// the package-level channel so tests can observe execution.
type receiptJob struct {
	OrderID uint `json:"order_id"`
}

var processedReceipts = make(chan uint, 16)

func (j receiptJob) Handle() error {
	processedReceipts <- j.OrderID
	return nil
}

// flakyJob fails until its attempt counter reaches the configured threshold.
type flakyJob struct {
	SucceedOn int `json:"succeed_on"`
}

var (
	flakyAttempts int64
	flakyDone     = make(chan struct{}, 16)
)

func (j flakyJob) Handle() error {
	n := atomic.AddInt64(&flakyAttempts, 1)
	if int(n) < j.SucceedOn {
		return errAlwaysFails
	}
	flakyDone <- struct{}{}
	return nil
}

type hopelessJob struct{}

func (hopelessJob) Handle() error { return errAlwaysFails }

var errAlwaysFails = queueErr("transient failure")

type queueErr string

func (e queueErr) Error() string { return string(e) }

func init() {
	queue.Register("queue_test.receiptJob", func() queue.Job { return &receiptJob{} })
	queue.Register("queue_test.flakyJob", func() queue.Job { return &flakyJob{} })
	queue.Register("queue_test.hopelessJob", func() queue.Job { return &hopelessJob{} })
}

func TestDispatchAndProcess(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 2)

	if err := queue.Dispatch(receiptJob{OrderID: 42}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	select {
	case id := <-processedReceipts:
		if id != 42 {
			t.Errorf("expected order 42, got %d", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestRetryUntilSuccess(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(3)
	atomic.StoreInt64(&flakyAttempts, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	if err := queue.Dispatch(flakyJob{SucceedOn: 2}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	select {
	case <-flakyDone:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not succeed within the retry budget")
	}

	if got := atomic.LoadInt64(&flakyAttempts); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestExhaustedRetriesAreRecorded(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	if err := queue.Dispatch(hopelessJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, f := range queue.FailedJobs() {
			if _, ok := f.Job.(*hopelessJob); ok {
				if f.Attempts != 1 {
					t.Errorf("expected 1 attempt, got %d", f.Attempts)
				}
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("failed job was never recorded")
}

func TestDispatchAfterDelays(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	start := time.Now()
	queue.DispatchAfter(receiptJob{OrderID: 7}, 200*time.Millisecond)

	select {
	case id := <-processedReceipts:
		if id != 7 {
			t.Errorf("expected order 7, got %d", id)
		}
		if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
			t.Errorf("job ran too early: %v", elapsed)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("delayed job was not processed")
	}
}
