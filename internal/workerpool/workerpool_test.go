package workerpool

import (
	"errors"
	"os"
	"sync/atomic"
	"testing"
)

func TestWorkerCountRespectsEnv(t *testing.T) {
	t.Setenv("NUM_THREADS", "3")
	if got := workerCount(); got != 3 {
		t.Fatalf("workerCount() = %d, want 3", got)
	}
}

func TestWorkerCountFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("NUM_THREADS")
	if got := workerCount(); got < 1 {
		t.Fatalf("workerCount() = %d, want >= 1", got)
	}
}

func TestBatchRunsAllJobs(t *testing.T) {
	p := New()
	var ran int32
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = func() error {
			atomic.AddInt32(&ran, 1)
			return nil
		}
	}
	if err := p.Batch(jobs); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if ran != int32(len(jobs)) {
		t.Fatalf("ran = %d, want %d", ran, len(jobs))
	}
}

func TestBatchReturnsFirstError(t *testing.T) {
	p := New()
	boom := errors.New("boom")
	jobs := []Job{
		func() error { return nil },
		func() error { return boom },
	}
	if err := p.Batch(jobs); err == nil {
		t.Fatal("Batch() error = nil, want boom")
	}
}
