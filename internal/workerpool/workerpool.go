// package workerpool bounds CPU-side staging work (vertex/texture layout
// conversion ahead of a transfer.Engine upload) to a fixed goroutine count,
// reusing workers across frames instead of spawning one goroutine per job.
package workerpool

import (
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	defaultQueueSize = 256
	submitTimeout    = time.Second
)

// Pool runs staging jobs across a bounded worker count. Jobs submitted
// within one Batch call are joined by an internal WaitGroup rather than the
// pool's own idle-wait, which blocks until every worker exits and is
// unsuitable for a per-frame barrier.
type Pool struct {
	workers worker.DynamicWorkerPool
}

// New builds a Pool sized by the NUM_THREADS environment variable, falling
// back to runtime.NumCPU()-1 (minimum 1) when unset or invalid.
func New() *Pool {
	return &Pool{workers: worker.NewDynamicWorkerPool(workerCount(), defaultQueueSize, submitTimeout)}
}

func workerCount() int {
	if n, err := strconv.Atoi(os.Getenv("NUM_THREADS")); err == nil && n > 0 {
		return n
	}
	if n := runtime.NumCPU() - 1; n > 0 {
		return n
	}
	return 1
}

// Job is one unit of staging work; the returned value is discarded except
// to surface err, since staging jobs mutate caller-owned buffers in place
// rather than returning a result.
type Job func() error

// Batch runs jobs concurrently across the pool and blocks until every job
// completes, returning the first error encountered (if any) after all jobs
// have run.
func (p *Pool) Batch(jobs []Job) error {
	var wg sync.WaitGroup
	errs := make([]error, len(jobs))

	for i, job := range jobs {
		wg.Add(1)
		i, job := i, job
		p.workers.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				err := job()
				errs[i] = err
				return nil, err
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
