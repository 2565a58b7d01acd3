package poller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/riskdesk/predictions"
)

// Task is one running observation of a job.
type Task struct {
	JobID string

	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
	finished  sync.Once

	lock sync.RWMutex
	last *predictions.Job
	err  error
}

func newTask(jobID string, cancel context.CancelFunc) *Task {
	return &Task{
		JobID:  jobID,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Cancel stops scheduling further fetches. It does not wait for a fetch in flight, whose
// result is discarded. Calling it more than once is harmless.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Done is closed once the task will make no further calls.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Last returns the most recently observed job.
func (t *Task) Last() *predictions.Job {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.last
}

// Err is nil when the job finished or the task was cancelled, ErrPollingExhausted when it
// gave up, ErrUnexpectedStatus when the job left PENDING for an unknown status, or the
// context's error when the parent context ended. Only valid after Done.
func (t *Task) Err() error {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.err
}

func (t *Task) setLast(job *predictions.Job) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.last = job
}

func (t *Task) finish(err error) {
	t.finished.Do(func() {
		t.lock.Lock()
		t.err = err
		t.lock.Unlock()
		t.cancel()
		close(t.done)
	})
}

func (t *Task) stopReason(ctx context.Context) error {
	if t.cancelled.Load() {
		return nil
	}
	return ctx.Err()
}
