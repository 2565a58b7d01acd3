package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the delay between the end of one fetch and the start of the next.
const DefaultInterval = 3 * time.Second

// ErrPollingExhausted is reported by Task.Err when MaxAttempts fetches never reached a terminal status.
var ErrPollingExhausted = errs.ErrPollingExhausted

// ErrUnexpectedStatus is reported by Task.Err when a job is neither pending nor terminal.
var ErrUnexpectedStatus = fmt.Errorf("unexpected prediction status: %w", errs.ErrInvalidResponse)

// Fetcher reads the current state of one prediction job.
type Fetcher interface {
	GetPrediction(ctx context.Context, predictionID string) (*predictions.Job, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, predictionID string) (*predictions.Job, error)

func (f FetcherFunc) GetPrediction(ctx context.Context, predictionID string) (*predictions.Job, error) {
	return f(ctx, predictionID)
}

// Poller watches prediction jobs until they reach a terminal status.
type Poller struct {
	fetcher     Fetcher
	interval    time.Duration
	maxAttempts int
	onError     func(jobID string, err error)
	logger      zerolog.Logger
}

// Option defines a function type to modify the Poller instance.
type Option func(*Poller)

// WithInterval sets the delay between fetches (default 3s)
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithMaxAttempts bounds the number of fetches per task, 0 means unbounded
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		p.maxAttempts = n
	}
}

// WithOnError is called for every fetch error the loop swallows
func WithOnError(fn func(jobID string, err error)) Option {
	return func(p *Poller) {
		p.onError = fn
	}
}

// WithLogger sets the poller's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

func New(fetcher Fetcher, options ...Option) (*Poller, error) {
	if fetcher == nil {
		return nil, errors.New("[poller New] fetcher is required")
	}
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   log.Logger,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.interval <= 0 {
		return nil, errors.New("[poller New] interval must be positive")
	}
	if p.maxAttempts < 0 {
		return nil, errors.New("[poller New] max attempts must not be negative")
	}
	return p, nil
}

// Observe fetches jobID once and reports it through onUpdate. An error from that first
// fetch is returned and nothing is started. Otherwise the job is fetched again every
// interval while it is PENDING, until the task is cancelled or ctx is done. Any other
// status ends the task, with ErrUnexpectedStatus when it is not terminal.
// onUpdate is never called concurrently with itself for one task.
func (p *Poller) Observe(ctx context.Context, jobID string, onUpdate func(*predictions.Job)) (*Task, error) {
	if onUpdate == nil {
		onUpdate = func(*predictions.Job) {}
	}

	job, err := p.fetch(ctx, jobID)
	if err != nil {
		return nil, errs.Wrapf(err, "[Observe] loading prediction %s", jobID)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := newTask(jobID, cancel)
	task.setLast(job)
	onUpdate(job)

	if p.settle(task, job) {
		return task, nil
	}
	if p.exhausted(1) {
		task.finish(ErrPollingExhausted)
		return task, nil
	}

	go p.run(taskCtx, task, onUpdate)
	return task, nil
}

func (p *Poller) run(ctx context.Context, task *Task, onUpdate func(*predictions.Job)) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	attempts := 1
	for {
		select {
		case <-ctx.Done():
			task.finish(task.stopReason(ctx))
			return
		case <-timer.C:
		}

		attempts++
		// In-flight requests are not cancelled, their result is dropped below instead.
		job, err := p.fetch(context.WithoutCancel(ctx), task.JobID)
		if ctx.Err() != nil {
			task.finish(task.stopReason(ctx))
			return
		}

		if err != nil {
			p.logger.Warn().Err(err).Str("predictionId", task.JobID).Int("attempt", attempts).Msg("Prediction poll failed, retrying")
			if p.onError != nil {
				p.onError(task.JobID, err)
			}
		} else {
			task.setLast(job)
			onUpdate(job)
			if p.settle(task, job) {
				return
			}
		}

		if p.exhausted(attempts) {
			p.logger.Warn().Str("predictionId", task.JobID).Int("attempts", attempts).Msg("Giving up on prediction")
			task.finish(ErrPollingExhausted)
			return
		}
		timer.Reset(p.interval)
	}
}

// settle finishes task unless job is still pending. Only PENDING is polled again.
func (p *Poller) settle(task *Task, job *predictions.Job) bool {
	switch {
	case job.Pending():
		return false
	case job.Terminal():
		p.logger.Debug().Str("predictionId", task.JobID).Str("status", string(job.Status)).Msg("Prediction finished")
		task.finish(nil)
	default:
		p.logger.Warn().Str("predictionId", task.JobID).Str("status", string(job.Status)).Msg("Prediction reported an unexpected status, stopping")
		task.finish(errs.Wrapf(ErrUnexpectedStatus, "prediction %s reported %q", task.JobID, job.Status))
	}
	return true
}

func (p *Poller) fetch(ctx context.Context, jobID string) (*predictions.Job, error) {
	job, err := p.fetcher.GetPrediction(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errs.Wrapf(errs.ErrInvalidResponse, "empty prediction %s", jobID)
	}
	return job, nil
}

func (p *Poller) exhausted(attempts int) bool {
	return p.maxAttempts > 0 && attempts >= p.maxAttempts
}
