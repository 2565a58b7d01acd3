package live

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/riskdesk/poller"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/rs/zerolog"
)

const sendBufferSize = 8

// Observer starts polling one prediction. *poller.Poller satisfies it.
type Observer interface {
	Observe(ctx context.Context, jobID string, onUpdate func(*predictions.Job)) (*poller.Task, error)
}

// Registry shares one poll task between every watcher of the same prediction.
// A task is cancelled when its last watcher leaves.
type Registry struct {
	ctx      context.Context
	cancel   context.CancelFunc
	observer Observer
	logger   zerolog.Logger

	mu    sync.Mutex
	feeds map[string]*feed
}

// Watcher receives the updates of one prediction until the job finishes or it is removed.
type Watcher struct {
	ID   string
	send chan *predictions.Job
	feed *feed
}

// Updates is closed when no more updates will arrive.
func (w *Watcher) Updates() <-chan *predictions.Job {
	return w.send
}

type feed struct {
	predictionID string
	task         *poller.Task

	mu       sync.Mutex
	watchers map[*Watcher]struct{}
	last     *predictions.Job
	closed   bool
}

// NewRegistry creates a Registry whose tasks live until ctx ends or CloseAll is called.
func NewRegistry(ctx context.Context, observer Observer, logger zerolog.Logger) (*Registry, error) {
	if observer == nil {
		return nil, errors.New("[live NewRegistry] observer is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Registry{
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
		logger:   logger,
		feeds:    make(map[string]*feed),
	}, nil
}

// Watch subscribes to a prediction. The first watcher of an id starts polling, and an error
// loading the prediction is returned to it.
func (r *Registry) Watch(predictionID string) (*Watcher, error) {
	r.mu.Lock()
	f, exists := r.feeds[predictionID]
	if !exists {
		f = &feed{predictionID: predictionID, watchers: make(map[*Watcher]struct{})}
		r.feeds[predictionID] = f
	}
	r.mu.Unlock()

	w := f.add()
	if w == nil {
		// The feed finished between lookup and subscribe, start a fresh one.
		r.remove(f)
		return r.Watch(predictionID)
	}
	if exists {
		return w, nil
	}

	task, err := r.observer.Observe(r.ctx, predictionID, f.publish)
	if err != nil {
		r.remove(f)
		f.close()
		return nil, err
	}
	f.mu.Lock()
	f.task = task
	abandoned := f.closed
	f.mu.Unlock()
	if abandoned {
		task.Cancel()
	}

	r.logger.Debug().Str("predictionId", predictionID).Msg("Live feed started")
	go r.reap(f, task)
	return w, nil
}

// Unwatch removes w. Removing the last watcher of a prediction stops its polling.
func (r *Registry) Unwatch(w *Watcher) {
	f := w.feed
	if empty := f.drop(w); !empty {
		return
	}
	r.remove(f)
	f.mu.Lock()
	task := f.task
	f.mu.Unlock()
	if task != nil {
		task.Cancel()
	}
	f.close()
}

// CloseAll stops every feed and closes every watcher. Later Watch calls start afresh.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	feeds := r.feeds
	r.feeds = make(map[string]*feed)
	r.mu.Unlock()

	for _, f := range feeds {
		f.mu.Lock()
		task := f.task
		f.mu.Unlock()
		if task != nil {
			task.Cancel()
		}
		f.close()
	}
	if len(feeds) > 0 {
		r.logger.Info().Int("feeds", len(feeds)).Msg("Live feeds closed")
	}
}

// Shutdown closes all feeds and prevents new polling.
func (r *Registry) Shutdown() {
	r.cancel()
	r.CloseAll()
}

// Active returns the number of predictions being polled.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.feeds)
}

func (r *Registry) reap(f *feed, task *poller.Task) {
	<-task.Done()
	if err := task.Err(); err != nil {
		r.logger.Warn().Err(err).Str("predictionId", f.predictionID).Msg("Live feed ended early")
	}
	r.remove(f)
	f.close()
}

func (r *Registry) remove(f *feed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.feeds[f.predictionID] == f {
		delete(r.feeds, f.predictionID)
	}
}

func (f *feed) add() *Watcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	w := &Watcher{ID: uuid.NewString(), send: make(chan *predictions.Job, sendBufferSize), feed: f}
	f.watchers[w] = struct{}{}
	if f.last != nil {
		w.send <- f.last
	}
	return w
}

// drop removes w and reports whether the feed has no watchers left.
func (f *feed) drop(w *Watcher) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.watchers[w]; ok {
		delete(f.watchers, w)
		close(w.send)
	}
	return len(f.watchers) == 0 && !f.closed
}

func (f *feed) publish(job *predictions.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = job
	for w := range f.watchers {
		select {
		case w.send <- job:
		default:
			// Slow watcher: drop its oldest update so the latest state always lands.
			select {
			case <-w.send:
			default:
			}
			select {
			case w.send <- job:
			default:
			}
		}
	}
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for w := range f.watchers {
		delete(f.watchers, w)
		close(w.send)
	}
}
