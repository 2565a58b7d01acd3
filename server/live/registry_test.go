package live_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/riskdesk/poller"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/jrsteele09/riskdesk/server/live"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	lock   sync.Mutex
	calls  map[string]int
	status func(id string, call int) (predictions.Status, error)
}

func (f *countingFetcher) GetPrediction(_ context.Context, id string) (*predictions.Job, error) {
	f.lock.Lock()
	f.calls[id]++
	n := f.calls[id]
	f.lock.Unlock()

	status, err := f.status(id, n)
	if err != nil {
		return nil, err
	}
	return &predictions.Job{PredictionID: id, Status: status}, nil
}

func (f *countingFetcher) Calls(id string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[id]
}

func newRegistry(t *testing.T, interval time.Duration, status func(string, int) (predictions.Status, error)) (*live.Registry, *countingFetcher) {
	t.Helper()
	fetcher := &countingFetcher{calls: make(map[string]int), status: status}
	p, err := poller.New(fetcher, poller.WithInterval(interval))
	require.NoError(t, err)
	r, err := live.NewRegistry(context.Background(), p, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(r.Shutdown)
	return r, fetcher
}

func next(t *testing.T, w *live.Watcher) (*predictions.Job, bool) {
	t.Helper()
	select {
	case job, ok := <-w.Updates():
		return job, ok
	case <-time.After(2 * time.Second):
		t.Fatal("no update")
		return nil, false
	}
}

func TestRegistry_CoalescesWatchers(t *testing.T) {
	r, fetcher := newRegistry(t, time.Hour, func(string, int) (predictions.Status, error) {
		return predictions.StatusPending, nil
	})

	first, err := r.Watch("p1")
	require.NoError(t, err)
	second, err := r.Watch("p1")
	require.NoError(t, err)

	job, ok := next(t, first)
	require.True(t, ok)
	require.Equal(t, predictions.StatusPending, job.Status)
	job, ok = next(t, second)
	require.True(t, ok)
	require.Equal(t, "p1", job.PredictionID)

	require.Equal(t, 1, fetcher.Calls("p1"))
	require.Equal(t, 1, r.Active())

	r.Unwatch(first)
	require.Equal(t, 1, r.Active())
	r.Unwatch(second)
	require.Equal(t, 0, r.Active())
}

func TestRegistry_FinishesWithTheJob(t *testing.T) {
	r, _ := newRegistry(t, 5*time.Millisecond, func(_ string, call int) (predictions.Status, error) {
		if call < 2 {
			return predictions.StatusPending, nil
		}
		return predictions.StatusCompleted, nil
	})

	w, err := r.Watch("p1")
	require.NoError(t, err)

	job, ok := next(t, w)
	require.True(t, ok)
	require.Equal(t, predictions.StatusPending, job.Status)
	job, ok = next(t, w)
	require.True(t, ok)
	require.Equal(t, predictions.StatusCompleted, job.Status)
	_, ok = next(t, w)
	require.False(t, ok)

	require.Eventually(t, func() bool { return r.Active() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRegistry_FirstFetchError(t *testing.T) {
	boom := errors.New("not found")
	r, _ := newRegistry(t, time.Hour, func(string, int) (predictions.Status, error) {
		return "", boom
	})

	_, err := r.Watch("missing")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, r.Active())
}

func TestRegistry_CloseAll(t *testing.T) {
	r, fetcher := newRegistry(t, time.Hour, func(string, int) (predictions.Status, error) {
		return predictions.StatusPending, nil
	})

	a, err := r.Watch("p1")
	require.NoError(t, err)
	b, err := r.Watch("p2")
	require.NoError(t, err)

	r.CloseAll()

	for _, w := range []*live.Watcher{a, b} {
		_, ok := next(t, w)
		require.True(t, ok)
		_, ok = next(t, w)
		require.False(t, ok)
	}
	require.Equal(t, 0, r.Active())

	r.Unwatch(a)

	c, err := r.Watch("p1")
	require.NoError(t, err)
	_, ok := next(t, c)
	require.True(t, ok)
	require.Equal(t, 2, fetcher.Calls("p1"))
}
