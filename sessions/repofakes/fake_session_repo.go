package fakesessionrepo

import (
	"context"
	"sync"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory Repo. Failures can be injected per operation.
type FakeSessionRepo struct {
	values map[string][]byte
	lock   sync.RWMutex

	GetErr    error
	PutErr    error
	DeleteErr error
	Deletes   int
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values: make(map[string][]byte),
	}
}

func (sr *FakeSessionRepo) Get(_ context.Context, key string) ([]byte, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.GetErr != nil {
		return nil, sr.GetErr
	}
	value, ok := sr.values[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (sr *FakeSessionRepo) Put(_ context.Context, key string, value []byte) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.PutErr != nil {
		return sr.PutErr
	}
	sr.values[key] = append([]byte(nil), value...)
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, key string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.Deletes++
	if sr.DeleteErr != nil {
		return sr.DeleteErr
	}
	delete(sr.values, key)
	return nil
}

// Seed stores raw bytes under key, bypassing serialization.
func (sr *FakeSessionRepo) Seed(key string, raw []byte) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.values[key] = raw
}

// Raw returns the bytes stored under key.
func (sr *FakeSessionRepo) Raw(key string) ([]byte, bool) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	value, ok := sr.values[key]
	return value, ok
}
