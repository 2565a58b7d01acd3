package memrepo

import (
	"context"
	"fmt"
	"sync"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/sessions"
)

var _ sessions.Repo = (*InMemorySessionRepo)(nil)

// InMemorySessionRepo keeps session records for the life of the process.
type InMemorySessionRepo struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewInMemorySessionRepo creates a new in-memory session repository
func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{
		records: make(map[string][]byte),
	}
}

func (r *InMemorySessionRepo) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.records[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Put stores a copy of value so later changes by the caller are not seen
func (r *InMemorySessionRepo) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = append([]byte(nil), value...)
	return nil
}

func (r *InMemorySessionRepo) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
	return nil
}
