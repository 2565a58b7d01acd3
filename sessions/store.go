package sessions

import (
	"context"
	"encoding/json"
	"errors"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StorageKey is the well known key the session record lives under.
const StorageKey = "authData"

// ErrCorruptedSession is returned by Load when stored bytes were present but unusable.
// The entry has already been removed when this is returned.
var ErrCorruptedSession = errs.ErrCorruptedSession

// Store persists at most one AuthSession over a Repo.
type Store struct {
	repo   Repo
	key    string
	sealer Sealer
	logger zerolog.Logger
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithKey overrides the storage key (default StorageKey)
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

// WithSealer encrypts the record at rest
func WithSealer(sealer Sealer) StoreOption {
	return func(s *Store) {
		s.sealer = sealer
	}
}

// WithLogger sets the logger used for corruption reports
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store over repo.
func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}
	s := &Store{
		repo:   repo,
		key:    StorageKey,
		sealer: plainSealer{},
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.key == "" {
		return nil, errors.New("[NewStore] storage key must not be empty")
	}
	return s, nil
}

// Save overwrites the persisted record with the full session.
func (s *Store) Save(ctx context.Context, session *AuthSession) error {
	if err := session.Validate(); err != nil {
		return errs.Wrapf(err, "[Store Save] refusing to persist")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return errs.Wrapf(err, "[Store Save] marshal")
	}
	sealed, err := s.sealer.Seal(data)
	if err != nil {
		return errs.Wrapf(err, "[Store Save] seal")
	}
	if err := s.repo.Put(ctx, s.key, sealed); err != nil {
		return errs.Wrapf(err, "[Store Save] put")
	}
	return nil
}

// Load returns the persisted session, or nil when none is stored.
// Unreadable records are deleted and reported as ErrCorruptedSession, so the next Load reports nil.
func (s *Store) Load(ctx context.Context) (*AuthSession, error) {
	raw, err := s.repo.Get(ctx, s.key)
	if errs.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrapf(err, "[Store Load] get")
	}

	session, decodeErr := s.decode(raw)
	if decodeErr == nil {
		return session, nil
	}

	s.logger.Warn().Err(decodeErr).Str("key", s.key).Msg("Discarding corrupted session record")
	corrupted := errs.Wrapf(ErrCorruptedSession, "[Store Load] %v", decodeErr)
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return nil, errors.Join(corrupted, errs.Wrapf(err, "[Store Load] delete corrupted record"))
	}
	return nil, corrupted
}

// Clear removes the persisted session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil && !errs.Is(err, errs.ErrNotFound) {
		return errs.Wrapf(err, "[Store Clear] delete")
	}
	return nil
}

func (s *Store) decode(raw []byte) (*AuthSession, error) {
	data, err := s.sealer.Open(raw)
	if err != nil {
		return nil, err
	}
	session := &AuthSession{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}
