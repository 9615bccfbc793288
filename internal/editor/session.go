package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// Session binds a store to the repository entry it was loaded from.
type Session struct {
	repo   schedule.Repository
	key    string
	store  *schedule.Store
	logger *zap.Logger
	now    func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithStoreOptions passes options to the underlying store.
func WithStoreOptions(opts ...schedule.StoreOption) SessionOption {
	return func(s *Session) {
		s.store = schedule.NewStore(s.store.Settings(), opts...)
	}
}

// Open loads the state stored under key. A missing entry starts from defaults.
// A malformed entry also starts from defaults and is logged; repository
// failures are returned.
func Open(ctx context.Context, repo schedule.Repository, key string, defaults schedule.Settings, logger *zap.Logger, opts ...SessionOption) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == (schedule.Settings{}) {
		defaults = schedule.DefaultSettings()
	}

	s := &Session{
		repo:   repo,
		key:    key,
		store:  schedule.NewStore(defaults),
		logger: logger.Named("session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := repo.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, schedule.ErrMalformedState) {
			return nil, fmt.Errorf("loading schedule %q: %w", key, err)
		}
		s.logger.Warn("stored schedule is malformed, starting from defaults",
			zap.String("key", key), zap.Error(err))
		state = nil
	}

	if state == nil {
		s.store.Restore(schedule.NewState(defaults))
		s.logger.Debug("no stored schedule", zap.String("key", key))
		return s, nil
	}

	if dropped := s.store.Restore(state); dropped > 0 {
		s.logger.Warn("dropped invalid blocks from stored schedule",
			zap.String("key", key), zap.Int("dropped", dropped))
	}
	s.logger.Debug("schedule loaded",
		zap.String("key", key), zap.Int("blocks", s.store.Len()))
	return s, nil
}

// Key returns the repository key.
func (s *Session) Key() string {
	return s.key
}

// Store returns the session's block store.
func (s *Session) Store() *schedule.Store {
	return s.store
}

// Snapshot returns a copy of the current state, safe to hand to another goroutine.
func (s *Session) Snapshot() *schedule.State {
	return s.store.Snapshot()
}

// Save persists the current state.
func (s *Session) Save(ctx context.Context) error {
	return s.SaveSnapshot(ctx, s.Snapshot())
}

// SaveSnapshot stamps UpdatedAt and persists state. It does not read the store.
func (s *Session) SaveSnapshot(ctx context.Context, state *schedule.State) error {
	state.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, s.key, state); err != nil {
		return fmt.Errorf("saving schedule %q: %w", s.key, err)
	}
	s.logger.Debug("schedule saved",
		zap.String("key", s.key), zap.Int("blocks", len(state.Blocks)))
	return nil
}

// Close closes the repository.
func (s *Session) Close() error {
	return s.repo.Close()
}
