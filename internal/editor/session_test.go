package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// memRepo is an in-memory repository holding encoded states.
type memRepo struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func newMemRepo() *memRepo {
	return &memRepo{data: make(map[string][]byte)}
}

func (r *memRepo) Load(_ context.Context, key string) (*schedule.State, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	raw, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return schedule.DecodeState(raw)
}

func (r *memRepo) Save(_ context.Context, key string, state *schedule.State) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	raw, err := schedule.EncodeState(state)
	if err != nil {
		return err
	}
	r.data[key] = raw
	r.saves++
	return nil
}

func (r *memRepo) Close() error {
	r.closed = true
	return nil
}

func TestOpen_MissingStateUsesDefaults(t *testing.T) {
	repo := newMemRepo()
	defaults := schedule.Settings{DurationOnline: 20, DurationInPerson: 60, BufferMinutes: 5}

	s, err := Open(context.Background(), repo, "alice", defaults, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Store().Settings() != defaults {
		t.Errorf("settings = %+v, want %+v", s.Store().Settings(), defaults)
	}
	if s.Store().Len() != 0 {
		t.Errorf("len = %d, want 0", s.Store().Len())
	}
	if s.Key() != "alice" {
		t.Errorf("key = %q, want alice", s.Key())
	}
}

func TestOpen_ZeroDefaults(t *testing.T) {
	s, err := Open(context.Background(), newMemRepo(), schedule.AnonymousKey, schedule.Settings{}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Store().Settings() != schedule.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", s.Store().Settings())
	}
}

func TestOpen_MalformedStateUsesDefaults(t *testing.T) {
	repo := newMemRepo()
	repo.data["bob"] = []byte("{broken")

	s, err := Open(context.Background(), repo, "bob", schedule.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Open should recover from malformed data: %v", err)
	}
	if s.Store().Len() != 0 {
		t.Errorf("len = %d, want 0", s.Store().Len())
	}
}

func TestOpen_RepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.loadErr = errors.New("connection refused")

	if _, err := Open(context.Background(), repo, "bob", schedule.DefaultSettings(), nil); err == nil {
		t.Error("expected repository errors to be returned")
	}
}

func TestOpen_DropsInvalidBlocks(t *testing.T) {
	repo := newMemRepo()
	state := &schedule.State{
		Settings: schedule.DefaultSettings(),
		Blocks: []schedule.Block{
			{ID: "a", Weekday: schedule.Monday, Modality: schedule.ModalityOnline, StartMin: 540, EndMin: 600},
			{ID: "b", Weekday: schedule.Monday, Modality: schedule.ModalityOnline, StartMin: 570, EndMin: 630},
			{ID: "c", Weekday: schedule.Tuesday, Modality: schedule.ModalityOnline, StartMin: 600, EndMin: 600},
			{ID: "d", Weekday: schedule.Tuesday, Modality: schedule.ModalityInPerson, StartMin: 600, EndMin: 660},
		},
	}
	if err := repo.Save(context.Background(), "k", state); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	s, err := Open(context.Background(), repo, "k", schedule.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Store().Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Store().Len())
	}
	for _, id := range []string{"a", "d"} {
		if _, ok := s.Store().Block(id); !ok {
			t.Errorf("block %q should survive with its id", id)
		}
	}
}

func TestSession_SaveRoundTrip(t *testing.T) {
	repo := newMemRepo()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	ctx := context.Background()

	s, err := Open(ctx, repo, "k", schedule.DefaultSettings(), nil, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	mustAdd(t, s.Store(), schedule.Friday, schedule.ModalityInPerson, 600, 720)
	s.Store().SetSettings(schedule.Settings{DurationOnline: 25, DurationInPerson: 40, BufferMinutes: 10})

	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := repo.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !stored.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", stored.UpdatedAt, now)
	}

	reopened, err := Open(ctx, repo, "k", schedule.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.Store().Blocks(); len(got) != 1 || got[0].StartMin != 600 || got[0].EndMin != 720 {
		t.Errorf("blocks = %v, want one fri 10:00-12:00 block", got)
	}
	if reopened.Store().Settings().BufferMinutes != 10 {
		t.Errorf("settings = %+v, want stored settings", reopened.Store().Settings())
	}
}

func TestSession_SaveSnapshotIsolation(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	s, err := Open(ctx, repo, "k", schedule.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	mustAdd(t, s.Store(), schedule.Monday, schedule.ModalityOnline, 60, 120)
	snap := s.Snapshot()

	// Mutations after the snapshot are not part of it.
	mustAdd(t, s.Store(), schedule.Monday, schedule.ModalityOnline, 200, 300)

	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	stored, _ := repo.Load(ctx, "k")
	if len(stored.Blocks) != 1 {
		t.Errorf("stored %d blocks, want 1", len(stored.Blocks))
	}
}

func TestSession_SaveError(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()
	s, _ := Open(ctx, repo, "k", schedule.DefaultSettings(), nil)
	repo.saveErr = fmt.Errorf("disk full")

	if err := s.Save(ctx); err == nil {
		t.Error("expected save error")
	}
	if err := s.Close(); err != nil || !repo.closed {
		t.Errorf("Close = %v, closed = %v", err, repo.closed)
	}
}

func TestSession_WithStoreOptions(t *testing.T) {
	s, err := Open(context.Background(), newMemRepo(), "k", schedule.DefaultSettings(), nil,
		WithStoreOptions(schedule.WithIDGenerator(func() string { return "fixed" })))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	b := mustAdd(t, s.Store(), schedule.Monday, schedule.ModalityOnline, 0, 60)
	if b.ID != "fixed" {
		t.Errorf("id = %q, want fixed", b.ID)
	}
}
