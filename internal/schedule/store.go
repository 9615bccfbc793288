package schedule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Candidate is an interval checked against the store. ID, when set, is
// excluded from the check so a block never conflicts with itself.
type Candidate struct {
	ID       string
	Weekday  Weekday
	StartMin int
	EndMin   int
}

// Store is the single source of truth for blocks and settings.
// Every mutation validates fully before applying, so a rejected call leaves
// the store exactly as it was. Store is not safe for concurrent use.
type Store struct {
	settings Settings
	blocks   []Block // sorted by weekday, then StartMin
	newID    func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator overrides the block id generator (uuid by default).
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates an empty store with the given settings.
func NewStore(settings Settings, opts ...StoreOption) *Store {
	s := &Store{
		settings: settings.Normalize(),
		blocks:   make([]Block, 0),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	return s.settings
}

// SetSettings replaces the settings. Existing blocks are not modified.
func (s *Store) SetSettings(settings Settings) {
	s.settings = settings.Normalize()
}

// Blocks returns a copy of all blocks, sorted by weekday and start.
func (s *Store) Blocks() []Block {
	return slices.Clone(s.blocks)
}

// BlocksOn returns the blocks of one weekday, sorted by start.
func (s *Store) BlocksOn(w Weekday) []Block {
	var result []Block
	for _, b := range s.blocks {
		if b.Weekday == w {
			result = append(result, b)
		}
	}
	return result
}

// Block returns the block with the given id.
func (s *Store) Block(id string) (Block, bool) {
	if i := s.index(id); i >= 0 {
		return s.blocks[i], true
	}
	return Block{}, false
}

// Len returns the number of blocks.
func (s *Store) Len() int {
	return len(s.blocks)
}

// Overlaps returns true if any other block on the candidate's weekday
// intersects [StartMin, EndMin).
func (s *Store) Overlaps(c Candidate) bool {
	_, found := s.findOverlap(c)
	return found
}

// NextStartLimit returns the smallest start of a block on w (excluding excludeID)
// that is >= afterMin, or MinutesPerDay if there is none.
func (s *Store) NextStartLimit(w Weekday, excludeID string, afterMin int) int {
	limit := MinutesPerDay
	for _, b := range s.blocks {
		if b.Weekday != w || (excludeID != "" && b.ID == excludeID) {
			continue
		}
		if b.StartMin >= afterMin && b.StartMin < limit {
			limit = b.StartMin
		}
	}
	return limit
}

// PointInsideAnyBlock reports whether minute falls within [start, end) of a block on w.
func (s *Store) PointInsideAnyBlock(w Weekday, minute int, excludeID string) bool {
	for _, b := range s.blocks {
		if b.Weekday != w || (excludeID != "" && b.ID == excludeID) {
			continue
		}
		if b.Contains(minute) {
			return true
		}
	}
	return false
}

// FirstAvailableStart snaps preferred, then scans forward in GridStep increments
// for the first free minute, wrapping to the start of the day. Returns 0 when
// the whole day is occupied.
func (s *Store) FirstAvailableStart(w Weekday, excludeID string, preferred int) int {
	start := Snap(preferred)
	for m := start; m < MinutesPerDay; m += GridStep {
		if !s.PointInsideAnyBlock(w, m, excludeID) {
			return m
		}
	}
	for m := 0; m < start; m += GridStep {
		if !s.PointInsideAnyBlock(w, m, excludeID) {
			return m
		}
	}
	return 0
}

// DefaultEnd returns the end for a new interval starting at startMin: the
// modality's duration snapped to the grid, capped by the next block and the
// end of the day.
func (s *Store) DefaultEnd(w Weekday, excludeID string, startMin int, m Modality) int {
	end := max(Snap(startMin+s.settings.DurationFor(m)), startMin+GridStep)
	return min(end, s.NextStartLimit(w, excludeID, startMin))
}

// AddBlock validates and appends a new block.
// Returns ErrInvalidInterval if end <= start after snapping and ErrOverlap if
// the interval intersects an existing block on the same weekday.
func (s *Store) AddBlock(w Weekday, m Modality, startMin, endMin int) (Block, error) {
	b := Block{
		Weekday:  w,
		Modality: m,
		StartMin: Snap(startMin),
		EndMin:   Snap(endMin),
	}
	if err := s.validate(b); err != nil {
		return Block{}, err
	}
	b.ID = s.newID()
	s.insert(b)
	return b, nil
}

// ResizeBlock moves the end of a block. newEndMin is clamped to
// [start+GridStep, NextStartLimit] so the block never crosses into the next one.
func (s *Store) ResizeBlock(id string, newEndMin int) (Block, error) {
	i := s.index(id)
	if i < 0 {
		return Block{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b := s.blocks[i]
	limit := s.NextStartLimit(b.Weekday, id, b.StartMin)
	b.EndMin = clamp(Snap(newEndMin), b.StartMin+GridStep, limit)
	if err := s.validate(b); err != nil {
		return Block{}, err
	}
	s.blocks[i] = b
	return b, nil
}

// EditBlock applies a patch atomically: the fully merged block is validated
// against every other block and either committed whole or rejected.
func (s *Store) EditBlock(id string, p Patch) (Block, error) {
	i := s.index(id)
	if i < 0 {
		return Block{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b := s.blocks[i]
	if p.Weekday != nil {
		b.Weekday = *p.Weekday
	}
	if p.Modality != nil {
		b.Modality = *p.Modality
	}
	if p.StartMin != nil {
		b.StartMin = Snap(*p.StartMin)
	}
	if p.EndMin != nil {
		b.EndMin = Snap(*p.EndMin)
	}
	if err := s.validate(b); err != nil {
		return Block{}, err
	}
	s.blocks[i] = b
	s.sort()
	return b, nil
}

// RemoveBlock deletes a block by id. Unknown ids are a no-op.
// Returns true if a block was removed.
func (s *Store) RemoveBlock(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.blocks = slices.Delete(s.blocks, i, i+1)
	return true
}

// ClearAll removes every block.
func (s *Store) ClearAll() {
	s.blocks = make([]Block, 0)
}

// Snapshot returns a deep copy of the store as a State (UpdatedAt unset).
func (s *Store) Snapshot() *State {
	return &State{
		Settings: s.settings,
		Blocks:   s.Blocks(),
	}
}

// Restore replaces the store content with state. Each block goes through the
// same validation as AddBlock, keeping its id; invalid or overlapping blocks
// are dropped. Returns the number of dropped blocks.
func (s *Store) Restore(state *State) int {
	s.blocks = make([]Block, 0)
	if state == nil {
		s.settings = DefaultSettings()
		return 0
	}
	s.settings = state.Settings.Normalize()
	if state.Settings == (Settings{}) {
		s.settings = DefaultSettings()
	}

	dropped := 0
	seen := make(map[string]bool, len(state.Blocks))
	for _, b := range state.Blocks {
		b.StartMin = Snap(b.StartMin)
		b.EndMin = Snap(b.EndMin)
		if b.ID == "" || seen[b.ID] {
			b.ID = s.newID()
		}
		if err := s.validate(b); err != nil {
			dropped++
			continue
		}
		seen[b.ID] = true
		s.insert(b)
	}
	return dropped
}

// validate checks field ranges, interval order and overlap for b.
// b.ID is excluded from the overlap check.
func (s *Store) validate(b Block) error {
	if !b.Weekday.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, b.Weekday)
	}
	if !b.Modality.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidModality, b.Modality)
	}
	if b.EndMin <= b.StartMin {
		return fmt.Errorf("%w: %s-%s", ErrInvalidInterval, MinutesToTime(b.StartMin), MinutesToTime(b.EndMin))
	}
	if other, found := s.findOverlap(Candidate{ID: b.ID, Weekday: b.Weekday, StartMin: b.StartMin, EndMin: b.EndMin}); found {
		return fmt.Errorf("%w: %s-%s conflicts with %s",
			ErrOverlap, MinutesToTime(b.StartMin), MinutesToTime(b.EndMin), other)
	}
	return nil
}

func (s *Store) findOverlap(c Candidate) (Block, bool) {
	for _, b := range s.blocks {
		if b.Weekday != c.Weekday || (c.ID != "" && b.ID == c.ID) {
			continue
		}
		if IntervalsOverlap(c.StartMin, c.EndMin, b.StartMin, b.EndMin) {
			return b, true
		}
	}
	return Block{}, false
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.blocks, func(b Block) bool { return b.ID == id })
}

func (s *Store) insert(b Block) {
	s.blocks = append(s.blocks, b)
	s.sort()
}

func (s *Store) sort() {
	slices.SortFunc(s.blocks, func(a, b Block) int {
		if c := cmp.Compare(a.Weekday, b.Weekday); c != 0 {
			return c
		}
		return cmp.Compare(a.StartMin, b.StartMin)
	})
}
