package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// Field identifies an editable field of the panel draft.
type Field int

const (
	FieldWeekday Field = iota
	FieldModality
	FieldStart
	FieldEnd
	fieldCount
)

// String returns the field label.
func (f Field) String() string {
	switch f {
	case FieldWeekday:
		return "Day"
	case FieldModality:
		return "Modality"
	case FieldStart:
		return "Start"
	case FieldEnd:
		return "End"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Next returns the following field, wrapping around.
func (f Field) Next() Field {
	return (f + 1) % fieldCount
}

// Panel is the form editor for exactly one selected block.
// Edits go to a draft and reach the store only through Apply.
type Panel struct {
	store    *schedule.Store
	selected string
	draft    schedule.Block
	errMsg   string
	logger   *zap.Logger
}

// NewPanel creates a panel with nothing selected.
func NewPanel(store *schedule.Store, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{
		store:  store,
		logger: logger.Named("panel"),
	}
}

// Selected returns the id of the selected block, or "" if none.
func (p *Panel) Selected() string {
	return p.selected
}

// HasSelection returns true if a block is selected.
func (p *Panel) HasSelection() bool {
	return p.selected != ""
}

// Draft returns the editable copy of the selected block.
func (p *Panel) Draft() schedule.Block {
	return p.draft
}

// Error returns the last user-facing error, or "" after a successful apply.
func (p *Panel) Error() string {
	return p.errMsg
}

// Select snapshots the block's fields into the draft.
func (p *Panel) Select(id string) error {
	b, ok := p.store.Block(id)
	if !ok {
		return fmt.Errorf("%w: %s", schedule.ErrNotFound, id)
	}
	p.selected = id
	p.draft = b
	p.errMsg = ""
	return nil
}

// Deselect clears the selection and draft.
func (p *Panel) Deselect() {
	p.selected = ""
	p.draft = schedule.Block{}
	p.errMsg = ""
}

// Refresh re-reads the selected block after an external change such as a
// live resize. The selection is dropped if the block no longer exists.
func (p *Panel) Refresh() {
	if p.selected == "" {
		return
	}
	b, ok := p.store.Block(p.selected)
	if !ok {
		p.Deselect()
		return
	}
	p.draft = b
}

// SetWeekday moves the draft to another weekday, re-deriving start and end so
// the draft does not land inside another block.
func (p *Panel) SetWeekday(w schedule.Weekday) {
	if !p.HasSelection() || !w.Valid() {
		return
	}
	p.draft.Weekday = w
	p.rederive(p.store.FirstAvailableStart(w, p.selected, p.draft.StartMin))
}

// SetModality changes the draft modality, re-deriving start and end.
func (p *Panel) SetModality(m schedule.Modality) {
	if !p.HasSelection() || !m.Valid() {
		return
	}
	p.draft.Modality = m
	p.rederive(p.store.FirstAvailableStart(p.draft.Weekday, p.selected, p.draft.StartMin))
}

// SetStart sets the draft start and re-derives the end from the default duration.
func (p *Panel) SetStart(startMin int) {
	if !p.HasSelection() {
		return
	}
	p.rederive(schedule.Snap(startMin))
}

// SetEnd sets the draft end without constraints; Apply validates it.
func (p *Panel) SetEnd(endMin int) {
	if !p.HasSelection() {
		return
	}
	p.draft.EndMin = endMin
}

// Step moves the focused field one option forward (delta > 0) or back.
// Times move by one grid step.
func (p *Panel) Step(f Field, delta int) {
	if !p.HasSelection() || delta == 0 {
		return
	}
	switch f {
	case FieldWeekday:
		w := (int(p.draft.Weekday) + delta) % schedule.DaysPerWeek
		if w < 0 {
			w += schedule.DaysPerWeek
		}
		p.SetWeekday(schedule.Weekday(w))
	case FieldModality:
		p.SetModality(p.draft.Modality.Toggle())
	case FieldStart:
		start := p.draft.StartMin + delta*schedule.GridStep
		if start < 0 || start >= schedule.MinutesPerDay {
			return
		}
		p.SetStart(start)
	case FieldEnd:
		end := p.draft.EndMin + delta*schedule.GridStep
		if end <= 0 || end > schedule.MinutesPerDay {
			return
		}
		p.SetEnd(end)
	}
}

// Apply snaps the draft and commits it through the store. On failure the
// stored block is untouched, the draft is kept and Error reports why.
func (p *Panel) Apply() (schedule.Block, error) {
	if !p.HasSelection() {
		return schedule.Block{}, fmt.Errorf("%w: nothing selected", schedule.ErrNotFound)
	}

	start := schedule.Snap(p.draft.StartMin)
	end := schedule.Snap(p.draft.EndMin)
	if end <= start {
		p.errMsg = schedule.MsgInvalidInterval
		return schedule.Block{}, fmt.Errorf("%w: %s-%s",
			schedule.ErrInvalidInterval, schedule.MinutesToTime(start), schedule.MinutesToTime(end))
	}

	w, m := p.draft.Weekday, p.draft.Modality
	b, err := p.store.EditBlock(p.selected, schedule.Patch{
		Weekday:  &w,
		Modality: &m,
		StartMin: &start,
		EndMin:   &end,
	})
	if err != nil {
		p.errMsg = messageFor(err)
		p.logger.Debug("apply rejected", zap.String("block", p.selected), zap.Error(err))
		if errors.Is(err, schedule.ErrNotFound) {
			p.Deselect()
			p.errMsg = messageFor(err)
		}
		return schedule.Block{}, err
	}

	p.draft = b
	p.errMsg = ""
	p.logger.Debug("block edited", zap.String("block", b.ID), zap.Stringer("interval", b))
	return b, nil
}

// DeleteSelected removes the selected block and clears the selection.
// Returns true if a block was removed.
func (p *Panel) DeleteSelected() bool {
	if !p.HasSelection() {
		return false
	}
	id := p.selected
	removed := p.store.RemoveBlock(id)
	p.Deselect()
	p.logger.Debug("block deleted", zap.String("block", id), zap.Bool("removed", removed))
	return removed
}

// AddNew creates a block on w at the first free start at or after preferred,
// with the modality's default length, and selects it.
func (p *Panel) AddNew(w schedule.Weekday, m schedule.Modality, preferred int) (schedule.Block, error) {
	start := p.store.FirstAvailableStart(w, "", preferred)
	if p.store.PointInsideAnyBlock(w, start, "") {
		p.errMsg = schedule.MsgOverlap
		return schedule.Block{}, fmt.Errorf("%w: no free time on %s", schedule.ErrOverlap, w)
	}
	end := p.store.DefaultEnd(w, "", start, m)

	b, err := p.store.AddBlock(w, m, start, end)
	if err != nil {
		p.errMsg = messageFor(err)
		return schedule.Block{}, err
	}
	if err := p.Select(b.ID); err != nil {
		return schedule.Block{}, err
	}
	p.logger.Debug("block added", zap.String("block", b.ID), zap.Stringer("interval", b))
	return b, nil
}

// rederive sets the draft start and a fresh default end for its modality.
func (p *Panel) rederive(startMin int) {
	p.draft.StartMin = startMin
	p.draft.EndMin = p.store.DefaultEnd(p.draft.Weekday, p.selected, startMin, p.draft.Modality)
}
