// Package editor drives interactive editing of a schedule: pointer gestures,
// the side panel and the load/save session around a schedule.Store.
package editor

import (
	"errors"

	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/timegrid"
)

// Operation is the in-progress gesture. It is one of Idle, Creating or Resizing,
// so dragging and resizing at the same time cannot be represented.
type Operation interface {
	operation()
}

// Idle means no gesture is in progress.
type Idle struct{}

// Creating holds the draft of a block being dragged out on empty grid space.
// Modality is fixed when the drag starts.
type Creating struct {
	Weekday  schedule.Weekday
	Modality schedule.Modality
	StartMin int
	EndMin   int
	Track    timegrid.Track
}

// Resizing tracks a live resize of an existing block's end.
type Resizing struct {
	BlockID  string
	Weekday  schedule.Weekday
	StartMin int
	EndMin   int
	Track    timegrid.Track
}

func (Idle) operation()     {}
func (Creating) operation() {}
func (Resizing) operation() {}

// ResultKind classifies what a pointer event did.
type ResultKind int

const (
	ResultIgnored   ResultKind = iota // event did not apply to the current state
	ResultStarted                     // a gesture began
	ResultUpdated                     // the draft or resized block changed
	ResultCommitted                   // a new block was stored, or a resize finished
	ResultDiscarded                   // the draft was dropped silently
	ResultRejected                    // the gesture was refused; Message explains why
)

// Result reports the outcome of a pointer event.
type Result struct {
	Kind    ResultKind
	Block   schedule.Block // draft, resized or committed block
	Message string         // user-facing message for rejections
	Err     error
}

// Controller is the drag-to-create and drag-to-resize state machine.
// It owns the single in-progress operation and funnels every mutation
// through the store.
type Controller struct {
	store  *schedule.Store
	op     Operation
	logger *zap.Logger
}

// NewController creates an idle controller over store.
func NewController(store *schedule.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:  store,
		op:     Idle{},
		logger: logger.Named("controller"),
	}
}

// Operation returns the current operation.
func (c *Controller) Operation() Operation {
	return c.op
}

// IsIdle returns true if no gesture is in progress.
func (c *Controller) IsIdle() bool {
	_, ok := c.op.(Idle)
	return ok
}

// Draft returns the unpersisted block being created, if any.
func (c *Controller) Draft() (schedule.Block, bool) {
	op, ok := c.op.(Creating)
	if !ok {
		return schedule.Block{}, false
	}
	return schedule.Block{
		Weekday:  op.Weekday,
		Modality: op.Modality,
		StartMin: op.StartMin,
		EndMin:   op.EndMin,
	}, true
}

// BeginCreate starts dragging out a new block at coordinate y on weekday w.
// Pressing inside an existing block is rejected with MsgClickToEdit.
func (c *Controller) BeginCreate(w schedule.Weekday, m schedule.Modality, y float64, track timegrid.Track) Result {
	if !c.IsIdle() {
		return Result{Kind: ResultIgnored}
	}
	if !w.Valid() || !m.Valid() {
		return Result{Kind: ResultIgnored}
	}

	start := track.Minutes(y)
	if c.store.PointInsideAnyBlock(w, start, "") {
		c.logger.Debug("create rejected: inside block",
			zap.Stringer("weekday", w), zap.Int("start", start))
		return Result{Kind: ResultRejected, Message: schedule.MsgClickToEdit}
	}

	op := Creating{
		Weekday:  w,
		Modality: m,
		StartMin: start,
		EndMin:   c.store.DefaultEnd(w, "", start, m),
		Track:    track,
	}
	c.op = op
	c.logger.Debug("create started",
		zap.Stringer("weekday", w), zap.String("modality", string(m)),
		zap.Int("start", op.StartMin), zap.Int("end", op.EndMin))

	draft, _ := c.Draft()
	return Result{Kind: ResultStarted, Block: draft}
}

// BeginResize starts resizing the end of an existing block.
func (c *Controller) BeginResize(blockID string, track timegrid.Track) Result {
	if !c.IsIdle() {
		return Result{Kind: ResultIgnored}
	}
	b, ok := c.store.Block(blockID)
	if !ok {
		return Result{Kind: ResultRejected, Err: schedule.ErrNotFound}
	}

	c.op = Resizing{
		BlockID:  b.ID,
		Weekday:  b.Weekday,
		StartMin: b.StartMin,
		EndMin:   b.EndMin,
		Track:    track,
	}
	c.logger.Debug("resize started", zap.String("block", b.ID), zap.Int("end", b.EndMin))
	return Result{Kind: ResultStarted, Block: b}
}

// Move updates the active gesture with the pointer at coordinate y.
// While resizing, the store is updated on every move.
func (c *Controller) Move(y float64) Result {
	switch op := c.op.(type) {
	case Creating:
		limit := c.store.NextStartLimit(op.Weekday, "", op.StartMin)
		op.EndMin = clampEnd(op.Track.Minutes(y), op.StartMin, limit)
		c.op = op
		draft, _ := c.Draft()
		return Result{Kind: ResultUpdated, Block: draft}

	case Resizing:
		limit := c.store.NextStartLimit(op.Weekday, op.BlockID, op.StartMin)
		end := clampEnd(op.Track.Minutes(y), op.StartMin, limit)
		b, err := c.store.ResizeBlock(op.BlockID, end)
		if err != nil {
			// The block vanished or the move was refused; the store keeps
			// the last valid end.
			c.logger.Debug("resize move rejected", zap.String("block", op.BlockID), zap.Error(err))
			if errors.Is(err, schedule.ErrNotFound) {
				c.op = Idle{}
			}
			return Result{Kind: ResultRejected, Err: err, Message: messageFor(err)}
		}
		op.EndMin = b.EndMin
		c.op = op
		return Result{Kind: ResultUpdated, Block: b}

	default:
		return Result{Kind: ResultIgnored}
	}
}

// End finishes the active gesture (pointer up). A create draft is committed
// through the store; a resize was already committed live.
func (c *Controller) End() Result {
	switch op := c.op.(type) {
	case Creating:
		c.op = Idle{}
		if op.EndMin <= op.StartMin {
			c.logger.Debug("create discarded: empty draft", zap.Int("start", op.StartMin))
			return Result{Kind: ResultDiscarded}
		}
		b, err := c.store.AddBlock(op.Weekday, op.Modality, op.StartMin, op.EndMin)
		if err != nil {
			c.logger.Debug("create rejected", zap.Error(err))
			return Result{Kind: ResultRejected, Err: err, Message: messageFor(err)}
		}
		c.logger.Debug("block created", zap.String("block", b.ID), zap.Stringer("interval", b))
		return Result{Kind: ResultCommitted, Block: b}

	case Resizing:
		c.op = Idle{}
		b, ok := c.store.Block(op.BlockID)
		if !ok {
			return Result{Kind: ResultDiscarded}
		}
		c.logger.Debug("resize finished", zap.String("block", b.ID), zap.Int("end", b.EndMin))
		return Result{Kind: ResultCommitted, Block: b}

	default:
		return Result{Kind: ResultIgnored}
	}
}

// Cancel discards any transient state. Live resizes keep their last valid end.
func (c *Controller) Cancel() {
	if !c.IsIdle() {
		c.logger.Debug("gesture cancelled")
	}
	c.op = Idle{}
}

// clampEnd bounds a candidate end to [start+GridStep, limit]; limit wins.
func clampEnd(end, start, limit int) int {
	end = max(end, start+schedule.GridStep)
	return min(end, limit)
}

// messageFor maps store errors to short user-facing messages.
func messageFor(err error) string {
	switch {
	case errors.Is(err, schedule.ErrOverlap):
		return schedule.MsgOverlap
	case errors.Is(err, schedule.ErrInvalidInterval):
		return schedule.MsgInvalidInterval
	case errors.Is(err, schedule.ErrNotFound):
		return "Block no longer exists"
	default:
		return err.Error()
	}
}
