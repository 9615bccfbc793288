package tui

import (
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/timegrid"
)

const (
	timeColWidth    = 6
	panelWidth      = 30
	minColWidth     = 5
	headerHeight    = 2 // title + day labels
	footerMinHeight = 4
	footerShortH    = 2
	defaultRowMins  = 30
)

// rowMinuteOptions are the minutes one grid row may represent, finest first.
var rowMinuteOptions = []int{10, 15, 20, 30}

// Layout is the screen geometry for one terminal size. All coordinates are
// terminal cells, y growing downwards.
type Layout struct {
	Width      int
	Height     int
	ColWidth   int // width of one day column
	PanelW     int // side panel width, 0 when hidden
	GridTop    int // screen row of the first visible grid row
	GridH      int // visible grid rows
	FooterH    int
	RowMinutes int // minutes represented by one row
	Rows       int // rows for the whole day
}

// computeLayout sizes the grid for a terminal. The finest row resolution that
// shows the whole day is used; otherwise rows are 30 minutes and the grid scrolls.
func computeLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height, GridTop: headerHeight}

	if width >= timeColWidth+schedule.DaysPerWeek*minColWidth+panelWidth {
		l.PanelW = panelWidth
	}
	l.ColWidth = max(1, (width-timeColWidth-l.PanelW)/schedule.DaysPerWeek)

	l.FooterH = footerMinHeight
	if height < 20 {
		l.FooterH = footerShortH
	}
	l.GridH = max(0, height-headerHeight-l.FooterH)

	l.RowMinutes = defaultRowMins
	for _, opt := range rowMinuteOptions {
		if schedule.MinutesPerDay/opt <= l.GridH {
			l.RowMinutes = opt
			break
		}
	}
	l.Rows = schedule.MinutesPerDay / l.RowMinutes
	return l
}

// GridWidth is the width of the time column plus all day columns.
func (l Layout) GridWidth() int {
	return timeColWidth + l.ColWidth*schedule.DaysPerWeek
}

// MaxScroll is the largest valid scroll offset in rows.
func (l Layout) MaxScroll() int {
	return max(0, l.Rows-l.GridH)
}

// DayAt returns the weekday column under screen column x.
func (l Layout) DayAt(x int) (schedule.Weekday, bool) {
	if x < timeColWidth || l.ColWidth <= 0 {
		return 0, false
	}
	d := (x - timeColWidth) / l.ColWidth
	if d >= schedule.DaysPerWeek {
		return 0, false
	}
	return schedule.Weekday(d), true
}

// RowAt returns the absolute day row under screen row y for a scroll offset.
func (l Layout) RowAt(y, scroll int) (int, bool) {
	r := y - l.GridTop
	if r < 0 || r >= l.GridH {
		return 0, false
	}
	row := r + scroll
	if row >= l.Rows {
		return 0, false
	}
	return row, true
}

// Track is the day column geometry in screen rows: 00:00 sits at the top of
// absolute row 0 and 24:00 at the bottom of the last row.
func (l Layout) Track(scroll int) timegrid.Track {
	return timegrid.Track{
		Origin: float64(l.GridTop - scroll),
		Height: float64(l.Rows),
	}
}

// RowSpan returns the minutes [start, end) covered by an absolute row.
func (l Layout) RowSpan(row int) (int, int) {
	start := row * l.RowMinutes
	return start, min(start+l.RowMinutes, schedule.MinutesPerDay)
}

// FirstRow is the row holding a block's start.
func (l Layout) FirstRow(b schedule.Block) int {
	return b.StartMin / l.RowMinutes
}

// HandleRow is the row holding a block's end, where a press starts a resize.
func (l Layout) HandleRow(b schedule.Block) int {
	return (b.EndMin - 1) / l.RowMinutes
}

// blockAtRow returns the block on a day that covers any part of row.
func (l Layout) blockAtRow(blocks []schedule.Block, row int) (schedule.Block, int, bool) {
	start, end := l.RowSpan(row)
	for i, b := range blocks {
		if schedule.IntervalsOverlap(b.StartMin, b.EndMin, start, end) {
			return b, i, true
		}
	}
	return schedule.Block{}, -1, false
}

// clampScroll keeps scroll inside [0, MaxScroll].
func (l Layout) clampScroll(scroll int) int {
	return min(max(scroll, 0), l.MaxScroll())
}

// scrollTo returns a scroll offset that keeps minute visible.
func (l Layout) scrollTo(scroll, minute int) int {
	row := minute / l.RowMinutes
	if row < scroll {
		scroll = row
	}
	if l.GridH > 0 && row >= scroll+l.GridH {
		scroll = row - l.GridH + 1
	}
	return l.clampScroll(scroll)
}
