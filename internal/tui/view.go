package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/agenda/internal/editor"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/summary"
	"github.com/javiermolinar/agenda/internal/tui/view"
)

const handleMark = "╍╍╍"

// View renders the TUI.
func (m Model) View() string {
	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	l := m.layout
	if l.GridH <= 0 || l.ColWidth < 2 {
		return "Terminal too small"
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, m.renderDayHeader(), m.renderGrid())
	body := grid
	if l.PanelW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, m.renderPanel(l.GridH+1))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), body, view.RenderFooter(m.footerViewState()))
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle() string {
	s := m.store.Settings()
	badge := m.styles.BadgeStyle(m.modality).Render(fmt.Sprintf("%s %dm", m.modality.Label(), s.DurationFor(m.modality)))
	saved := ""
	if m.Dirty() {
		saved = " ●"
	}
	title := m.styles.TitleStyle.Render(" agenda" + saved + " ")
	settings := m.styles.MutedStyle.Render(fmt.Sprintf("  online %dm · in person %dm · buffer %dm",
		s.DurationOnline, s.DurationInPerson, s.BufferMinutes))
	return title + badge + settings
}

func (m Model) renderDayHeader() string {
	labels, focused := view.HeaderLabels(m.focusDay)
	var sb strings.Builder
	sb.WriteString(m.styles.TimeColumnStyle.Render(view.Fit("", timeColWidth)))
	for i := 1; i < len(labels); i++ {
		style := m.styles.DayHeaderStyle
		if focused[i] {
			style = m.styles.DayHeaderFocusStyle
		}
		sb.WriteString(style.Render(view.Center(labels[i], m.layout.ColWidth)))
	}
	return sb.String()
}

// gridState is the per-frame data the grid cells are drawn from.
type gridState struct {
	days       [schedule.DaysPerWeek][]schedule.Block
	draft      schedule.Block
	hasDraft   bool
	resizingID string
	selectedID string
	settings   schedule.Settings
}

func (m Model) buildGridState() gridState {
	g := gridState{
		selectedID: m.panel.Selected(),
		settings:   m.store.Settings(),
	}
	for d := 0; d < schedule.DaysPerWeek; d++ {
		g.days[d] = m.store.BlocksOn(schedule.Weekday(d))
	}
	g.draft, g.hasDraft = m.controller.Draft()
	if op, ok := m.controller.Operation().(editor.Resizing); ok {
		g.resizingID = op.BlockID
	}
	return g
}

func (m Model) renderGrid() string {
	l := m.layout
	g := m.buildGridState()

	lines := make([]string, 0, l.GridH)
	for i := 0; i < l.GridH; i++ {
		row := m.scroll + i
		if row >= l.Rows {
			break
		}
		start, _ := l.RowSpan(row)

		var sb strings.Builder
		label := ""
		if start%60 == 0 {
			label = schedule.MinutesToTime(start)
		}
		sb.WriteString(m.styles.TimeColumnStyle.Render(view.Fit(label, timeColWidth)))
		for d := 0; d < schedule.DaysPerWeek; d++ {
			sb.WriteString(m.renderCell(g, schedule.Weekday(d), row))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCell(g gridState, day schedule.Weekday, row int) string {
	l := m.layout
	w := l.ColWidth
	start, end := l.RowSpan(row)

	if g.hasDraft && g.draft.Weekday == day &&
		schedule.IntervalsOverlap(g.draft.StartMin, g.draft.EndMin, start, end) {
		content := ""
		if row == l.FirstRow(g.draft) {
			content = "+" + intervalLabel(g.draft)
		}
		return m.styles.DraftStyle.Render(view.Fit(content, w))
	}

	if b, idx, ok := l.blockAtRow(g.days[day], row); ok {
		style := m.styles.BlockStyle(b.Modality, idx%2 == 1)
		switch b.ID {
		case g.resizingID:
			style = m.styles.ResizingStyle
		case g.selectedID:
			style = m.styles.SelectedStyle
		}
		if row == l.HandleRow(b) && row != l.FirstRow(b) {
			style = m.styles.HandleStyle.Inherit(style)
		}
		return style.Render(m.blockCellContent(b, row, g.settings))
	}

	style, content := m.styles.EmptyCellStyle, ""
	if start%60 == 0 {
		style, content = m.styles.HourCellStyle, "·"
	}
	if day == m.focusDay {
		style = m.styles.FocusCellStyle
	}
	return style.Render(view.Fit(content, w))
}

// blockCellContent labels a block's rows: interval on the first row, modality
// and capacity on the second, and the resize handle on the last.
func (m Model) blockCellContent(b schedule.Block, row int, settings schedule.Settings) string {
	l := m.layout
	w := l.ColWidth
	first, last := l.FirstRow(b), l.HandleRow(b)

	switch {
	case row == first:
		return view.Fit(" "+intervalLabel(b), w)
	case row == last:
		return view.Center(handleMark, w)
	case row == first+1:
		return view.Fit(fmt.Sprintf(" %s ×%d", shortModality(b.Modality), b.Capacity(settings)), w)
	default:
		return view.Fit("", w)
	}
}

func (m Model) renderPanel(height int) string {
	w := m.layout.PanelW - 4 // border and padding
	var lines []string

	if m.panel.HasSelection() {
		d := m.panel.Draft()
		lines = append(lines, m.styles.PanelTitleStyle.Render(view.Fit("Block", w)), "")
		for _, f := range []editor.Field{editor.FieldWeekday, editor.FieldModality, editor.FieldStart, editor.FieldEnd} {
			lines = append(lines, m.renderField(f, fieldValue(d, f), w))
		}
		lines = append(lines, "")

		length := d.EndMin - d.StartMin
		if length > 0 {
			lines = append(lines,
				m.styles.MutedStyle.Render(view.Fit("Length   "+summary.FormatHours(length), w)),
				m.styles.MutedStyle.Render(view.Fit(fmt.Sprintf("Fits     %d appointments", d.Capacity(m.store.Settings())), w)))
		}
		if stored, ok := m.store.Block(d.ID); ok && stored != d {
			lines = append(lines, m.styles.MutedStyle.Render(view.Fit("Unsaved, enter to apply", w)))
		}
		if m.mode == ModeTimeInput {
			lines = append(lines, "", view.Fit(m.timeInput.View(), w))
		}
		if msg := m.panel.Error(); msg != "" {
			lines = append(lines, "", m.styles.ErrorStyle.Render(view.Fit(msg, w)))
		}
	} else {
		lines = append(lines, m.styles.PanelTitleStyle.Render(view.Fit(dayName(m.focusDay), w)), "")
		blocks := m.store.BlocksOn(m.focusDay)
		if len(blocks) == 0 {
			lines = append(lines, m.styles.MutedStyle.Render(view.Fit("No availability", w)))
		}
		settings := m.store.Settings()
		for _, b := range blocks {
			lines = append(lines, view.Fit(fmt.Sprintf("%s %-2s ×%d", intervalLabel(b), shortModality(b.Modality), b.Capacity(settings)), w))
		}
		lines = append(lines, "",
			m.styles.MutedStyle.Render(view.Fit("Drag on the grid to add", w)),
			m.styles.MutedStyle.Render(view.Fit("Click a block to edit", w)))
		if msg := m.panel.Error(); msg != "" {
			lines = append(lines, "", m.styles.ErrorStyle.Render(view.Fit(msg, w)))
		}
	}

	content := view.PadLinesWithBackground(strings.Join(lines, "\n"), w, max(1, height-2), m.styles.colorBg)
	return m.styles.PanelStyle.Width(m.layout.PanelW - 2).Render(content)
}

func (m Model) renderField(f editor.Field, value string, w int) string {
	label := m.styles.FieldLabelStyle.Render(view.Fit(f.String(), 9))
	style := m.styles.FieldValueStyle
	if f == m.field {
		style = m.styles.FieldFocusStyle
		value = "‹ " + value + " ›"
	}
	return label + style.Render(view.Fit(value, w-9))
}

func (m Model) footerViewState() view.FooterViewState {
	l := m.layout
	sum := summary.FromStore(m.store)

	stats := fmt.Sprintf("Week: %s · %d appointments (%d online, %d in person) · %d blocks",
		summary.FormatHours(sum.TotalMinutes()), sum.TotalCapacity(),
		sum.Online.Capacity, sum.InPerson.Capacity, m.store.Len())

	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.StatusError
	}
	status := m.statusMsg
	if status == "" && !m.lastSave.IsZero() {
		status = "Saved " + m.lastSave.Local().Format("15:04:05")
	}

	return view.FooterViewState{
		InnerW:      l.Width,
		FooterH:     l.FooterH,
		FullFooter:  l.FooterH >= footerMinHeight,
		StatsLine:   m.styles.StatsStyle.Render(view.Fit(stats, l.Width)),
		StatusText:  status,
		HelpText:    m.helpText(),
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		VAlign:      lipgloss.Bottom,
		Bg:          m.styles.colorBg,
	}
}

func (m Model) helpText() string {
	switch {
	case !m.controller.IsIdle():
		return "release: commit  esc: cancel"
	case m.mode == ModeTimeInput:
		return "enter: set time  esc: cancel"
	case m.mode == ModeConfirmClear:
		return "X: clear all blocks  any key: cancel"
	case m.panel.HasSelection():
		return "tab: field  ←/→: change  e: type time  enter: apply  d: delete  esc: deselect  q: quit"
	default:
		return "drag: add  m: modality  n: new  ←/→: day  ↑/↓: scroll  1/2/3: settings  y: copy  X: clear  q: quit"
	}
}

func fieldValue(b schedule.Block, f editor.Field) string {
	switch f {
	case editor.FieldWeekday:
		return dayName(b.Weekday)
	case editor.FieldModality:
		return b.Modality.Label()
	case editor.FieldStart:
		return schedule.MinutesToTime(b.StartMin)
	case editor.FieldEnd:
		return schedule.MinutesToTime(b.EndMin)
	}
	return ""
}

func intervalLabel(b schedule.Block) string {
	return schedule.MinutesToTime(b.StartMin) + "-" + schedule.MinutesToTime(b.EndMin)
}

func shortModality(m schedule.Modality) string {
	if m == schedule.ModalityInPerson {
		return "IP"
	}
	return "ON"
}

func dayName(w schedule.Weekday) string {
	name := w.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
