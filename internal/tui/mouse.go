package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/editor"
)

// wheelRows is how far one wheel notch scrolls the grid.
const wheelRows = 3

// handleMouseMsg drives the controller from mouse events. Presses use the top
// edge of the row under the pointer, motion uses its bottom edge, so dragging
// over a row includes it in the block.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.controller.IsIdle() {
			m.scroll = m.layout.clampScroll(m.scroll - wheelRows)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.controller.IsIdle() {
			m.scroll = m.layout.clampScroll(m.scroll + wheelRows)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handlePress(msg.X, msg.Y)
	case tea.MouseActionMotion:
		return m.handleMotion(msg.Y)
	case tea.MouseActionRelease:
		return m.handleRelease()
	}
	return m, nil
}

func (m Model) handlePress(x, y int) (tea.Model, tea.Cmd) {
	day, ok := m.layout.DayAt(x)
	if !ok {
		return m, nil
	}
	row, ok := m.layout.RowAt(y, m.scroll)
	if !ok {
		return m, nil
	}
	if m.mode != ModeNormal {
		m.leaveMode()
	}
	m.focusDay = day

	blocks := m.store.BlocksOn(day)
	if b, _, hit := m.layout.blockAtRow(blocks, row); hit {
		if err := m.panel.Select(b.ID); err != nil {
			cmd := m.flash(err.Error(), true)
			return m, cmd
		}
		if row != m.layout.HandleRow(b) {
			return m, nil
		}
		res := m.controller.BeginResize(b.ID, m.layout.Track(m.scroll))
		if res.Kind == editor.ResultRejected {
			cmd := m.flash(res.Message, true)
			return m, cmd
		}
		m.resizeFrom = b.EndMin
		return m, nil
	}

	res := m.controller.BeginCreate(day, m.modality, float64(y), m.layout.Track(m.scroll))
	switch res.Kind {
	case editor.ResultRejected:
		cmd := m.flash(res.Message, true)
		return m, cmd
	case editor.ResultStarted:
		m.panel.Deselect()
	}
	return m, nil
}

func (m Model) handleMotion(y int) (tea.Model, tea.Cmd) {
	if m.controller.IsIdle() {
		return m, nil
	}
	res := m.controller.Move(float64(y + 1))
	switch res.Kind {
	case editor.ResultUpdated:
		if _, ok := m.controller.Operation().(editor.Resizing); ok {
			m.panel.Refresh()
		}
	case editor.ResultRejected:
		m.panel.Refresh()
		cmd := m.flash(res.Message, true)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRelease() (tea.Model, tea.Cmd) {
	op := m.controller.Operation()
	res := m.controller.End()

	switch res.Kind {
	case editor.ResultCommitted:
		switch op.(type) {
		case editor.Creating:
			if err := m.panel.Select(res.Block.ID); err != nil {
				cmd := m.flash(err.Error(), true)
				return m, cmd
			}
			cmd := tea.Batch(m.persist(), m.flash("Added "+res.Block.String(), false))
			return m, cmd
		case editor.Resizing:
			m.panel.Refresh()
			if res.Block.EndMin != m.resizeFrom {
				cmd := tea.Batch(m.persist(), m.flash("Resized "+res.Block.String(), false))
				return m, cmd
			}
		}
	case editor.ResultRejected:
		cmd := m.flash(res.Message, true)
		return m, cmd
	}
	return m, nil
}
