package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = computeLayout(m.width, m.height)
		if !m.positioned {
			// Open at the preferred start instead of midnight.
			m.scroll = m.config.PreferredStartMin() / m.layout.RowMinutes
			m.positioned = true
		}
		m.scroll = m.layout.clampScroll(m.scroll)
		return m, nil

	case commands.SavedMsg:
		if msg.Rev > m.savedRev {
			m.savedRev = msg.Rev
			m.lastSave = msg.At
		}
		return m, nil

	case commands.CopiedMsg:
		cmd := m.flash(fmt.Sprintf("Summary copied (%d lines)", msg.Lines), false)
		return m, cmd

	case commands.ErrMsg:
		m.logger.Warn("command failed", zap.Error(msg.Err))
		cmd := m.flash(fmt.Sprintf("Error: %v", msg.Err), true)
		return m, cmd

	case commands.StatusMsgCmd:
		cmd := m.flash(msg.Msg, false)
		return m, cmd

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other input messages
	if m.mode == ModeTimeInput {
		var cmd tea.Cmd
		m.timeInput, cmd = m.timeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}
