package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/editor"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A drag in progress only listens to esc.
	if !m.controller.IsIdle() {
		if msg.String() == "esc" {
			return m.cancelGesture()
		}
		return m, nil
	}

	switch m.mode {
	case ModeTimeInput:
		return m.handleTimeInputKeys(msg)
	case ModeConfirmClear:
		return m.handleConfirmClearKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.panel.HasSelection() {
			m.panel.Deselect()
		}
		return m, nil

	case "m":
		m.modality = m.modality.Toggle()
		cmd := m.flash("New blocks: "+m.modality.Label(), false)
		return m, cmd

	case "n":
		return m.addBlock()

	case "tab":
		if m.panel.HasSelection() {
			m.field = m.field.Next()
		}
		return m, nil

	// Field or day navigation
	case "h", "left":
		return m.step(-1), nil
	case "l", "right":
		return m.step(1), nil

	// Scrolling
	case "k", "up":
		m.scroll = m.layout.clampScroll(m.scroll - 1)
	case "j", "down":
		m.scroll = m.layout.clampScroll(m.scroll + 1)
	case "pgup":
		m.scroll = m.layout.clampScroll(m.scroll - m.layout.GridH)
	case "pgdown":
		m.scroll = m.layout.clampScroll(m.scroll + m.layout.GridH)

	case "e":
		return m.startTimeInput()

	case "enter":
		return m.applyPanel()

	case "d", "delete":
		if m.panel.DeleteSelected() {
			cmd := tea.Batch(m.persist(), m.flash("Block deleted", false))
			return m, cmd
		}

	case "1", "2", "3":
		return m.cycleSetting(msg.String())

	case "X":
		if m.store.Len() == 0 {
			cmd := m.flash("Nothing to clear", false)
			return m, cmd
		}
		m.mode = ModeConfirmClear
		cmd := m.flash("Press X again to clear all blocks", true)
		return m, cmd

	case "y":
		return m, commands.Copy(m.store.Blocks(), m.store.Settings())
	}

	return m, nil
}

// step moves the focused panel field by delta, or the focused day when
// nothing is selected.
func (m Model) step(delta int) Model {
	if m.panel.HasSelection() {
		m.panel.Step(m.field, delta)
		if d := m.panel.Draft(); m.field == editor.FieldWeekday || m.field == editor.FieldModality {
			m.scroll = m.layout.scrollTo(m.scroll, d.StartMin)
		}
		return m
	}
	day := (int(m.focusDay) + delta) % schedule.DaysPerWeek
	if day < 0 {
		day += schedule.DaysPerWeek
	}
	m.focusDay = schedule.Weekday(day)
	return m
}

func (m Model) addBlock() (tea.Model, tea.Cmd) {
	b, err := m.panel.AddNew(m.focusDay, m.modality, m.config.PreferredStartMin())
	if err != nil {
		cmd := m.flash(m.panel.Error(), true)
		return m, cmd
	}
	m.field = editor.FieldStart
	m.scroll = m.layout.scrollTo(m.scroll, b.StartMin)
	cmd := tea.Batch(m.persist(), m.flash("Added "+b.String(), false))
	return m, cmd
}

func (m Model) applyPanel() (tea.Model, tea.Cmd) {
	if !m.panel.HasSelection() {
		return m, nil
	}
	b, err := m.panel.Apply()
	if err != nil {
		cmd := m.flash(m.panel.Error(), true)
		return m, cmd
	}
	m.focusDay = b.Weekday
	m.scroll = m.layout.scrollTo(m.scroll, b.StartMin)
	cmd := tea.Batch(m.persist(), m.flash("Saved "+b.String(), false))
	return m, cmd
}

func (m Model) cycleSetting(key string) (tea.Model, tea.Cmd) {
	s := m.store.Settings()
	switch key {
	case "1":
		s.DurationOnline = schedule.NextOption(schedule.DurationOptions, s.DurationOnline)
	case "2":
		s.DurationInPerson = schedule.NextOption(schedule.DurationOptions, s.DurationInPerson)
	case "3":
		s.BufferMinutes = schedule.NextOption(schedule.BufferOptions, s.BufferMinutes)
	}
	m.store.SetSettings(s)
	s = m.store.Settings()
	msg := fmt.Sprintf("Online %dm · In person %dm · Buffer %dm", s.DurationOnline, s.DurationInPerson, s.BufferMinutes)
	cmd := tea.Batch(m.persist(), m.flash(msg, false))
	return m, cmd
}

func (m Model) cancelGesture() (tea.Model, tea.Cmd) {
	_, resizing := m.controller.Operation().(editor.Resizing)
	m.controller.Cancel()
	if resizing {
		// The resize was applied live; keep and persist its last valid end.
		m.panel.Refresh()
		cmd := tea.Batch(m.persist(), m.flash("Resize stopped", false))
		return m, cmd
	}
	cmd := m.flash("Cancelled", false)
	return m, cmd
}

func (m Model) handleConfirmClearKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() != "X" {
		cmd := m.flash("Clear cancelled", false)
		return m, cmd
	}
	n := m.store.Len()
	m.store.ClearAll()
	m.panel.Deselect()
	cmd := tea.Batch(m.persist(), m.flash(fmt.Sprintf("Cleared %d blocks", n), false))
	return m, cmd
}

// startTimeInput opens the time prompt for the focused start or end field.
func (m Model) startTimeInput() (tea.Model, tea.Cmd) {
	if !m.panel.HasSelection() {
		return m, nil
	}
	d := m.panel.Draft()
	switch m.field {
	case editor.FieldStart:
		m.timeInput.SetValue(schedule.MinutesToTime(d.StartMin))
	case editor.FieldEnd:
		m.timeInput.SetValue(schedule.MinutesToTime(d.EndMin))
	default:
		cmd := m.flash("Select Start or End with tab to type a time", false)
		return m, cmd
	}
	m.timeInput.Prompt = m.field.String() + ": "
	m.timeInput.CursorEnd()
	m.mode = ModeTimeInput
	return m, tea.Batch(m.timeInput.Focus(), textinput.Blink)
}

func (m Model) handleTimeInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveMode()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.timeInput.Value())
		minutes, err := schedule.TimeToMinutes(value)
		if err != nil {
			cmd := m.flash("Invalid time, use HH:MM", true)
			return m, cmd
		}
		if m.field == editor.FieldStart {
			m.panel.SetStart(minutes)
		} else {
			m.panel.SetEnd(minutes)
		}
		m.leaveMode()
		cmd := m.flash("Press enter to apply", false)
		return m, cmd
	}

	var cmd tea.Cmd
	m.timeInput, cmd = m.timeInput.Update(msg)
	return m, cmd
}

// leaveMode returns to normal mode, dropping any typed input.
func (m *Model) leaveMode() {
	m.mode = ModeNormal
	m.timeInput.Blur()
	m.timeInput.SetValue("")
}
