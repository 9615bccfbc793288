// Package tui provides the terminal user interface for agenda.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/editor"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/commands"
	"github.com/javiermolinar/agenda/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal       Mode = iota
	ModeTimeInput         // typing a start or end time for the selected block
	ModeConfirmClear      // waiting for a second X before clearing everything
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	session    *editor.Session
	store      *schedule.Store
	controller *editor.Controller
	panel      *editor.Panel
	config     *config.Config
	logger     *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	mode      Mode
	modality  schedule.Modality // modality for new blocks
	focusDay  schedule.Weekday
	field     editor.Field
	timeInput textinput.Model

	resizeFrom int // end of the block when the current resize started

	// Persistence: rev counts mutations, savedRev is the last persisted one.
	rev      int
	savedRev int
	lastSave time.Time

	// Terminal dimensions and layout
	width      int
	height     int
	layout     Layout
	scroll     int
	positioned bool // initial scroll applied

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock overrides the clock used for status expiry.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model over an open session.
func New(sess *editor.Session, cfg *config.Config, logger *zap.Logger, opts ...ModelOption) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tui")

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "HH:MM"
	ti.CharLimit = 5
	ti.Width = 6
	ti.PromptStyle = styles.InputStyle
	ti.TextStyle = styles.FieldValueStyle

	store := sess.Store()
	m := Model{
		session:    sess,
		store:      store,
		controller: editor.NewController(store, logger),
		panel:      editor.NewPanel(store, logger),
		config:     cfg,
		logger:     logger,
		theme:      t,
		styles:     styles,
		mode:       ModeNormal,
		modality:   cfg.Modality(),
		focusDay:   currentWeekday(time.Now()),
		field:      editor.FieldWeekday,
		timeInput:  ti,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.layout = computeLayout(0, 0)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.Status(fmt.Sprintf("Loaded %d blocks for %s", m.store.Len(), m.session.Key()))
}

// Run starts the TUI and saves any change still pending when it exits.
func Run(sess *editor.Session, cfg *config.Config, logger *zap.Logger) error {
	model := New(sess, cfg, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}

	if fm, ok := final.(Model); ok && fm.Dirty() {
		ctx, cancel := context.WithTimeout(context.Background(), commands.SaveTimeout)
		defer cancel()
		if err := sess.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Dirty reports whether a mutation has not been confirmed as saved.
func (m Model) Dirty() bool {
	return m.rev > m.savedRev
}

// persist bumps the revision and saves a snapshot asynchronously.
func (m *Model) persist() tea.Cmd {
	m.rev++
	return commands.Save(m.session, m.session.Snapshot(), m.rev)
}

// flash shows a status message and schedules its removal.
func (m *Model) flash(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.now().Add(commands.StatusDuration)
	return commands.ClearStatusAfter(commands.StatusDuration)
}

// currentWeekday maps time.Weekday (Sunday=0) onto Monday-first weekdays.
func currentWeekday(t time.Time) schedule.Weekday {
	return schedule.Weekday((int(t.Weekday()) + 6) % 7)
}
