package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	// Title and headers
	TitleStyle          lipgloss.Style
	ModalityBadge       lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderFocusStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Grid cells
	EmptyCellStyle  lipgloss.Style
	HourCellStyle   lipgloss.Style
	FocusCellStyle  lipgloss.Style
	SelectedStyle   lipgloss.Style
	DraftStyle      lipgloss.Style
	HandleStyle     lipgloss.Style
	ResizingStyle   lipgloss.Style
	blockStyleCache [2][2]lipgloss.Style // [inPerson][alt]

	// Panel
	PanelStyle      lipgloss.Style
	PanelTitleStyle lipgloss.Style
	FieldLabelStyle lipgloss.Style
	FieldValueStyle lipgloss.Style
	FieldFocusStyle lipgloss.Style
	ErrorStyle      lipgloss.Style
	MutedStyle      lipgloss.Style

	// Footer
	StatsStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	StatusError lipgloss.Style
	HelpStyle   lipgloss.Style
	InputStyle  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p, colorBg: p.Bg}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = base.Foreground(p.Accent).Bold(true)
	s.ModalityBadge = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	s.DayHeaderStyle = base.Foreground(p.FgMuted).Bold(true)
	s.DayHeaderFocusStyle = lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true)
	s.TimeColumnStyle = base.Foreground(p.FgMuted)

	s.EmptyCellStyle = base
	s.HourCellStyle = base.Foreground(p.GridLine)
	s.FocusCellStyle = lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.GridLine)
	s.SelectedStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true)
	s.DraftStyle = lipgloss.NewStyle().Background(p.DraftBg).Foreground(p.TextOnDraft)
	s.HandleStyle = lipgloss.NewStyle().Foreground(p.Warning)
	s.ResizingStyle = lipgloss.NewStyle().Background(p.DraftBg).Foreground(p.TextOnDraft).Bold(true)

	for _, inPerson := range []bool{false, true} {
		for _, alt := range []bool{false, true} {
			s.blockStyleCache[b2i(inPerson)][b2i(alt)] = lipgloss.NewStyle().
				Background(p.ModalityBg(inPerson, alt)).
				Foreground(p.ModalityText(inPerson))
		}
	}

	s.PanelStyle = base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		BorderBackground(p.Bg).
		Padding(0, 1)
	s.PanelTitleStyle = base.Foreground(p.Accent).Bold(true)
	s.FieldLabelStyle = base.Foreground(p.FgMuted)
	s.FieldValueStyle = base
	s.FieldFocusStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true)
	s.ErrorStyle = base.Foreground(p.Error).Bold(true)
	s.MutedStyle = base.Foreground(p.FgMuted)

	s.StatsStyle = base.Foreground(p.FgMuted)
	s.StatusStyle = base.Foreground(p.Fg)
	s.StatusError = lipgloss.NewStyle().Background(p.Error).Foreground(p.TextOnError).Bold(true)
	s.HelpStyle = base.Foreground(p.FgMuted)
	s.InputStyle = base.Foreground(p.Accent)

	return s
}

// BlockStyle returns the cell style for a stored block.
func (s *Styles) BlockStyle(m schedule.Modality, alt bool) lipgloss.Style {
	return s.blockStyleCache[b2i(m == schedule.ModalityInPerson)][b2i(alt)]
}

// BadgeStyle returns the title badge for the active modality.
func (s *Styles) BadgeStyle(m schedule.Modality) lipgloss.Style {
	inPerson := m == schedule.ModalityInPerson
	bg := s.palette.Online
	if inPerson {
		bg = s.palette.InPerson
	}
	return s.ModalityBadge.Background(bg).Foreground(s.palette.Bg)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
