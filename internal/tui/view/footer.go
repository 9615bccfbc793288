package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW      int
	FooterH     int
	FullFooter  bool
	StatsLine   string
	InputLine   string
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	VAlign      lipgloss.Position
	Bg          lipgloss.Color
}

// RenderFooter renders the stats, input, status and help lines. A short
// footer keeps only status and help.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	statusLine := footerLine(state.InnerW, state.StatusStyle, state.StatusText)
	helpLine := footerLine(state.InnerW, state.HelpStyle, state.HelpText)

	var s string
	if state.FullFooter {
		s += state.StatsLine + "\n"
		if state.InputLine != "" {
			s += state.InputLine + "\n"
		}
		s += statusLine + "\n"
		s += helpLine
	} else {
		s += statusLine + "\n"
		s += helpLine
	}

	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, s, state.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
