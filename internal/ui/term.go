package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// Color definitions for consistent styling across the UI.
var (
	// Online: bold cyan
	colorOnline = color.New(color.FgCyan, color.Bold)

	// In person: bold magenta
	colorInPerson = color.New(color.FgMagenta, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for capacity
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatModality colors text by modality.
func formatModality(m schedule.Modality, s string) string {
	if m == schedule.ModalityInPerson {
		return colorInPerson.Sprint(s)
	}
	return colorOnline.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
