package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/agenda/internal/schedule"
)

func TestRender_EmptySize(t *testing.T) {
	if got := Render(ViewState{BaseContent: "grid"}); got != "Loading..." {
		t.Errorf("Render() = %q, want Loading...", got)
	}
	if got := Render(ViewState{EmptyPlaceholder: "wait"}); got != "wait" {
		t.Errorf("Render() = %q, want wait", got)
	}
	if got := Render(ViewState{Width: 10, Height: 2, BaseContent: "grid"}); got != "grid" {
		t.Errorf("Render() = %q, want grid", got)
	}
}

func TestPadLinesWithBackground(t *testing.T) {
	out := PadLinesWithBackground("ab\nabcdefghij", 5, 3, lipgloss.Color("#000000"))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 5 {
			t.Errorf("line %d width = %d, want 5", i, w)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Fit(tt.in, tt.width); got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCenter(t *testing.T) {
	if got := Center("ab", 6); got != "  ab  " {
		t.Errorf("Center() = %q", got)
	}
	if got := Center("abcdef", 3); got != "abc" {
		t.Errorf("Center() = %q", got)
	}
}

func TestHeaderLabels(t *testing.T) {
	labels, focused := HeaderLabels(schedule.Wednesday)
	if len(labels) != 8 {
		t.Fatalf("got %d labels, want 8", len(labels))
	}
	if labels[1] != "Mon" {
		t.Errorf("labels[1] = %q, want Mon", labels[1])
	}
	if labels[3] != "*Wed*" || !focused[3] {
		t.Errorf("labels[3] = %q focused = %v", labels[3], focused)
	}
}

func TestRenderFooter(t *testing.T) {
	state := FooterViewState{
		InnerW:     30,
		FooterH:    4,
		FullFooter: true,
		StatsLine:  "stats",
		StatusText: "saved",
		HelpText:   "q quit",
		VAlign:     lipgloss.Bottom,
	}
	out := RenderFooter(state)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.Contains(ansi.Strip(out), "saved") || !strings.Contains(ansi.Strip(out), "q quit") {
		t.Errorf("footer missing content:\n%s", out)
	}

	state.FooterH = 0
	if RenderFooter(state) != "" {
		t.Error("zero-height footer should render nothing")
	}
}
