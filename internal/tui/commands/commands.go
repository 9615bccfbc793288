// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/summary"
)

// SaveTimeout bounds a single persistence round trip.
const SaveTimeout = 5 * time.Second

// StatusDuration is how long a status message stays visible.
const StatusDuration = 3 * time.Second

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// SavedMsg is sent when a snapshot has been persisted. Rev is the model
// revision the snapshot was taken at.
type SavedMsg struct {
	Rev    int
	Blocks int
	At     time.Time
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// CopiedMsg is sent when the weekly summary reached the clipboard.
type CopiedMsg struct {
	Lines int
}

// Saver persists a snapshot without touching the live store.
type Saver interface {
	SaveSnapshot(ctx context.Context, state *schedule.State) error
}

// WriteClipboard is the clipboard writer used by Copy.
var WriteClipboard = clipboard.WriteAll

// Save persists state from a command goroutine. The caller passes a snapshot
// so the store is never read concurrently with the update loop.
func Save(saver Saver, state *schedule.State, rev int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
		defer cancel()

		if err := saver.SaveSnapshot(ctx, state); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving schedule: %w", err)}
		}
		return SavedMsg{Rev: rev, Blocks: len(state.Blocks), At: state.UpdatedAt}
	}
}

// Status shows msg in the footer.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}

// ClearStatusAfter schedules a ClearStatusMsg.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// Copy writes the plain-text weekly summary for blocks to the clipboard.
func Copy(blocks []schedule.Block, settings schedule.Settings) tea.Cmd {
	return func() tea.Msg {
		text := summary.SummarizeWeek(blocks, settings).Text()
		if err := WriteClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying summary: %w", err)}
		}
		return CopiedMsg{Lines: countLines(text)}
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && i < len(s)-1 {
			n++
		}
	}
	return n
}
