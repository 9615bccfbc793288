// Package summary provides weekly availability totals and capacity estimates.
package summary

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// ModalityStats aggregates blocks of one modality.
type ModalityStats struct {
	Blocks   int
	Minutes  int
	Capacity int // appointments that fit, summed per block
}

func (m *ModalityStats) add(b schedule.Block, s schedule.Settings) {
	m.Blocks++
	m.Minutes += b.Duration()
	m.Capacity += b.Capacity(s)
}

// DayStats holds per-weekday totals.
type DayStats struct {
	Weekday  schedule.Weekday
	Online   ModalityStats
	InPerson ModalityStats
	Blocks   []schedule.Block
}

// Minutes returns the total available minutes of the day.
func (d DayStats) Minutes() int {
	return d.Online.Minutes + d.InPerson.Minutes
}

// Capacity returns the appointments that fit across both modalities.
func (d DayStats) Capacity() int {
	return d.Online.Capacity + d.InPerson.Capacity
}

// WeekSummary holds aggregated week data.
type WeekSummary struct {
	Settings schedule.Settings
	Days     [schedule.DaysPerWeek]DayStats
	Online   ModalityStats
	InPerson ModalityStats
}

// SummarizeWeek builds week totals from blocks using settings for capacity.
func SummarizeWeek(blocks []schedule.Block, settings schedule.Settings) *WeekSummary {
	sum := &WeekSummary{Settings: settings}
	for i := range sum.Days {
		sum.Days[i].Weekday = schedule.Weekday(i)
	}

	for _, b := range blocks {
		if !b.Weekday.Valid() {
			continue
		}
		day := &sum.Days[b.Weekday]
		day.Blocks = append(day.Blocks, b)
		switch b.Modality {
		case schedule.ModalityInPerson:
			day.InPerson.add(b, settings)
			sum.InPerson.add(b, settings)
		default:
			day.Online.add(b, settings)
			sum.Online.add(b, settings)
		}
	}
	return sum
}

// FromStore summarizes the current content of a store.
func FromStore(store *schedule.Store) *WeekSummary {
	return SummarizeWeek(store.Blocks(), store.Settings())
}

// TotalMinutes returns the available minutes across the week.
func (w *WeekSummary) TotalMinutes() int {
	return w.Online.Minutes + w.InPerson.Minutes
}

// TotalCapacity returns the appointments that fit across the week.
func (w *WeekSummary) TotalCapacity() int {
	return w.Online.Capacity + w.InPerson.Capacity
}

// FormatHours renders minutes as "2h", "1h30m" or "45m".
func FormatHours(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// Text renders the summary as plain lines for sharing, one line per day with
// availability, followed by a totals line.
func (w *WeekSummary) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Weekly availability (online %dm, in person %dm, buffer %dm)\n",
		w.Settings.DurationOnline, w.Settings.DurationInPerson, w.Settings.BufferMinutes)

	for _, day := range w.Days {
		if len(day.Blocks) == 0 {
			continue
		}
		parts := make([]string, 0, len(day.Blocks))
		for _, b := range day.Blocks {
			parts = append(parts, fmt.Sprintf("%s-%s %s",
				schedule.MinutesToTime(b.StartMin), schedule.MinutesToTime(b.EndMin), b.Modality.Label()))
		}
		fmt.Fprintf(&sb, "%s: %s (%d appts)\n", day.Weekday.Short(), strings.Join(parts, ", "), day.Capacity())
	}

	fmt.Fprintf(&sb, "Total: %s, %d appointments (%d online, %d in person)",
		FormatHours(w.TotalMinutes()), w.TotalCapacity(), w.Online.Capacity, w.InPerson.Capacity)
	return sb.String()
}
