package ui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// shortIDLen is how many id characters the CLI prints.
const shortIDLen = 8

// ShortID truncates a block id for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// FindBlock resolves an id or unique id prefix to a block.
func FindBlock(store *schedule.Store, prefix string) (schedule.Block, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return schedule.Block{}, fmt.Errorf("%w: empty id", schedule.ErrNotFound)
	}
	if b, ok := store.Block(prefix); ok {
		return b, nil
	}

	var matches []schedule.Block
	for _, b := range store.Blocks() {
		if strings.HasPrefix(b.ID, prefix) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return schedule.Block{}, fmt.Errorf("%w: %s", schedule.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return schedule.Block{}, fmt.Errorf("id prefix %q matches %d blocks", prefix, len(matches))
	}
}

// DayBar renders a weekday as width cells spanning 24h. Cells covered by an
// online block use '█', in-person '▓', free time '·'.
func DayBar(blocks []schedule.Block, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]string, width)
	for i := range cells {
		cells[i] = formatMuted("·")
	}
	for _, b := range blocks {
		from := b.StartMin * width / schedule.MinutesPerDay
		to := (b.EndMin*width + schedule.MinutesPerDay - 1) / schedule.MinutesPerDay
		to = min(max(to, from+1), width)
		glyph := "█"
		if b.Modality == schedule.ModalityInPerson {
			glyph = "▓"
		}
		for i := from; i < to; i++ {
			cells[i] = formatModality(b.Modality, glyph)
		}
	}
	return strings.Join(cells, "")
}

// parseTimeFlag converts an "HH:MM" flag value into minutes.
func parseTimeFlag(name, value string) (int, error) {
	m, err := schedule.TimeToMinutes(value)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return m, nil
}
