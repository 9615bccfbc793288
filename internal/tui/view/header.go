package view

import "github.com/javiermolinar/agenda/internal/schedule"

// HeaderLabels builds the time column label followed by one label per weekday.
// The focused day is marked with asterisks.
func HeaderLabels(focused schedule.Weekday) ([]string, map[int]bool) {
	labels := make([]string, 0, schedule.DaysPerWeek+1)
	focusedCols := make(map[int]bool)

	labels = append(labels, "Time")
	for i := 0; i < schedule.DaysPerWeek; i++ {
		w := schedule.Weekday(i)
		label := w.Short()
		if w == focused {
			label = "*" + label + "*"
			focusedCols[i+1] = true
		}
		labels = append(labels, label)
	}

	return labels, focusedCols
}
