package schedule

import (
	"fmt"
	"math"
)

// Snap rounds minutes to the nearest GridStep and clamps to [0, MinutesPerDay].
func Snap(minutes int) int {
	snapped := int(math.Round(float64(minutes)/GridStep)) * GridStep
	return clamp(snapped, 0, MinutesPerDay)
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// "24:00" is accepted as the end of the day.
func TimeToMinutes(t string) (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, t)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, t)
		}
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, t)
	}
	return hours*60 + mins, nil
}

// MinutesToTime converts minutes since midnight to "HH:MM".
// MinutesPerDay renders as "24:00".
func MinutesToTime(m int) string {
	m = clamp(m, 0, MinutesPerDay)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IntervalsOverlap reports whether [s1, e1) and [s2, e2) intersect.
func IntervalsOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// clamp bounds v to [lo, hi]. hi wins when lo > hi.
func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
