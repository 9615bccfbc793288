package schedule

import (
	"fmt"
	"slices"
)

// Allowed values for the settings surface.
var (
	DurationOptions = []int{10, 15, 20, 25, 30, 40, 45, 60}
	BufferOptions   = []int{0, 5, 10, 15}
)

// Settings holds per-modality appointment durations and the buffer between appointments.
type Settings struct {
	DurationOnline   int `json:"duration_online" toml:"duration_online"`
	DurationInPerson int `json:"duration_in_person" toml:"duration_in_person"`
	BufferMinutes    int `json:"buffer_minutes" toml:"buffer_minutes"`
}

// DefaultSettings returns the settings used for a first load.
func DefaultSettings() Settings {
	return Settings{
		DurationOnline:   30,
		DurationInPerson: 45,
		BufferMinutes:    0,
	}
}

// DurationFor returns the configured appointment duration for a modality.
func (s Settings) DurationFor(m Modality) int {
	if m == ModalityInPerson {
		return s.DurationInPerson
	}
	return s.DurationOnline
}

// WithDuration returns a copy with the duration for m replaced.
func (s Settings) WithDuration(m Modality, minutes int) Settings {
	if m == ModalityInPerson {
		s.DurationInPerson = minutes
	} else {
		s.DurationOnline = minutes
	}
	return s
}

// Normalize applies the minimum clamps: durations >= MinDuration, buffer >= 0.
func (s Settings) Normalize() Settings {
	s.DurationOnline = max(MinDuration, s.DurationOnline)
	s.DurationInPerson = max(MinDuration, s.DurationInPerson)
	s.BufferMinutes = max(0, s.BufferMinutes)
	return s
}

// Validate checks that every value is one of the enumerated options.
func (s Settings) Validate() error {
	if !slices.Contains(DurationOptions, s.DurationOnline) {
		return fmt.Errorf("%w: online duration %d", ErrInvalidSetting, s.DurationOnline)
	}
	if !slices.Contains(DurationOptions, s.DurationInPerson) {
		return fmt.Errorf("%w: in-person duration %d", ErrInvalidSetting, s.DurationInPerson)
	}
	if !slices.Contains(BufferOptions, s.BufferMinutes) {
		return fmt.Errorf("%w: buffer %d", ErrInvalidSetting, s.BufferMinutes)
	}
	return nil
}

// NextOption returns the option after current, wrapping around.
// Values not in options restart at the first option.
func NextOption(options []int, current int) int {
	i := slices.Index(options, current)
	if i < 0 || i == len(options)-1 {
		return options[0]
	}
	return options[i+1]
}
