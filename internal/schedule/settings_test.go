package schedule

import (
	"errors"
	"testing"
)

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("default settings should be valid: %v", err)
	}

	tests := []struct {
		name string
		s    Settings
	}{
		{"online off-grid", Settings{DurationOnline: 35, DurationInPerson: 30}},
		{"in-person off-grid", Settings{DurationOnline: 30, DurationInPerson: 90}},
		{"buffer off-grid", Settings{DurationOnline: 30, DurationInPerson: 30, BufferMinutes: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); !errors.Is(err, ErrInvalidSetting) {
				t.Errorf("expected ErrInvalidSetting, got %v", err)
			}
		})
	}
}

func TestSettingsDurationFor(t *testing.T) {
	s := Settings{DurationOnline: 20, DurationInPerson: 60}
	if s.DurationFor(ModalityOnline) != 20 || s.DurationFor(ModalityInPerson) != 60 {
		t.Errorf("unexpected durations: %+v", s)
	}

	s = s.WithDuration(ModalityInPerson, 45)
	if s.DurationInPerson != 45 || s.DurationOnline != 20 {
		t.Errorf("WithDuration changed the wrong field: %+v", s)
	}
}

func TestNextOption(t *testing.T) {
	if got := NextOption(BufferOptions, 5); got != 10 {
		t.Errorf("NextOption(5) = %d, want 10", got)
	}
	if got := NextOption(BufferOptions, 15); got != 0 {
		t.Errorf("NextOption should wrap, got %d", got)
	}
	if got := NextOption(DurationOptions, 33); got != 10 {
		t.Errorf("unknown value should restart, got %d", got)
	}
}
