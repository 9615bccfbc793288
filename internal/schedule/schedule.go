// Package schedule defines the weekly availability model for agenda.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrInvalidWeekday    = errors.New("weekday must be between monday and sunday")
	ErrInvalidModality   = errors.New("modality must be 'online' or 'in_person'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidSetting    = errors.New("setting value is not one of the allowed options")
)

// Domain errors.
var (
	ErrOverlap  = errors.New("block overlaps another block")
	ErrNotFound = errors.New("block not found")
)

// User-facing messages for recoverable rejections.
const (
	MsgOverlap         = "Overlaps another block"
	MsgClickToEdit     = "Click the block to edit"
	MsgInvalidInterval = "End time must be after start time"
)

const (
	// GridStep is the granularity, in minutes, every stored time is snapped to.
	GridStep = 10
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// DaysPerWeek is the number of weekday columns.
	DaysPerWeek = 7
	// MinDuration is the lower clamp for appointment durations.
	MinDuration = 10
)

// Weekday is a day of the week with Monday=0 and Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Valid returns true if the weekday is in range.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// String returns the lowercase weekday name.
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Short returns the three-letter label, e.g. "Mon".
func (w Weekday) Short() string {
	if !w.Valid() {
		return "???"
	}
	name := weekdayNames[w]
	return strings.ToUpper(name[:1]) + name[1:3]
}

// ParseWeekday accepts full or three-letter names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if s == name || s == name[:3] {
				return Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// Modality is the appointment delivery mode.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in_person"
)

// Valid returns true if the modality is a known value.
func (m Modality) Valid() bool {
	switch m {
	case ModalityOnline, ModalityInPerson:
		return true
	default:
		return false
	}
}

// Label returns a human readable name.
func (m Modality) Label() string {
	switch m {
	case ModalityOnline:
		return "Online"
	case ModalityInPerson:
		return "In person"
	default:
		return string(m)
	}
}

// Toggle returns the other modality.
func (m Modality) Toggle() Modality {
	if m == ModalityOnline {
		return ModalityInPerson
	}
	return ModalityOnline
}

// ParseModality accepts "online", "in_person", "in-person" and "inperson".
func ParseModality(s string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return ModalityOnline, nil
	case "in_person", "in-person", "inperson":
		return ModalityInPerson, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidModality, s)
	}
}

// Block is a contiguous availability interval [StartMin, EndMin) on one weekday.
type Block struct {
	ID       string   `json:"id"`
	Weekday  Weekday  `json:"weekday"`
	Modality Modality `json:"modality"`
	StartMin int      `json:"start_min"`
	EndMin   int      `json:"end_min"`
}

// Duration returns the block length in minutes.
func (b Block) Duration() int {
	return b.EndMin - b.StartMin
}

// Contains reports whether minute falls inside [StartMin, EndMin).
func (b Block) Contains(minute int) bool {
	return b.StartMin <= minute && minute < b.EndMin
}

// OverlapsWith returns true if both blocks share a weekday and their intervals intersect.
func (b Block) OverlapsWith(other Block) bool {
	if b.Weekday != other.Weekday {
		return false
	}
	return IntervalsOverlap(b.StartMin, b.EndMin, other.StartMin, other.EndMin)
}

// String formats the block as "Mon 09:00-12:00 online".
func (b Block) String() string {
	return fmt.Sprintf("%s %s-%s %s", b.Weekday.Short(), MinutesToTime(b.StartMin), MinutesToTime(b.EndMin), b.Modality)
}

// Patch holds optional field changes for EditBlock. Nil fields are left as-is.
type Patch struct {
	Weekday  *Weekday
	Modality *Modality
	StartMin *int
	EndMin   *int
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Weekday == nil && p.Modality == nil && p.StartMin == nil && p.EndMin == nil
}

// State is the persisted aggregate for one provider.
type State struct {
	Settings  Settings  `json:"settings"`
	Blocks    []Block   `json:"blocks"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState returns an empty state with the given settings.
func NewState(settings Settings) *State {
	return &State{
		Settings: settings.Normalize(),
		Blocks:   make([]Block, 0),
	}
}
