// Package timegrid maps a linear UI coordinate to minutes of the day and back.
//
// Coordinate 0 is the top of the day and trackHeight is the bottom (24:00).
package timegrid

import (
	"math"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// CoordinateToMinutes interpolates y/trackHeight over [0, MinutesPerDay], rounds
// to the nearest GridStep and clamps to the day. A non-positive trackHeight maps
// everything to 0.
func CoordinateToMinutes(y, trackHeight float64) int {
	if trackHeight <= 0 || math.IsNaN(y) {
		return 0
	}
	raw := y / trackHeight * schedule.MinutesPerDay
	raw = math.Max(0, math.Min(raw, schedule.MinutesPerDay))
	snapped := int(math.Round(raw/schedule.GridStep)) * schedule.GridStep
	return min(max(snapped, 0), schedule.MinutesPerDay)
}

// MinutesToCoordinate is the inverse linear map, without snapping.
func MinutesToCoordinate(minutes int, trackHeight float64) float64 {
	return float64(minutes) / schedule.MinutesPerDay * trackHeight
}

// Track is the geometry of one day column: Origin is the coordinate of 00:00
// in the caller's space and Height spans the whole day.
type Track struct {
	Origin float64
	Height float64
}

// Minutes converts an absolute coordinate into a snapped minute of the day.
func (t Track) Minutes(y float64) int {
	return CoordinateToMinutes(y-t.Origin, t.Height)
}

// Coordinate converts minutes into an absolute coordinate.
func (t Track) Coordinate(minutes int) float64 {
	return t.Origin + MinutesToCoordinate(minutes, t.Height)
}
