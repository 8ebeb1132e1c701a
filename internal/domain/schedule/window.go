// Package schedule decides whether a refresh cycle runs the active path.
package schedule

import (
	"fmt"
	"time"
)

const hoursPerDay = 24

// Window is a time-of-day range [Start, End) in a fixed location.
// A disabled window is always active. Start == End covers the whole day,
// and Start > End wraps past midnight.
type Window struct {
	enabled  bool
	start    int
	end      int
	location *time.Location
}

// Always returns a window that contains every instant.
func Always() Window {
	return Window{location: time.UTC}
}

// NewWindow builds an enabled window between two hours in the named IANA zone.
func NewWindow(startHour, endHour int, zone string) (Window, error) {
	if startHour < 0 || startHour >= hoursPerDay {
		return Window{}, fmt.Errorf("start %d: %w", startHour, ErrInvalidHour)
	}
	if endHour < 0 || endHour >= hoursPerDay {
		return Window{}, fmt.Errorf("end %d: %w", endHour, ErrInvalidHour)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Window{}, fmt.Errorf("%s: %w: %v", zone, ErrInvalidLocation, err)
	}
	return Window{enabled: true, start: startHour, end: endHour, location: loc}, nil
}

// Enabled reports whether the window gates anything.
func (w Window) Enabled() bool { return w.enabled }

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.enabled || w.start == w.end {
		return true
	}
	h := t.In(w.location).Hour()
	if w.start < w.end {
		return h >= w.start && h < w.end
	}
	return h >= w.start || h < w.end
}

// String describes the window for logs.
func (w Window) String() string {
	if !w.enabled {
		return "always"
	}
	return fmt.Sprintf("%02d:00-%02d:00 %s", w.start, w.end, w.location)
}
