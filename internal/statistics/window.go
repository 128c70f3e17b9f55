// Package statistics aggregates rentals into revenue, utilization and popularity reports.
// Functions here are pure: callers load the flat tables and pass them in.
package statistics

import (
	"errors"
	"time"
)

var (
	ErrMissingBounds = errors.New("start and end dates are required")
	ErrInvalidRange  = errors.New("end date must be after start date")
)

// Window is a reporting period. A rental is contained in it when it starts on
// or after Start and ends on or before End.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end *time.Time) (Window, error) {
	if start == nil || end == nil {
		return Window{}, ErrMissingBounds
	}
	return Window{Start: *start, End: *end}, nil
}

func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Days is the window length in fractional days.
func (w Window) Days() float64 {
	return w.End.Sub(w.Start).Hours() / 24
}

// overlapDays returns the fractional days [start, end) shares with the window.
func (w Window) overlapDays(start, end time.Time) float64 {
	from := start
	if w.Start.After(from) {
		from = w.Start
	}
	to := end
	if w.End.Before(to) {
		to = w.End
	}
	if !from.Before(to) {
		return 0
	}
	return to.Sub(from).Hours() / 24
}
