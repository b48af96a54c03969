package model

import "time"

// Window is a half-open-at-the-bottom, closed-at-the-top time filter over
// epoch-second timestamps: a record at exactly End is still inside, one
// microsecond later is outside.
type Window struct {
	start   float64
	end     float64
	bounded bool
}

// Since builds a window with no upper bound.
func Since(start float64) Window {
	return Window{start: start}
}

// Between builds a fully bounded window.
func Between(start, end float64) Window {
	return Window{start: start, end: end, bounded: true}
}

// WeekOf builds the weekly window containing t: Monday 00:00 through
// Sunday 23:59:59.999999 in t's location.
func WeekOf(t time.Time) Window {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Microsecond)
	return Between(Epoch(start), Epoch(end))
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts float64) bool {
	if ts < w.start {
		return false
	}
	if w.bounded && ts > w.end {
		return false
	}
	return true
}

// Start returns the window's lower bound in epoch seconds.
func (w Window) Start() float64 { return w.start }

// End returns the upper bound and whether one is set.
func (w Window) End() (float64, bool) { return w.end, w.bounded }

// StartTime returns the lower bound as a time in loc.
func (w Window) StartTime(loc *time.Location) time.Time {
	return fromEpoch(w.start, loc)
}

// EndTime returns the upper bound as a time in loc; callers must check End first.
func (w Window) EndTime(loc *time.Location) time.Time {
	return fromEpoch(w.end, loc)
}

// Epoch converts a time to fractional epoch seconds at microsecond precision.
func Epoch(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromEpoch(ts float64, loc *time.Location) time.Time {
	return time.UnixMicro(int64(ts * 1e6)).In(loc)
}
