package models

import "time"

// MinuteRange is a half-open [Start, End) range expressed in minutes from
// midnight of some day. Working hours, breaks and slot boundaries are all
// stored this way; only appointments carry absolute timestamps.
type MinuteRange struct {
	Start int `bson:"start" json:"start"` // minutes from midnight
	End   int `bson:"end" json:"end"`     // minutes from midnight
}

// Valid reports whether the range has positive length. Zero-length and
// inverted ranges are treated as closed everywhere in the engine.
func (r MinuteRange) Valid() bool {
	return r.End > r.Start
}

// Duration returns the range length in minutes.
func (r MinuteRange) Duration() int {
	return r.End - r.Start
}

// Overlaps reports whether two half-open ranges share any minute.
// Touching endpoints do not overlap.
func (r MinuteRange) Overlaps(other MinuteRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains reports whether other lies fully inside r.
func (r MinuteRange) Contains(other MinuteRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// ClipTo intersects r with window. The second return value is false when the
// intersection is empty.
func (r MinuteRange) ClipTo(window MinuteRange) (MinuteRange, bool) {
	out := r
	if out.Start < window.Start {
		out.Start = window.Start
	}
	if out.End > window.End {
		out.End = window.End
	}
	if !out.Valid() {
		return MinuteRange{}, false
	}
	return out, true
}

// Intersect returns the overlap of two ranges, if any.
func (r MinuteRange) Intersect(other MinuteRange) (MinuteRange, bool) {
	return r.ClipTo(other)
}

// At anchors the range to a concrete day in the given timezone, producing
// absolute timestamps.
func (r MinuteRange) At(day time.Time, loc *time.Location) Interval {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return Interval{
		Start: midnight.Add(time.Duration(r.Start) * time.Minute),
		End:   midnight.Add(time.Duration(r.End) * time.Minute),
	}
}

// Interval is a half-open absolute time interval [Start, End).
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Valid reports whether End is strictly after Start.
func (iv Interval) Valid() bool {
	return iv.End.After(iv.Start)
}

// Overlaps uses half-open semantics: an interval ending exactly when another
// begins does not conflict with it.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Pad widens the interval by the given number of minutes on each side.
func (iv Interval) Pad(beforeMin, afterMin int) Interval {
	return Interval{
		Start: iv.Start.Add(-time.Duration(beforeMin) * time.Minute),
		End:   iv.End.Add(time.Duration(afterMin) * time.Minute),
	}
}

// MinutesOn projects the interval onto the day that starts at midnight in the
// given timezone, as minutes from that midnight. Portions on other days fall
// outside [0, 1440) and are expected to be clipped by the caller.
func (iv Interval) MinutesOn(day time.Time, loc *time.Location) MinuteRange {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return MinuteRange{
		Start: int(iv.Start.Sub(midnight) / time.Minute),
		End:   int(iv.End.Sub(midnight) / time.Minute),
	}
}
