package models

import "time"

// BusinessHour describes when a location is open on one weekday.
type BusinessHour struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Closed  bool         `bson:"closed" json:"closed"`
	Hours   MinuteRange  `bson:"hours" json:"hours"`
}

// Open reports whether the entry describes a usable operating window.
// A closed flag, or a zero-length or inverted range, means closed.
func (bh BusinessHour) Open() bool {
	return !bh.Closed && bh.Hours.Valid()
}

// Holiday is a closure on a calendar date. Recurring holidays repeat every
// year on the same month-day; non-recurring ones match a single exact date.
type Holiday struct {
	Name        string     `bson:"name" json:"name"`
	Month       time.Month `bson:"month" json:"month"`
	Day         int        `bson:"day" json:"day"`
	Year        int        `bson:"year,omitempty" json:"year,omitempty"` // ignored when recurring
	IsRecurring bool       `bson:"is_recurring" json:"is_recurring"`
}

// MatchesDate reports whether the holiday closes the given date.
func (h Holiday) MatchesDate(date time.Time) bool {
	if date.Month() != h.Month || date.Day() != h.Day {
		return false
	}
	return h.IsRecurring || date.Year() == h.Year
}

// Location is a bookable site with its weekly hours and holiday calendar.
type Location struct {
	ID           string         `bson:"id" json:"id"`
	Name         string         `bson:"name" json:"name"`
	Timezone     string         `bson:"timezone" json:"timezone"`           // IANA name, e.g. "Europe/Berlin"
	SlotMinutes  int            `bson:"slot_minutes" json:"slot_minutes"`   // default slot granularity
	Hours        []BusinessHour `bson:"hours" json:"hours"`                 // at most one entry per weekday
	Holidays     []Holiday      `bson:"holidays" json:"holidays"`
	Active       bool           `bson:"active" json:"active"`
}

// HoursFor returns the business-hour entry for the weekday. The first entry
// wins when the stored data carries duplicates.
func (l *Location) HoursFor(day time.Weekday) (BusinessHour, bool) {
	for _, bh := range l.Hours {
		if bh.Weekday == day {
			return bh, true
		}
	}
	return BusinessHour{}, false
}

// IsHoliday reports whether any holiday entry closes the date.
func (l *Location) IsHoliday(date time.Time) bool {
	for _, h := range l.Holidays {
		if h.MatchesDate(date) {
			return true
		}
	}
	return false
}

// TimeLocation resolves the location's timezone, falling back to UTC when the
// stored name does not resolve.
func (l *Location) TimeLocation() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return tz
}
