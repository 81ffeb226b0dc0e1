package scheduling

import (
	"sort"
	"time"

	"bookery/models"
)

// OperatingWindow resolves the location's open window for a date. The second
// return value is false when the location is closed that day: a matching
// holiday (exact date or recurring month-day), a closed business-hour entry,
// a missing entry, or a zero-length/inverted range.
func OperatingWindow(loc *models.Location, date time.Time) (models.MinuteRange, bool) {
	if loc.IsHoliday(date) {
		return models.MinuteRange{}, false
	}
	bh, ok := loc.HoursFor(date.Weekday())
	if !ok || !bh.Open() {
		return models.MinuteRange{}, false
	}
	return bh.Hours, true
}

// ProviderWindow intersects the location window with the provider's working
// hours for the weekday. False means the provider contributes no free time
// that day.
func ProviderWindow(window models.MinuteRange, p *models.Provider, day time.Weekday) (models.MinuteRange, bool) {
	wh, ok := p.HoursFor(day)
	if !ok || !wh.Working() {
		return models.MinuteRange{}, false
	}
	return wh.Hours.Intersect(window)
}

// SubtractClosed complements a window against a set of closed ranges and
// returns the remaining free ranges in chronological order. Closed ranges
// fully outside the window are ignored; partial overlaps are clipped to the
// window first.
func SubtractClosed(window models.MinuteRange, closed []models.MinuteRange) []models.MinuteRange {
	if !window.Valid() {
		return nil
	}

	clipped := make([]models.MinuteRange, 0, len(closed))
	for _, c := range closed {
		if cc, ok := c.ClipTo(window); ok {
			clipped = append(clipped, cc)
		}
	}
	if len(clipped) == 0 {
		return []models.MinuteRange{window}
	}

	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].Start == clipped[j].Start {
			return clipped[i].End < clipped[j].End
		}
		return clipped[i].Start < clipped[j].Start
	})

	var free []models.MinuteRange
	cursor := window.Start
	for _, c := range clipped {
		if c.Start > cursor {
			free = append(free, models.MinuteRange{Start: cursor, End: c.Start})
		}
		if c.End > cursor {
			cursor = c.End
		}
	}
	if cursor < window.End {
		free = append(free, models.MinuteRange{Start: cursor, End: window.End})
	}
	return free
}

// CanStartAt reports whether the service may occupy the candidate range. The
// range itself must lie within the window, and its padded footprint, clipped
// to the window, must fit inside a single free range.
func CanStartAt(free []models.MinuteRange, window models.MinuteRange, cand models.MinuteRange, svc *models.Service) bool {
	if !cand.Valid() || !window.Contains(cand) {
		return false
	}
	padded := models.MinuteRange{
		Start: cand.Start - svc.PaddingBefore,
		End:   cand.End + svc.PaddingAfter,
	}
	clipped, ok := padded.ClipTo(window)
	if !ok {
		return false
	}
	for _, f := range free {
		if f.Contains(clipped) {
			return true
		}
	}
	return false
}
