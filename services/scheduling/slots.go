package scheduling

import (
	"time"

	"bookery/models"
)

// BuildSlotRanges steps from open to close in granularity-minute increments.
// A trailing partial slot is dropped, never padded. A non-positive granularity
// or an unusable window yields no slots.
func BuildSlotRanges(window models.MinuteRange, granularity int) []models.MinuteRange {
	if granularity <= 0 || !window.Valid() {
		return nil
	}
	var slots []models.MinuteRange
	for at := window.Start; at+granularity <= window.End; at += granularity {
		slots = append(slots, models.MinuteRange{Start: at, End: at + granularity})
	}
	return slots
}

// SlotIndex maps a start minute to its slot index within the grid:
// floor((start - open) / granularity), clamped to [0, slotCount-1].
func SlotIndex(open, startMin, granularity, slotCount int) int {
	if granularity <= 0 || slotCount <= 0 {
		return 0
	}
	idx := (startMin - open) / granularity
	if startMin < open {
		idx = 0
	}
	if idx < 0 {
		idx = 0
	}
	if idx > slotCount-1 {
		idx = slotCount - 1
	}
	return idx
}

// SlotSpan returns how many grid slots an appointment of the given duration
// occupies: ceil(max(granularity, duration) / granularity), clamped so
// startIndex+span never exceeds slotCount. The clamp truncates display-grid
// placement only; conflict checks use absolute timestamps.
func SlotSpan(durationMin, granularity, slotCount, startIndex int) int {
	if granularity <= 0 || slotCount <= 0 {
		return 0
	}
	if durationMin < granularity {
		durationMin = granularity
	}
	span := (durationMin + granularity - 1) / granularity
	if startIndex+span > slotCount {
		span = slotCount - startIndex
	}
	if span < 0 {
		span = 0
	}
	return span
}

// BuildSlotGrid assembles the display grid for the window at the service's
// effective granularity, anchored to the date in the location's timezone.
func BuildSlotGrid(loc *models.Location, svc *models.Service, window models.MinuteRange, date time.Time) *models.SlotGrid {
	granularity := svc.EffectiveSlotMinutes(loc)
	ranges := BuildSlotRanges(window, granularity)
	tz := loc.TimeLocation()

	grid := &models.SlotGrid{Granularity: granularity, Boundaries: ranges}
	for _, r := range ranges {
		grid.Times = append(grid.Times, r.At(date, tz).Start)
	}
	return grid
}
