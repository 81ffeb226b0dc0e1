package models

import "time"

// FreeInterval is one bookable stretch for a provider, expressed both as
// absolute timestamps and as minutes from midnight of the requested date.
type FreeInterval struct {
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Minutes MinuteRange `json:"minutes"`
}

// ProviderAvailability is one provider's free intervals on the requested date.
// A provider who is off that day contributes an empty interval list.
type ProviderAvailability struct {
	ProviderID   string         `json:"provider_id"`
	ProviderName string         `json:"provider_name"`
	Free         []FreeInterval `json:"free"`
}

// SlotGrid is the display grid for the operating window at the effective
// granularity. Slots are display-only; conflict checks use exact timestamps.
type SlotGrid struct {
	Granularity int           `json:"granularity_minutes"`
	Times       []time.Time   `json:"times"`
	Boundaries  []MinuteRange `json:"boundaries"`
}

// DayAvailability is the availability query result for one
// (location, date, service) triple.
type DayAvailability struct {
	LocationID string                 `json:"location_id"`
	ServiceID  string                 `json:"service_id"`
	Date       string                 `json:"date"` // YYYY-MM-DD in the location timezone
	Closed     bool                   `json:"closed"`
	Window     *Interval              `json:"window,omitempty"` // nil when closed
	Grid       *SlotGrid              `json:"grid,omitempty"`
	Providers  []ProviderAvailability `json:"providers"`
}

// RankedProvider is a selector result entry. Score carries the strategy's
// metric (price or occupancy count); it is zero for specified_order.
type RankedProvider struct {
	ProviderID string  `json:"provider_id"`
	Score      float64 `json:"score"`
}
