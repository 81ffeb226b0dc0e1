package models

// Provider-preference strategies for automatic provider selection.
const (
	PreferSpecifiedOrder   = "specified_order"
	PreferMostExpensive    = "most_expensive"
	PreferLeastExpensive   = "least_expensive"
	PreferLeastOccupiedDay = "least_occupied_day"
	PreferMostOccupiedDay  = "most_occupied_day"
)

// Service is a bookable offering. All durations are plain integer minutes;
// symbolic encodings in stored data ("30_minutes", "one_day") are normalized
// at the repository boundary and never reach the engine.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
	SlotMinutes     int     `bson:"slot_minutes" json:"slot_minutes"` // 0 = inherit location default
	PaddingBefore   int     `bson:"padding_before" json:"padding_before"`
	PaddingAfter    int     `bson:"padding_after" json:"padding_after"`
	BasePrice       float64 `bson:"base_price" json:"base_price"`
	Preference      string  `bson:"preference" json:"preference"` // one of the Prefer* constants
	RandomTie       bool    `bson:"random_tie" json:"random_tie"`
	OccupancyBefore int     `bson:"occupancy_before" json:"occupancy_before"` // look-back days
	OccupancyAfter  int     `bson:"occupancy_after" json:"occupancy_after"`   // look-ahead days
	Active          bool    `bson:"active" json:"active"`
}

// RequiredMinutes is the contiguous free time a booking of this service
// consumes, padding included.
func (s *Service) RequiredMinutes() int {
	return s.DurationMinutes + s.PaddingBefore + s.PaddingAfter
}

// EffectiveSlotMinutes resolves the slot granularity for this service at a
// location: the service override when set, else the location default.
func (s *Service) EffectiveSlotMinutes(loc *Location) int {
	if s.SlotMinutes > 0 {
		return s.SlotMinutes
	}
	return loc.SlotMinutes
}
