package models

import "time"

// WorkingHour describes when a provider works on one weekday. The engine
// intersects it with the location's business hours; a provider never works
// outside the location window.
type WorkingHour struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Off     bool         `bson:"off" json:"off"`
	Hours   MinuteRange  `bson:"hours" json:"hours"`
}

// Working reports whether the entry describes a usable working window.
func (wh WorkingHour) Working() bool {
	return !wh.Off && wh.Hours.Valid()
}

// Break is a recurring unavailable range on one weekday. Breaks for the same
// provider and weekday never overlap each other.
type Break struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Hours   MinuteRange  `bson:"hours" json:"hours"`
}

// ServiceAssignment links a provider to a service it performs.
type ServiceAssignment struct {
	ServiceID     string   `bson:"service_id" json:"service_id"`
	PriceOverride *float64 `bson:"price_override,omitempty" json:"price_override,omitempty"`
	DisplayOrder  int      `bson:"display_order" json:"display_order"`
}

// Provider is an employee who performs services at one or more locations.
type Provider struct {
	ID          string              `bson:"id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	LocationIDs []string            `bson:"location_ids" json:"location_ids"`
	Hours       []WorkingHour       `bson:"hours" json:"hours"` // at most one entry per weekday
	Breaks      []Break             `bson:"breaks" json:"breaks"`
	Services    []ServiceAssignment `bson:"services" json:"services"`
	Active      bool                `bson:"active" json:"active"`
}

// HoursFor returns the working-hour entry for the weekday, first entry wins.
func (p *Provider) HoursFor(day time.Weekday) (WorkingHour, bool) {
	for _, wh := range p.Hours {
		if wh.Weekday == day {
			return wh, true
		}
	}
	return WorkingHour{}, false
}

// BreaksFor returns the provider's breaks on the weekday.
func (p *Provider) BreaksFor(day time.Weekday) []MinuteRange {
	var out []MinuteRange
	for _, b := range p.Breaks {
		if b.Weekday == day {
			out = append(out, b.Hours)
		}
	}
	return out
}

// AssignmentFor returns the provider's assignment for the service, if any.
func (p *Provider) AssignmentFor(serviceID string) (ServiceAssignment, bool) {
	for _, sa := range p.Services {
		if sa.ServiceID == serviceID {
			return sa, true
		}
	}
	return ServiceAssignment{}, false
}

// WorksAt reports whether the provider is assigned to the location.
func (p *Provider) WorksAt(locationID string) bool {
	for _, id := range p.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// PriceFor returns the provider's effective price for a service: the
// assignment override when set, else the service base price.
func (p *Provider) PriceFor(svc *Service) float64 {
	if sa, ok := p.AssignmentFor(svc.ID); ok && sa.PriceOverride != nil {
		return *sa.PriceOverride
	}
	return svc.BasePrice
}
