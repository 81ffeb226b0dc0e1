package models

import "time"

// BookingRequest is a reservation attempt as received from the API. An empty
// ProviderID asks the engine to pick a provider via the service's preference
// strategy.
type BookingRequest struct {
	ProviderID string    `json:"provider_id,omitempty"`
	ServiceID  string    `json:"service_id"`
	CustomerID string    `json:"customer_id"`
	LocationID string    `json:"location_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status,omitempty"` // pending (default) or confirmed
}
