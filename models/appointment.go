package models

import "time"

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Appointment is a reserved provider/time-interval pair. Padding minutes are
// captured from the booked service at reserve time so that conflict checks
// against this appointment always use the booked service's padding, even if
// the service configuration changes later.
type Appointment struct {
	ID            string    `bson:"id" json:"id"`
	ProviderID    string    `bson:"provider_id" json:"provider_id"`
	ServiceID     string    `bson:"service_id" json:"service_id"`
	CustomerID    string    `bson:"customer_id" json:"customer_id"`
	LocationID    string    `bson:"location_id" json:"location_id"`
	Start         time.Time `bson:"start" json:"start"`
	End           time.Time `bson:"end" json:"end"`
	PaddingBefore int       `bson:"padding_before" json:"padding_before"` // minutes, from the booked service
	PaddingAfter  int       `bson:"padding_after" json:"padding_after"`   // minutes, from the booked service
	Status        string    `bson:"status" json:"status"`
	Deleted       bool      `bson:"deleted" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Interval returns the scheduled interval without padding.
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// PaddedInterval returns the interval widened by the booked service's padding.
// No other appointment for the same provider may overlap it.
func (a *Appointment) PaddedInterval() Interval {
	return a.Interval().Pad(a.PaddingBefore, a.PaddingAfter)
}
