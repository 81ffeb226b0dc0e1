package appointmentRepo

import (
	"context"
	"time"

	"bookery/models"
)

// AppointmentRepository is the appointment store boundary. Reads return only
// non-deleted records. Writes happen exclusively through the booking conflict
// guard, which serializes them per provider before calling in.
type AppointmentRepository interface {
	// ListForProvider returns the provider's non-deleted appointments whose
	// interval overlaps [from, to), ordered by start time.
	ListForProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error)
	// CountStartingIn counts the provider's non-deleted appointments whose
	// scheduled start falls within [from, to). Used for occupancy scoring.
	CountStartingIn(ctx context.Context, providerID string, from, to time.Time) (int, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Insert(ctx context.Context, appt *models.Appointment) error
	UpdateStatus(ctx context.Context, id, status string) error
	SoftDelete(ctx context.Context, id string) error
	// ExpirePending soft-deletes pending appointments created before the
	// cutoff and returns the affected ids.
	ExpirePending(ctx context.Context, createdBefore time.Time) ([]string, error)
}
