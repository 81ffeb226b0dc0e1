package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	appointmentRepo "bookery/database/repository/appointment"
	catalogRepo "bookery/database/repository/catalog"
	"bookery/models"
	"bookery/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Guard is the sole mutation point for appointments. It re-validates
// availability against fresh store reads and reserves atomically, serialized
// per provider: two in-flight reservations for the same provider are mutually
// exclusive, reservations for distinct providers proceed concurrently.
type Guard struct {
	Catalog      catalogRepo.CatalogRepository
	Appointments appointmentRepo.AppointmentRepository

	locks sync.Map // provider id -> *sync.Mutex
}

func (g *Guard) providerLock(providerID string) *sync.Mutex {
	mu, _ := g.locks.LoadOrStore(providerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Reserve performs the check-and-reserve sequence. It never trusts a
// caller-supplied availability snapshot: provider state is re-read under the
// provider's lock. On conflict, nothing is mutated.
func (g *Guard) Reserve(ctx context.Context, req models.BookingRequest) (*models.Appointment, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	loc, svc, err := loadCatalogContext(ctx, g.Catalog, req.LocationID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	provider, err := g.loadProvider(ctx, loc, svc, req.ProviderID)
	if err != nil {
		return nil, err
	}

	mu := g.providerLock(provider.ID)
	mu.Lock()
	defer mu.Unlock()

	tz := loc.TimeLocation()
	start := req.Start.In(tz)
	end := req.End.In(tz)

	if err := g.checkSchedule(loc, svc, provider, start, end, tz); err != nil {
		return nil, err
	}
	if err := g.checkConflicts(ctx, svc, provider.ID, start, end, tz); err != nil {
		return nil, err
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:            uuid.NewString(),
		ProviderID:    provider.ID,
		ServiceID:     svc.ID,
		CustomerID:    req.CustomerID,
		LocationID:    loc.ID,
		Start:         start,
		End:           end,
		PaddingBefore: svc.PaddingBefore,
		PaddingAfter:  svc.PaddingAfter,
		Status:        req.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.Appointments.Insert(ctx, appt); err != nil {
		return nil, &StorageError{Op: "insert appointment", Err: err}
	}

	utils.GetLogger().Info("appointment reserved",
		zap.String("appointmentID", appt.ID),
		zap.String("providerID", appt.ProviderID),
		zap.Time("start", appt.Start),
		zap.Time("end", appt.End))
	return appt, nil
}

// Confirm moves a pending appointment to confirmed.
func (g *Guard) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := g.get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch appt.Status {
	case models.StatusConfirmed:
		return appt, nil
	case models.StatusPending:
	default:
		return nil, newValidationError("id", "appointment %q is %s and cannot be confirmed", id, appt.Status)
	}
	if err := g.Appointments.UpdateStatus(ctx, id, models.StatusConfirmed); err != nil {
		return nil, &StorageError{Op: "update appointment status", Err: err}
	}
	appt.Status = models.StatusConfirmed
	return appt, nil
}

// Cancel soft-deletes an appointment, freeing its interval for new bookings.
func (g *Guard) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := g.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Appointments.SoftDelete(ctx, id); err != nil {
		return nil, &StorageError{Op: "soft delete appointment", Err: err}
	}
	appt.Status = models.StatusCancelled
	appt.Deleted = true
	return appt, nil
}

// Get returns a non-deleted appointment by id.
func (g *Guard) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return g.get(ctx, id)
}

// ExpirePending soft-cancels pending appointments older than the hold window
// and returns how many were released. The expiry worker calls this on a
// schedule.
func (g *Guard) ExpirePending(ctx context.Context, hold time.Duration) (int, error) {
	ids, err := g.Appointments.ExpirePending(ctx, time.Now().Add(-hold))
	if err != nil {
		return 0, &StorageError{Op: "expire pending appointments", Err: err}
	}
	if len(ids) > 0 {
		utils.GetLogger().Info("expired stale pending appointments", zap.Int("count", len(ids)))
	}
	return len(ids), nil
}

// checkSchedule re-derives the provider's working picture for the target date
// and verifies the candidate fits a free stretch of the day plan (operating
// window intersected with working hours, minus breaks). Appointments are
// checked separately with exact timestamps.
func (g *Guard) checkSchedule(loc *models.Location, svc *models.Service, p *models.Provider, start, end time.Time, tz *time.Location) error {
	window, open := OperatingWindow(loc, start)
	if !open {
		return &NoAvailableSlotError{ServiceID: svc.ID, Start: start}
	}
	pwin, works := ProviderWindow(window, p, start.Weekday())
	if !works {
		return &NoAvailableSlotError{ServiceID: svc.ID, Start: start}
	}

	free := SubtractClosed(pwin, p.BreaksFor(start.Weekday()))
	raw := models.Interval{Start: start, End: end}.MinutesOn(start, tz)
	if !CanStartAt(free, pwin, raw, svc) {
		return &NoAvailableSlotError{ServiceID: svc.ID, Start: start}
	}
	return nil
}

// checkConflicts compares the candidate's padded interval against fresh
// padded intervals of the provider's existing appointments. Touching
// endpoints are not conflicts.
func (g *Guard) checkConflicts(ctx context.Context, svc *models.Service, providerID string, start, end time.Time, tz *time.Location) error {
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, tz)
	existing, err := g.Appointments.ListForProvider(ctx, providerID,
		midnight.Add(-appointmentQueryMargin), midnight.Add(24*time.Hour+appointmentQueryMargin))
	if err != nil {
		return &StorageError{Op: "list appointments", Err: err}
	}

	cand := models.Interval{Start: start, End: end}.Pad(svc.PaddingBefore, svc.PaddingAfter)
	for i := range existing {
		if cand.Overlaps(existing[i].PaddedInterval()) {
			// Conflicts are routine, not faults; keep them off the error log.
			utils.GetLogger().Info("reservation conflict",
				zap.String("providerID", providerID),
				zap.Time("start", start),
				zap.String("conflictsWith", existing[i].ID))
			return &ConflictError{ProviderID: providerID, Start: start, End: end}
		}
	}
	return nil
}

func (g *Guard) loadProvider(ctx context.Context, loc *models.Location, svc *models.Service, providerID string) (*models.Provider, error) {
	p, err := g.Catalog.GetProvider(ctx, providerID)
	if err != nil {
		var nf *catalogRepo.ErrNotFound
		if errors.As(err, &nf) {
			return nil, newValidationError("provider_id", "unknown provider %q", providerID)
		}
		return nil, &StorageError{Op: "get provider", Err: err}
	}
	if !p.WorksAt(loc.ID) {
		return nil, newValidationError("provider_id", "provider %q is not assigned to location %q", providerID, loc.ID)
	}
	if _, ok := p.AssignmentFor(svc.ID); !ok {
		return nil, newValidationError("provider_id", "provider %q does not offer service %q", providerID, svc.ID)
	}
	return p, nil
}

func (g *Guard) get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := g.Appointments.GetByID(ctx, id)
	if err != nil {
		var nf *catalogRepo.ErrNotFound
		if errors.As(err, &nf) {
			return nil, newValidationError("id", "unknown appointment %q", id)
		}
		return nil, &StorageError{Op: "get appointment", Err: err}
	}
	return appt, nil
}

// validateRequest rejects malformed input before any store read.
func validateRequest(req *models.BookingRequest) error {
	switch {
	case req.ProviderID == "":
		return newValidationError("provider_id", "provider id is required")
	case req.ServiceID == "":
		return newValidationError("service_id", "service id is required")
	case req.CustomerID == "":
		return newValidationError("customer_id", "customer id is required")
	case req.LocationID == "":
		return newValidationError("location_id", "location id is required")
	case req.Start.IsZero() || req.End.IsZero():
		return newValidationError("start", "start and end are required")
	case !req.End.After(req.Start):
		return newValidationError("end", "end must be after start")
	}
	switch req.Status {
	case "":
		req.Status = models.StatusPending
	case models.StatusPending, models.StatusConfirmed:
	default:
		return newValidationError("status", "status must be pending or confirmed")
	}
	return nil
}
