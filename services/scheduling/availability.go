package scheduling

import (
	"context"
	"errors"
	"time"

	appointmentRepo "bookery/database/repository/appointment"
	catalogRepo "bookery/database/repository/catalog"
	"bookery/models"
	"bookery/utils"

	"go.uber.org/zap"
)

// appointmentQueryMargin widens the per-day appointment read so that padded
// intervals leaking across midnight are still subtracted.
const appointmentQueryMargin = 6 * time.Hour

// AvailabilityRequest identifies one (location, date, service) availability
// query. ProviderIDs optionally narrows the candidate set; when empty, all
// active providers assigned to the location that carry the service are used.
type AvailabilityRequest struct {
	LocationID  string
	ServiceID   string
	Date        time.Time
	ProviderIDs []string
}

// Engine computes per-provider free intervals. It is a pure read: it never
// writes and may run fully in parallel across requests and providers.
type Engine struct {
	Catalog      catalogRepo.CatalogRepository
	Appointments appointmentRepo.AppointmentRepository
}

// GetAvailability implements the availability contract: resolve the operating
// window for the date, then per provider subtract breaks and padded existing
// appointments from the intersection of location and provider hours.
func (e *Engine) GetAvailability(ctx context.Context, req AvailabilityRequest) (*models.DayAvailability, error) {
	loc, svc, err := loadCatalogContext(ctx, e.Catalog, req.LocationID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	tz := loc.TimeLocation()
	// The request names a calendar day; anchor it in the location's timezone
	// rather than converting an instant across zones.
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, tz)
	out := &models.DayAvailability{
		LocationID: loc.ID,
		ServiceID:  svc.ID,
		Date:       date.Format("2006-01-02"),
		Providers:  []models.ProviderAvailability{},
	}

	window, open := OperatingWindow(loc, date)
	if !open {
		out.Closed = true
		return out, nil
	}
	absWindow := window.At(date, tz)
	out.Window = &absWindow
	out.Grid = BuildSlotGrid(loc, svc, window, date)

	providers, err := e.candidateProviders(ctx, loc, svc, req.ProviderIDs)
	if err != nil {
		return nil, err
	}

	for i := range providers {
		p := &providers[i]
		pa := models.ProviderAvailability{ProviderID: p.ID, ProviderName: p.Name, Free: []models.FreeInterval{}}

		free, err := e.providerFree(ctx, p, window, date, tz)
		if err != nil {
			return nil, err
		}
		for _, f := range free {
			abs := f.At(date, tz)
			pa.Free = append(pa.Free, models.FreeInterval{Start: abs.Start, End: abs.End, Minutes: f})
		}
		out.Providers = append(out.Providers, pa)
	}

	utils.GetLogger().Debug("availability computed",
		zap.String("locationID", loc.ID),
		zap.String("serviceID", svc.ID),
		zap.String("date", out.Date),
		zap.Int("providers", len(out.Providers)))
	return out, nil
}

// providerFree derives one provider's free ranges on the date by complement.
func (e *Engine) providerFree(ctx context.Context, p *models.Provider, window models.MinuteRange, date time.Time, tz *time.Location) ([]models.MinuteRange, error) {
	pwin, works := ProviderWindow(window, p, date.Weekday())
	if !works {
		return nil, nil
	}

	closed := append([]models.MinuteRange{}, p.BreaksFor(date.Weekday())...)

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	appts, err := e.Appointments.ListForProvider(ctx, p.ID,
		midnight.Add(-appointmentQueryMargin), midnight.Add(24*time.Hour+appointmentQueryMargin))
	if err != nil {
		return nil, &StorageError{Op: "list appointments", Err: err}
	}
	for i := range appts {
		// Padding comes from the booked appointment's own service, captured
		// at reserve time, not from the service being requested now.
		closed = append(closed, appts[i].PaddedInterval().MinutesOn(date, tz))
	}

	return SubtractClosed(pwin, closed), nil
}

// candidateProviders resolves the provider set for a query. Explicitly named
// providers must exist; named providers that do not serve this location or
// service are dropped rather than erred, matching the closed-day treatment.
func (e *Engine) candidateProviders(ctx context.Context, loc *models.Location, svc *models.Service, ids []string) ([]models.Provider, error) {
	if len(ids) == 0 {
		providers, err := e.Catalog.ListProviders(ctx, loc.ID, svc.ID)
		if err != nil {
			return nil, &StorageError{Op: "list providers", Err: err}
		}
		return providers, nil
	}

	var out []models.Provider
	for _, id := range ids {
		p, err := e.Catalog.GetProvider(ctx, id)
		if err != nil {
			var nf *catalogRepo.ErrNotFound
			if errors.As(err, &nf) {
				return nil, newValidationError("provider_ids", "unknown provider %q", id)
			}
			return nil, &StorageError{Op: "get provider", Err: err}
		}
		if !p.WorksAt(loc.ID) {
			continue
		}
		if _, ok := p.AssignmentFor(svc.ID); !ok {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// loadCatalogContext fetches and validates the location and service records.
// Both the availability engine and the conflict guard resolve requests
// through it.
func loadCatalogContext(ctx context.Context, cat catalogRepo.CatalogRepository, locationID, serviceID string) (*models.Location, *models.Service, error) {
	loc, err := cat.GetLocation(ctx, locationID)
	if err != nil {
		var nf *catalogRepo.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nil, newValidationError("location_id", "unknown location %q", locationID)
		}
		return nil, nil, &StorageError{Op: "get location", Err: err}
	}
	svc, err := cat.GetService(ctx, serviceID)
	if err != nil {
		var nf *catalogRepo.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nil, newValidationError("service_id", "unknown service %q", serviceID)
		}
		return nil, nil, &StorageError{Op: "get service", Err: err}
	}
	if svc.DurationMinutes <= 0 {
		return nil, nil, newValidationError("service_id", "service %q has a non-positive duration", serviceID)
	}
	return loc, svc, nil
}
