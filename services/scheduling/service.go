package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookery/config"
	catalogRepo "bookery/database/repository/catalog"
	"bookery/models"
	"bookery/utils"

	"go.uber.org/zap"
)

// BookingService is the caller-facing surface of the engine: availability
// queries and guarded booking commands.
type BookingService interface {
	Availability(ctx context.Context, req AvailabilityRequest) (*models.DayAvailability, error)
	Book(ctx context.Context, req models.BookingRequest) (*models.Appointment, error)
	Confirm(ctx context.Context, id string) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) (*models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
}

// DefaultBookingService wires the availability engine, provider selector and
// conflict guard together, with a redis display cache in front of
// availability reads. The cache is never consulted on the write path; the
// guard always re-reads fresh state.
type DefaultBookingService struct {
	Engine   *Engine
	Selector *Selector
	Guard    *Guard
	Catalog  catalogRepo.CatalogRepository
}

// Availability serves the availability query, read-through against the
// display cache when no explicit provider filter is given.
func (s *DefaultBookingService) Availability(ctx context.Context, req AvailabilityRequest) (*models.DayAvailability, error) {
	cacheable := len(req.ProviderIDs) == 0
	key := availabilityCacheKey(req)

	if cacheable {
		if day, ok := s.cachedDay(ctx, key); ok {
			return day, nil
		}
	}

	day, err := s.Engine.GetAvailability(ctx, req)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.storeDay(ctx, key, day)
	}
	return day, nil
}

// Book reserves an appointment. When the request names no provider, eligible
// providers are ranked by the service's preference strategy and tried in
// order; the first conflict-free reservation wins.
func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) (*models.Appointment, error) {
	if req.ProviderID != "" {
		appt, err := s.Guard.Reserve(ctx, req)
		if err != nil {
			return nil, err
		}
		s.invalidateDay(ctx, appt)
		return appt, nil
	}

	loc, svc, err := loadCatalogContext(ctx, s.Catalog, req.LocationID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !req.End.After(req.Start) {
		return nil, newValidationError("end", "end must be after start")
	}

	providers, err := s.Catalog.ListProviders(ctx, loc.ID, svc.ID)
	if err != nil {
		return nil, &StorageError{Op: "list providers", Err: err}
	}
	ranked, err := s.Selector.Rank(ctx, svc, providers, req.Start.In(loc.TimeLocation()))
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, &NoEligibleProviderError{ServiceID: svc.ID, LocationID: loc.ID}
	}

	for _, rp := range ranked {
		attempt := req
		attempt.ProviderID = rp.ProviderID
		appt, err := s.Guard.Reserve(ctx, attempt)
		if err == nil {
			s.invalidateDay(ctx, appt)
			return appt, nil
		}
		var conflict *ConflictError
		var noSlot *NoAvailableSlotError
		if errors.As(err, &conflict) || errors.As(err, &noSlot) {
			continue
		}
		return nil, err
	}
	// Every ranked provider was busy: distinct from having no provider at all.
	return nil, &NoAvailableSlotError{ServiceID: svc.ID, Start: req.Start}
}

func (s *DefaultBookingService) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	return s.Guard.Confirm(ctx, id)
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Guard.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateDay(ctx, appt)
	return appt, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return s.Guard.Get(ctx, id)
}

func availabilityCacheKey(req AvailabilityRequest) string {
	return "avail:" + req.LocationID + ":" + req.Date.Format("2006-01-02") + ":" + req.ServiceID
}

func (s *DefaultBookingService) cachedDay(ctx context.Context, key string) (*models.DayAvailability, bool) {
	cache := utils.GetAvailabilityCacheClient()
	if cache == nil {
		return nil, false
	}
	raw, err := cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var day models.DayAvailability
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, false
	}
	return &day, true
}

func (s *DefaultBookingService) storeDay(ctx context.Context, key string, day *models.DayAvailability) {
	cache := utils.GetAvailabilityCacheClient()
	if cache == nil {
		return
	}
	raw, err := json.Marshal(day)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.AvailabilityCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if err := cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
}

// invalidateDay drops cached availability for the appointment's location and
// date after any write that changes the provider's day. Keys are walked with
// SCAN so invalidation never blocks the cache server.
func (s *DefaultBookingService) invalidateDay(ctx context.Context, appt *models.Appointment) {
	cache := utils.GetAvailabilityCacheClient()
	if cache == nil {
		return
	}
	pattern := "avail:" + appt.LocationID + ":" + appt.Start.Format("2006-01-02") + ":*"
	iter := cache.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("failed to scan availability cache", zap.String("pattern", pattern), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := cache.Del(ctx, keys...).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache", zap.String("pattern", pattern), zap.Error(err))
	}
}
