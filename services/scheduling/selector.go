package scheduling

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	appointmentRepo "bookery/database/repository/appointment"
	"bookery/models"
)

// Selector ranks eligible providers for a service under the service's
// preference strategy.
type Selector struct {
	Appointments appointmentRepo.AppointmentRepository

	// Rand drives tie-break shuffling. Leave nil for a time-seeded source;
	// inject a seeded one when reproducible ordering is needed in tests.
	Rand   *rand.Rand
	randMu sync.Mutex
	once   sync.Once
}

type rankedEntry struct {
	provider *models.Provider
	score    float64
	order    int // the provider's specified display order for the service
}

// Rank scores and orders the candidate providers. An empty candidate set
// yields an empty list and no error; callers distinguish "no qualified
// provider" from "no available slot".
func (s *Selector) Rank(ctx context.Context, svc *models.Service, providers []models.Provider, date time.Time) ([]models.RankedProvider, error) {
	if len(providers) == 0 {
		return []models.RankedProvider{}, nil
	}

	entries := make([]rankedEntry, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		order := 0
		if sa, ok := p.AssignmentFor(svc.ID); ok {
			order = sa.DisplayOrder
		}
		e := rankedEntry{provider: p, order: order}

		switch svc.Preference {
		case models.PreferMostExpensive, models.PreferLeastExpensive:
			e.score = p.PriceFor(svc)
		case models.PreferLeastOccupiedDay, models.PreferMostOccupiedDay:
			n, err := s.occupancy(ctx, p.ID, svc, date)
			if err != nil {
				return nil, err
			}
			e.score = float64(n)
		}
		entries = append(entries, e)
	}

	descending := svc.Preference == models.PreferMostExpensive || svc.Preference == models.PreferMostOccupiedDay
	byOrder := svc.Preference == models.PreferSpecifiedOrder || svc.Preference == ""

	sort.SliceStable(entries, func(i, j int) bool {
		if byOrder {
			return entries[i].order < entries[j].order
		}
		if entries[i].score != entries[j].score {
			if descending {
				return entries[i].score > entries[j].score
			}
			return entries[i].score < entries[j].score
		}
		// Tied scores fall back to display order.
		return entries[i].order < entries[j].order
	})

	if svc.RandomTie {
		s.shuffleTies(entries, byOrder)
	}

	out := make([]models.RankedProvider, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.RankedProvider{ProviderID: e.provider.ID, Score: e.score})
	}
	return out, nil
}

// Pick returns the single best provider, or NoEligibleProviderError when the
// candidate set is empty.
func (s *Selector) Pick(ctx context.Context, svc *models.Service, locationID string, providers []models.Provider, date time.Time) (string, error) {
	ranked, err := s.Rank(ctx, svc, providers, date)
	if err != nil {
		return "", err
	}
	if len(ranked) == 0 {
		return "", &NoEligibleProviderError{ServiceID: svc.ID, LocationID: locationID}
	}
	return ranked[0].ProviderID, nil
}

// occupancy counts the provider's non-deleted appointments starting within
// the service's occupancy window around the date.
func (s *Selector) occupancy(ctx context.Context, providerID string, svc *models.Service, date time.Time) (int, error) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	from := midnight.AddDate(0, 0, -svc.OccupancyBefore)
	to := midnight.AddDate(0, 0, svc.OccupancyAfter+1)
	n, err := s.Appointments.CountStartingIn(ctx, providerID, from, to)
	if err != nil {
		return 0, &StorageError{Op: "count appointments", Err: err}
	}
	return n, nil
}

// shuffleTies applies a uniform random permutation within each group of
// equally-ranked providers, keeping group order intact. Each group is
// shuffled independently.
func (s *Selector) shuffleTies(entries []rankedEntry, byOrder bool) {
	sameRank := func(a, b rankedEntry) bool {
		if byOrder {
			return a.order == b.order
		}
		return a.score == b.score
	}

	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || !sameRank(entries[i], entries[start]) {
			if group := entries[start:i]; len(group) > 1 {
				s.shuffle(group)
			}
			start = i
		}
	}
}

func (s *Selector) shuffle(group []rankedEntry) {
	s.once.Do(func() {
		if s.Rand == nil {
			s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	})
	s.randMu.Lock()
	defer s.randMu.Unlock()
	s.Rand.Shuffle(len(group), func(i, j int) {
		group[i], group[j] = group[j], group[i]
	})
}
