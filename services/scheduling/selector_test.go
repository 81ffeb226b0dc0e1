package scheduling

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"bookery/models"
)

func float(v float64) *float64 { return &v }

func rankedIDs(ranked []models.RankedProvider) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.ProviderID)
	}
	return out
}

func wantOrder(t *testing.T, ranked []models.RankedProvider, want ...string) {
	t.Helper()
	got := rankedIDs(ranked)
	if len(got) != len(want) {
		t.Fatalf("ranked = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("ranked = %v, want %v", got, want)
		}
	}
}

func selectorProviders(prices map[string]float64, order ...string) []models.Provider {
	var out []models.Provider
	for i, id := range order {
		p := testProvider(id, i+1)
		if price, ok := prices[id]; ok {
			p.Services[0].PriceOverride = float(price)
		}
		out = append(out, *p)
	}
	return out
}

func TestRankSpecifiedOrder(t *testing.T) {
	s := &Selector{Appointments: &fakeAppointments{}}
	svc := testService()
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)

	providers := []models.Provider{
		*testProvider("p-carla", 3),
		*testProvider("p-anna", 1),
		*testProvider("p-ben", 2),
	}

	ranked, err := s.Rank(context.Background(), svc, providers, monday)
	requireNoError(t, err)
	wantOrder(t, ranked, "p-anna", "p-ben", "p-carla")
}

func TestRankByPrice(t *testing.T) {
	s := &Selector{Appointments: &fakeAppointments{}}
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)

	// p-ben keeps the 50 base price, the others override it.
	providers := selectorProviders(map[string]float64{
		"p-anna":  80,
		"p-carla": 35,
	}, "p-anna", "p-ben", "p-carla")

	t.Run("most expensive first", func(t *testing.T) {
		svc := testService()
		svc.Preference = models.PreferMostExpensive
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		wantOrder(t, ranked, "p-anna", "p-ben", "p-carla")
		if ranked[0].Score != 80 || ranked[2].Score != 35 {
			t.Fatalf("scores = %v", ranked)
		}
	})

	t.Run("least expensive first", func(t *testing.T) {
		svc := testService()
		svc.Preference = models.PreferLeastExpensive
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		wantOrder(t, ranked, "p-carla", "p-ben", "p-anna")
	})
}

func TestRankByOccupancy(t *testing.T) {
	appts := &fakeAppointments{}
	s := &Selector{Appointments: appts}
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)

	// p-anna has two bookings inside the occupancy window, p-ben one, and
	// p-carla one outside it (beyond the 3-day horizon). The occupancy window
	// is half-open: p-ben's booking exactly at the closing midnight does not
	// count.
	appts.appts = []models.Appointment{
		apptOn("a1", "p-anna", monday, [2]int{9, 0}, [2]int{9, 30}, 5, 5),
		apptOn("a2", "p-anna", monday.AddDate(0, 0, 2), [2]int{9, 0}, [2]int{9, 30}, 5, 5),
		apptOn("a3", "p-ben", monday, [2]int{11, 0}, [2]int{11, 30}, 5, 5),
		apptOn("a4", "p-carla", monday.AddDate(0, 0, 5), [2]int{9, 0}, [2]int{9, 30}, 5, 5),
		apptOn("a5", "p-ben", monday.AddDate(0, 0, 4), [2]int{0, 0}, [2]int{0, 30}, 5, 5),
	}

	providers := selectorProviders(nil, "p-anna", "p-ben", "p-carla")

	t.Run("least occupied first", func(t *testing.T) {
		svc := testService()
		svc.Preference = models.PreferLeastOccupiedDay
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		wantOrder(t, ranked, "p-carla", "p-ben", "p-anna")
		if ranked[2].Score != 2 {
			t.Fatalf("p-anna score = %v, want 2", ranked[2].Score)
		}
	})

	t.Run("most occupied first", func(t *testing.T) {
		svc := testService()
		svc.Preference = models.PreferMostOccupiedDay
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		wantOrder(t, ranked, "p-anna", "p-ben", "p-carla")
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		svc := testService()
		svc.Preference = models.PreferLeastOccupiedDay
		appts.failWith = errors.New("timeout")
		defer func() { appts.failWith = nil }()
		_, err := s.Rank(context.Background(), svc, providers, monday)
		var se *StorageError
		if !errors.As(err, &se) {
			t.Fatalf("err = %v, want StorageError", err)
		}
	})
}

func TestRankTiedScoresFallBackToDisplayOrder(t *testing.T) {
	s := &Selector{Appointments: &fakeAppointments{}}
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	svc := testService()
	svc.Preference = models.PreferLeastExpensive

	// All three at the base price; display order decides.
	providers := []models.Provider{
		*testProvider("p-carla", 3),
		*testProvider("p-ben", 2),
		*testProvider("p-anna", 1),
	}

	ranked, err := s.Rank(context.Background(), svc, providers, monday)
	requireNoError(t, err)
	wantOrder(t, ranked, "p-anna", "p-ben", "p-carla")
}

func TestRankRandomTieShufflesOnlyWithinTies(t *testing.T) {
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	svc := testService()
	svc.Preference = models.PreferLeastExpensive
	svc.RandomTie = true

	// p-cheap is strictly cheapest and must always stay first; the two at the
	// base price may land in either order behind it.
	providers := selectorProviders(map[string]float64{
		"p-cheap": 10,
	}, "p-cheap", "p-anna", "p-ben")

	seen := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		s := &Selector{
			Appointments: &fakeAppointments{},
			Rand:         rand.New(rand.NewSource(seed)),
		}
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		if ranked[0].ProviderID != "p-cheap" {
			t.Fatalf("seed %d: cheapest not first: %v", seed, rankedIDs(ranked))
		}
		seen[ranked[1].ProviderID] = true
	}
	if !seen["p-anna"] || !seen["p-ben"] {
		t.Fatalf("tie never shuffled across 20 seeds: %v", seen)
	}
}

// Over many trials a tied group must land in each permutation with roughly
// equal frequency.
func TestRankRandomTieUniformAcrossTrials(t *testing.T) {
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	svc := testService()
	svc.RandomTie = true

	providers := selectorProviders(nil, "p-anna", "p-ben", "p-carla")
	for i := range providers {
		providers[i].Services[0].DisplayOrder = 1 // all tied
	}

	s := &Selector{
		Appointments: &fakeAppointments{},
		Rand:         rand.New(rand.NewSource(7)),
	}

	const trials = 6000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		counts[strings.Join(rankedIDs(ranked), ",")]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d orderings, want all 3! = 6: %v", len(counts), counts)
	}
	// Uniform target is 1/6 ≈ 0.167; allow generous sampling slack.
	for perm, n := range counts {
		freq := float64(n) / trials
		if freq < 0.12 || freq > 0.21 {
			t.Fatalf("ordering %s frequency %.3f outside [0.12, 0.21]", perm, freq)
		}
	}
}

func TestRankSeededRandIsReproducible(t *testing.T) {
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	svc := testService()
	svc.RandomTie = true

	providers := selectorProviders(nil, "p-anna", "p-ben", "p-carla")
	for i := range providers {
		providers[i].Services[0].DisplayOrder = 1 // all tied
	}

	run := func() []string {
		s := &Selector{
			Appointments: &fakeAppointments{},
			Rand:         rand.New(rand.NewSource(42)),
		}
		ranked, err := s.Rank(context.Background(), svc, providers, monday)
		requireNoError(t, err)
		return rankedIDs(ranked)
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed gave %v then %v", first, second)
		}
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	s := &Selector{Appointments: &fakeAppointments{}}
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)

	ranked, err := s.Rank(context.Background(), testService(), nil, monday)
	requireNoError(t, err)
	if len(ranked) != 0 {
		t.Fatalf("ranked = %v, want empty", ranked)
	}
}

func TestPick(t *testing.T) {
	s := &Selector{Appointments: &fakeAppointments{}}
	monday := nextWeekday(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	svc := testService()

	t.Run("best candidate wins", func(t *testing.T) {
		providers := selectorProviders(nil, "p-anna", "p-ben")
		id, err := s.Pick(context.Background(), svc, "loc-main", providers, monday)
		requireNoError(t, err)
		if id != "p-anna" {
			t.Fatalf("picked %s, want p-anna", id)
		}
	})

	t.Run("empty set is a selection failure", func(t *testing.T) {
		_, err := s.Pick(context.Background(), svc, "loc-main", nil, monday)
		var ne *NoEligibleProviderError
		if !errors.As(err, &ne) {
			t.Fatalf("err = %v, want NoEligibleProviderError", err)
		}
	})
}
