package scheduling

import (
	"context"
	"sync"
	"time"

	catalogRepo "bookery/database/repository/catalog"
	"bookery/models"
)

// fakeCatalog is an in-memory CatalogRepository for tests.
type fakeCatalog struct {
	locations map[string]*models.Location
	services  map[string]*models.Service
	providers map[string]*models.Provider
	order     []string // listing order for ListProviders
	failWith  error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		locations: map[string]*models.Location{},
		services:  map[string]*models.Service{},
		providers: map[string]*models.Provider{},
	}
}

func (f *fakeCatalog) addLocation(loc *models.Location) { f.locations[loc.ID] = loc }
func (f *fakeCatalog) addService(svc *models.Service)   { f.services[svc.ID] = svc }
func (f *fakeCatalog) addProvider(p *models.Provider) {
	f.providers[p.ID] = p
	f.order = append(f.order, p.ID)
}

func (f *fakeCatalog) GetLocation(_ context.Context, id string) (*models.Location, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	loc, ok := f.locations[id]
	if !ok {
		return nil, &catalogRepo.ErrNotFound{Kind: "location", ID: id}
	}
	return loc, nil
}

func (f *fakeCatalog) GetService(_ context.Context, id string) (*models.Service, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	svc, ok := f.services[id]
	if !ok {
		return nil, &catalogRepo.ErrNotFound{Kind: "service", ID: id}
	}
	return svc, nil
}

func (f *fakeCatalog) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.providers[id]
	if !ok {
		return nil, &catalogRepo.ErrNotFound{Kind: "provider", ID: id}
	}
	return p, nil
}

func (f *fakeCatalog) ListProviders(_ context.Context, locationID, serviceID string) ([]models.Provider, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Provider
	for _, id := range f.order {
		p := f.providers[id]
		if !p.WorksAt(locationID) {
			continue
		}
		if _, ok := p.AssignmentFor(serviceID); !ok {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// fakeAppointments is an in-memory AppointmentRepository for tests.
type fakeAppointments struct {
	mu       sync.Mutex
	appts    []models.Appointment
	failWith error
}

func (f *fakeAppointments) ListForProvider(_ context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Deleted || a.ProviderID != providerID {
			continue
		}
		if a.Start.Before(to) && a.End.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) CountStartingIn(_ context.Context, providerID string, from, to time.Time) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.appts {
		if a.Deleted || a.ProviderID != providerID {
			continue
		}
		if !a.Start.Before(from) && a.Start.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appts {
		if f.appts[i].ID == id && !f.appts[i].Deleted {
			a := f.appts[i]
			return &a, nil
		}
	}
	return nil, &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
}

func (f *fakeAppointments) Insert(_ context.Context, appt *models.Appointment) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id, status string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appts {
		if f.appts[i].ID == id && !f.appts[i].Deleted {
			f.appts[i].Status = status
			return nil
		}
	}
	return &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
}

func (f *fakeAppointments) SoftDelete(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appts {
		if f.appts[i].ID == id && !f.appts[i].Deleted {
			f.appts[i].Deleted = true
			f.appts[i].Status = models.StatusCancelled
			return nil
		}
	}
	return &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
}

func (f *fakeAppointments) ExpirePending(_ context.Context, createdBefore time.Time) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for i := range f.appts {
		a := &f.appts[i]
		if a.Deleted || a.Status != models.StatusPending {
			continue
		}
		if a.CreatedAt.Before(createdBefore) {
			a.Deleted = true
			a.Status = models.StatusCancelled
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}

// Fixture helpers.

// allWeekOpen returns seven business-hour entries with the same open window.
func allWeekOpen(r models.MinuteRange) []models.BusinessHour {
	var out []models.BusinessHour
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, models.BusinessHour{Weekday: d, Hours: r})
	}
	return out
}

// allWeekWorking returns seven working-hour entries with the same window.
func allWeekWorking(r models.MinuteRange) []models.WorkingHour {
	var out []models.WorkingHour
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, models.WorkingHour{Weekday: d, Hours: r})
	}
	return out
}

func testLocation() *models.Location {
	return &models.Location{
		ID:          "loc-main",
		Name:        "Main Street",
		Timezone:    "UTC",
		SlotMinutes: 30,
		Hours:       allWeekOpen(models.MinuteRange{Start: 9 * 60, End: 17 * 60}),
		Active:      true,
	}
}

func testService() *models.Service {
	return &models.Service{
		ID:              "svc-cut",
		Name:            "Haircut",
		DurationMinutes: 30,
		PaddingBefore:   5,
		PaddingAfter:    5,
		BasePrice:       50,
		Preference:      models.PreferSpecifiedOrder,
		OccupancyBefore: 3,
		OccupancyAfter:  3,
		Active:          true,
	}
}

func testProvider(id string, order int) *models.Provider {
	return &models.Provider{
		ID:          id,
		Name:        id,
		LocationIDs: []string{"loc-main"},
		Hours:       allWeekWorking(models.MinuteRange{Start: 9 * 60, End: 17 * 60}),
		Services: []models.ServiceAssignment{
			{ServiceID: "svc-cut", DisplayOrder: order},
		},
		Active: true,
	}
}

// nextWeekday returns the first date at or after base falling on the weekday.
func nextWeekday(base time.Time, day time.Weekday) time.Time {
	for base.Weekday() != day {
		base = base.AddDate(0, 0, 1)
	}
	return base
}

func at(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

func apptOn(id, providerID string, date time.Time, startHM, endHM [2]int, padBefore, padAfter int) models.Appointment {
	return models.Appointment{
		ID:            id,
		ProviderID:    providerID,
		ServiceID:     "svc-cut",
		CustomerID:    "cust-1",
		LocationID:    "loc-main",
		Start:         at(date, startHM[0], startHM[1]),
		End:           at(date, endHM[0], endHM[1]),
		PaddingBefore: padBefore,
		PaddingAfter:  padAfter,
		Status:        models.StatusConfirmed,
		CreatedAt:     time.Now(),
	}
}

func requireNoError(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
