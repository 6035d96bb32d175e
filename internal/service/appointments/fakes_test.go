package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
	"barberbook/backend/internal/store/memory"
)

type fakeRepo struct {
	inStaffTxFn         func(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx store.StaffCalendarTx) error) error
	updateStatusFn      func(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error)
	getByIDFn           func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	listActiveByStaffFn func(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	countActiveAtFn     func(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error)
}

func (f *fakeRepo) InStaffTransaction(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx store.StaffCalendarTx) error) error {
	if f.inStaffTxFn == nil {
		panic("InStaffTransaction not configured")
	}
	return f.inStaffTxFn(ctx, staffID, fn)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error) {
	if f.updateStatusFn == nil {
		panic("UpdateStatus not configured")
	}
	return f.updateStatusFn(ctx, id, from, to)
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeRepo) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if f.listActiveByStaffFn == nil {
		panic("ListActiveByStaff not configured")
	}
	return f.listActiveByStaffFn(ctx, staffID, windowStart, windowEnd)
}

func (f *fakeRepo) CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error) {
	if f.countActiveAtFn == nil {
		panic("CountActiveAt not configured")
	}
	return f.countActiveAtFn(ctx, staffID, startTime)
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	panic("ListByUser not configured")
}

func (f *fakeRepo) ListUpcomingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	panic("ListUpcomingByUser not configured")
}

func (f *fakeRepo) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error) {
	panic("ListByStaff not configured")
}

type fakeCatalog struct {
	staff domain.Staff
}

func (f *fakeCatalog) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	return domain.Service{}, store.ErrNotFound
}

func (f *fakeCatalog) GetStaff(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	if id != f.staff.ID {
		return domain.Staff{}, store.ErrNotFound
	}
	return f.staff, nil
}

func (f *fakeCatalog) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return domain.User{}, store.ErrNotFound
}

func (f *fakeCatalog) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	return nil, nil
}

func (f *fakeCatalog) ListAvailableStaff(ctx context.Context) ([]domain.Staff, error) {
	return []domain.Staff{f.staff}, nil
}

// fakeSlotCache stores UTC copies like the Redis cache and honors generations.
type fakeSlotCache struct {
	entries     map[string][]time.Time
	gens        map[string]int64
	invalidated []string
	staleSets   int
	getErr      error
}

func (c *fakeSlotCache) key(staffID uuid.UUID, day string) string {
	return staffID.String() + "/" + day
}

func (c *fakeSlotCache) Get(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int) ([]time.Time, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	k := c.key(staffID, day)
	v, ok := c.entries[k]
	return v, c.gens[k], ok, nil
}

func (c *fakeSlotCache) Set(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int, gen int64, slots []time.Time) error {
	k := c.key(staffID, day)
	if c.gens[k] != gen {
		c.staleSets++
		return nil
	}
	if c.entries == nil {
		c.entries = make(map[string][]time.Time)
	}
	utc := make([]time.Time, len(slots))
	for i, t := range slots {
		utc[i] = t.UTC()
	}
	c.entries[k] = utc
	return nil
}

func (c *fakeSlotCache) Invalidate(ctx context.Context, staffID uuid.UUID, day string) error {
	k := c.key(staffID, day)
	if c.gens == nil {
		c.gens = make(map[string]int64)
	}
	c.gens[k]++
	delete(c.entries, k)
	c.invalidated = append(c.invalidated, day)
	return nil
}

// bookingDuringRead commits a booking right after the first slot read returns.
type bookingDuringRead struct {
	*memory.Store
	book func()
}

func (r *bookingDuringRead) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	rows, err := r.Store.ListActiveByStaff(ctx, staffID, windowStart, windowEnd)
	if book := r.book; book != nil {
		r.book = nil
		book()
	}
	return rows, err
}

func utcService(repo store.AppointmentRepository, catalog store.CatalogRepository, opts ...Option) *Service {
	hours := domain.DefaultBusinessHours()
	hours.Location = time.UTC
	base := []Option{WithBusinessHours(hours), WithClock(func() time.Time { return testNow })}
	return NewService(repo, catalog, append(base, opts...)...)
}

func TestStoreFailuresAreRetryable(t *testing.T) {
	down := errors.New("connection reset")
	svc := utcService(&fakeRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{}, down
		},
	}, &fakeCatalog{})

	_, err := svc.ConfirmAppointment(context.Background(), uuid.New())
	var sErr *StoreError
	if !errors.As(err, &sErr) {
		t.Fatalf("err = %T %v, want *StoreError", err, err)
	}
	if !errors.Is(err, down) {
		t.Fatalf("StoreError does not wrap cause: %v", err)
	}
	if !IsRetryable(err) {
		t.Fatalf("IsRetryable = false, want true")
	}
	if IsRetryable(ErrPastDate) || IsRetryable(&InvalidTransitionError{}) {
		t.Fatalf("permanent errors must not be retryable")
	}
}

func TestTransition_RetriesLostRaceThenRevalidates(t *testing.T) {
	id := uuid.New()
	reads := 0
	svc := utcService(&fakeRepo{
		getByIDFn: func(ctx context.Context, got uuid.UUID) (domain.Appointment, error) {
			reads++
			if reads == 1 {
				return domain.Appointment{ID: id, Status: domain.StatusPending}, nil
			}
			return domain.Appointment{ID: id, Status: domain.StatusCancelled}, nil
		},
		updateStatusFn: func(ctx context.Context, got uuid.UUID, from, to domain.Status) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrStatusChanged
		},
	}, &fakeCatalog{})

	_, err := svc.ConfirmAppointment(context.Background(), id)
	var tErr *InvalidTransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("err = %v, want *InvalidTransitionError", err)
	}
	if tErr.From != domain.StatusCancelled || tErr.To != domain.StatusConfirmed {
		t.Fatalf("transition = %s -> %s", tErr.From, tErr.To)
	}
	if reads != 2 {
		t.Fatalf("reads = %d, want 2", reads)
	}
}

func TestTransition_GivesUpAfterRepeatedRaces(t *testing.T) {
	svc := utcService(&fakeRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: id, Status: domain.StatusPending}, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrStatusChanged
		},
	}, &fakeCatalog{})

	_, err := svc.CancelAppointment(context.Background(), uuid.New())
	if !IsRetryable(err) {
		t.Fatalf("err = %v, want retryable StoreError", err)
	}
}

func TestAvailableSlots_UsesCacheAndAppliesNowFilter(t *testing.T) {
	staff := domain.Staff{ID: uuid.New(), Name: "Carlos", IsAvailable: true}
	queries := 0
	repo := &fakeRepo{
		listActiveByStaffFn: func(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
			queries++
			if !windowStart.Equal(at(9, 0)) || !windowEnd.Equal(at(20, 30)) {
				t.Fatalf("window = [%v, %v), want [09:00, 20:30)", windowStart, windowEnd)
			}
			return nil, nil
		},
	}
	cache := &fakeSlotCache{}
	now := testNow
	svc := utcService(repo, &fakeCatalog{staff: staff}, WithSlotCache(cache), WithClock(func() time.Time { return now }))

	first, err := svc.AvailableSlots(context.Background(), staff.ID, testNow, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(first) != 22 {
		t.Fatalf("len(first) = %d, want 22", len(first))
	}

	now = at(12, 0)
	second, err := svc.AvailableSlots(context.Background(), staff.ID, testNow, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if queries != 1 {
		t.Fatalf("store queries = %d, want 1", queries)
	}
	if len(second) == 0 || !second[0].Equal(at(12, 30)) {
		t.Fatalf("cached slots not filtered by now: %v", second)
	}

	cache.getErr = errors.New("redis down")
	if _, err := svc.AvailableSlots(context.Background(), staff.ID, testNow, 30); err != nil {
		t.Fatalf("cache failure surfaced: %v", err)
	}
	if queries != 2 {
		t.Fatalf("store queries = %d, want 2", queries)
	}
}

func TestMutationsInvalidateSlotCache(t *testing.T) {
	f := newFixture(t)
	cache := &fakeSlotCache{}
	f.svc.cache = cache

	if _, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 30); err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(cache.entries))
	}

	appt := f.create(t, at(10, 0), 30)
	if len(cache.entries) != 0 {
		t.Fatalf("cache not invalidated after create")
	}
	slots, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if containsTime(slots, at(10, 0)) {
		t.Fatalf("stale slot served after create: %v", slots)
	}

	if _, err := f.svc.CancelAppointment(context.Background(), appt.ID); err != nil {
		t.Fatalf("CancelAppointment error: %v", err)
	}
	if len(cache.invalidated) != 2 || cache.invalidated[1] != "2026-03-10" {
		t.Fatalf("invalidated = %v", cache.invalidated)
	}
}

func TestAvailableSlots_BookingDuringReadDoesNotLeaveStaleCache(t *testing.T) {
	f := newFixture(t)
	cache := &fakeSlotCache{}
	repo := &bookingDuringRead{Store: f.store}
	svc := NewService(repo, f.store,
		WithBusinessHours(f.svc.hours),
		WithClock(func() time.Time { return testNow }),
		WithSlotCache(cache),
	)
	repo.book = func() {
		staffID := f.staff.ID
		if _, err := svc.CreateAppointment(context.Background(), CreateInput{
			ClientID:        f.client.ID,
			StaffID:         &staffID,
			ServiceID:       f.service.ID,
			StartTime:       at(10, 0),
			DurationMinutes: 30,
		}); err != nil {
			t.Fatalf("CreateAppointment error: %v", err)
		}
	}

	if _, err := svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 30); err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if cache.staleSets != 1 || len(cache.entries) != 0 {
		t.Fatalf("staleSets = %d, entries = %d; list read before the booking was cached", cache.staleSets, len(cache.entries))
	}

	slots, err := svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if containsTime(slots, at(10, 0)) {
		t.Fatalf("booked 10:00 still offered: %v", slots)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("fresh list not cached")
	}
}

func TestAvailableSlots_CacheHitKeepsBusinessLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	hours := domain.DefaultBusinessHours()
	hours.Location = loc
	f := newFixture(t, WithBusinessHours(hours), WithSlotCache(&fakeSlotCache{}))
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)

	miss, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, day, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	hit, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, day, 30)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(miss) == 0 || len(miss) != len(hit) {
		t.Fatalf("len(miss) = %d, len(hit) = %d", len(miss), len(hit))
	}
	for i := range miss {
		if miss[i].String() != hit[i].String() {
			t.Fatalf("slot %d: miss %v, hit %v", i, miss[i], hit[i])
		}
	}
}

func TestMutationsInvalidatePreviousDayOverrun(t *testing.T) {
	f := newFixture(t)
	cache := &fakeSlotCache{}
	f.svc.cache = cache

	// With a five hour service the last slot of the 10th runs past midnight.
	before, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 300)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if !containsTime(before, at(19, 30)) {
		t.Fatalf("19:30 not offered: %v", before)
	}

	f.create(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), 30)
	if len(cache.invalidated) != 2 || cache.invalidated[0] != "2026-03-10" || cache.invalidated[1] != "2026-03-11" {
		t.Fatalf("invalidated = %v", cache.invalidated)
	}

	after, err := f.svc.AvailableSlots(context.Background(), f.staff.ID, testNow, 300)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if containsTime(after, at(19, 30)) {
		t.Fatalf("19:30 still offered after the next day's booking: %v", after)
	}
}

func TestCreateAppointment_TruncatesStartToMicroseconds(t *testing.T) {
	f := newFixture(t)
	staffID := f.staff.ID
	in := CreateInput{
		ClientID:        f.client.ID,
		StaffID:         &staffID,
		ServiceID:       f.service.ID,
		StartTime:       at(11, 0).Add(1500 * time.Nanosecond),
		DurationMinutes: 30,
		IdempotencyKey:  "retry-1",
	}

	first, err := f.svc.CreateAppointment(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateAppointment error: %v", err)
	}
	if want := at(11, 0).Add(time.Microsecond); !first.StartTime.Equal(want) {
		t.Fatalf("StartTime = %v, want %v", first.StartTime, want)
	}

	in.StartTime = in.StartTime.Add(200 * time.Nanosecond)
	again, err := f.svc.CreateAppointment(context.Background(), in)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("replay id = %s, want %s", again.ID, first.ID)
	}
}
