// Package memory is a process-local store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]domain.Appointment
	users        map[uuid.UUID]domain.User
	services     map[uuid.UUID]domain.Service
	staff        map[uuid.UUID]domain.Staff

	locksMu    sync.Mutex
	staffLocks map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

var (
	_ store.AppointmentRepository = (*Store)(nil)
	_ store.CatalogRepository     = (*Store)(nil)
	_ store.CatalogSeeder         = (*Store)(nil)
)

func New() *Store {
	return &Store{
		appointments: make(map[uuid.UUID]domain.Appointment),
		users:        make(map[uuid.UUID]domain.User),
		services:     make(map[uuid.UUID]domain.Service),
		staff:        make(map[uuid.UUID]domain.Staff),
		staffLocks:   make(map[uuid.UUID]*sync.Mutex),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) staffLock(staffID uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.staffLocks[staffID]
	if !ok {
		l = &sync.Mutex{}
		s.staffLocks[staffID] = l
	}
	return l
}

func (s *Store) InStaffTransaction(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx store.StaffCalendarTx) error) error {
	l := s.staffLock(staffID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &calendarTx{s: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Transactions for other staff may have committed the same id since InsertAppointment looked.
	seen := make(map[uuid.UUID]struct{}, len(tx.pending))
	for _, a := range tx.pending {
		if _, ok := s.appointments[a.ID]; ok {
			return store.ErrDuplicateID
		}
		if _, ok := seen[a.ID]; ok {
			return store.ErrDuplicateID
		}
		seen[a.ID] = struct{}{}
	}
	for _, a := range tx.pending {
		s.appointments[a.ID] = a
	}
	return nil
}

// calendarTx buffers inserts until the transaction callback succeeds.
type calendarTx struct {
	s       *Store
	pending []domain.Appointment
}

func (t *calendarTx) CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error) {
	n, err := t.s.CountActiveAt(ctx, staffID, startTime)
	if err != nil {
		return 0, err
	}
	for _, a := range t.pending {
		if a.HasStaff(staffID) && a.IsActive() && a.StartTime.Equal(startTime) {
			n++
		}
	}
	return n, nil
}

func (t *calendarTx) ListActive(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	rows, err := t.s.ListActiveByStaff(ctx, staffID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	window := domain.Interval{Start: windowStart, End: windowEnd}
	for _, a := range t.pending {
		if a.HasStaff(staffID) && a.IsActive() && a.Interval().Overlaps(window) {
			rows = append(rows, a)
		}
	}
	sortByStart(rows)
	return rows, nil
}

func (t *calendarTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if appt.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Appointment{}, err
		}
		appt.ID = id
	}
	if appt.Status == "" {
		appt.Status = domain.StatusPending
	}
	appt.EndTime = appt.Interval().End
	now := t.s.now()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	if appt.UpdatedAt.IsZero() {
		appt.UpdatedAt = now
	}

	t.s.mu.RLock()
	_, exists := t.s.appointments[appt.ID]
	t.s.mu.RUnlock()
	if exists {
		return domain.Appointment{}, store.ErrDuplicateID
	}

	// Mirrors the exclusion constraint on active staff intervals.
	if appt.StaffID != nil && appt.IsActive() {
		iv := appt.Interval()
		overlapping, err := t.ListActive(ctx, *appt.StaffID, iv.Start, iv.End)
		if err != nil {
			return domain.Appointment{}, err
		}
		if len(overlapping) > 0 {
			return domain.Appointment{}, store.ErrConflict
		}
	}

	t.pending = append(t.pending, appt)
	return appt, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	if a.Status != from {
		return domain.Appointment{}, store.ErrStatusChanged
	}
	a.Status = to
	a.UpdatedAt = s.now()
	s.appointments[id] = a
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	window := domain.Interval{Start: windowStart, End: windowEnd}
	return s.filter(ctx, func(a domain.Appointment) bool {
		return a.HasStaff(staffID) && a.IsActive() && a.Interval().Overlaps(window)
	}, sortByStart)
}

func (s *Store) CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error) {
	rows, err := s.filter(ctx, func(a domain.Appointment) bool {
		return a.HasStaff(staffID) && a.IsActive() && a.StartTime.Equal(startTime)
	}, nil)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	return s.filter(ctx, func(a domain.Appointment) bool {
		return a.ClientID == userID
	}, func(rows []domain.Appointment) {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartTime.After(rows[j].StartTime) })
	})
}

func (s *Store) ListUpcomingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	return s.filter(ctx, func(a domain.Appointment) bool {
		return a.ClientID == userID && a.IsActive()
	}, sortByStart)
}

func (s *Store) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error) {
	return s.filter(ctx, func(a domain.Appointment) bool {
		return a.HasStaff(staffID)
	}, sortByStart)
}

func (s *Store) filter(ctx context.Context, keep func(domain.Appointment) bool, order func([]domain.Appointment)) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Appointment
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	if order != nil {
		order(out)
	}
	return out, nil
}

func sortByStart(rows []domain.Appointment) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StartTime.Equal(rows[j].StartTime) {
			return rows[i].ID.String() < rows[j].ID.String()
		}
		return rows[i].StartTime.Before(rows[j].StartTime)
	})
}
