package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

func staffPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func insert(t *testing.T, s *Store, appt domain.Appointment) (domain.Appointment, error) {
	t.Helper()
	var out domain.Appointment
	err := s.InStaffTransaction(context.Background(), *appt.StaffID, func(ctx context.Context, tx store.StaffCalendarTx) error {
		a, err := tx.InsertAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

func TestInStaffTransaction_RejectsOverlapAndAllowsTouching(t *testing.T) {
	s := New()
	staffID := uuid.New()
	start := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	a1, err := insert(t, s, domain.Appointment{ClientID: uuid.New(), StaffID: staffPtr(staffID), StartTime: start, DurationMinutes: 45})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if a1.ID == uuid.Nil || a1.Status != domain.StatusPending {
		t.Fatalf("unexpected inserted row: %+v", a1)
	}
	if !a1.EndTime.Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("end_time = %v, want %v", a1.EndTime, start.Add(45*time.Minute))
	}

	_, err = insert(t, s, domain.Appointment{ClientID: uuid.New(), StaffID: staffPtr(staffID), StartTime: start.Add(30 * time.Minute), DurationMinutes: 30})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("overlap err = %v, want %v", err, store.ErrConflict)
	}

	if _, err := insert(t, s, domain.Appointment{ClientID: uuid.New(), StaffID: staffPtr(staffID), StartTime: start.Add(45 * time.Minute), DurationMinutes: 30}); err != nil {
		t.Fatalf("touching insert error: %v", err)
	}

	if _, err := insert(t, s, domain.Appointment{ClientID: uuid.New(), StaffID: staffPtr(uuid.New()), StartTime: start, DurationMinutes: 45}); err != nil {
		t.Fatalf("other staff insert error: %v", err)
	}
}

func TestInStaffTransaction_DiscardsInsertsOnError(t *testing.T) {
	s := New()
	staffID := uuid.New()
	boom := errors.New("boom")

	err := s.InStaffTransaction(context.Background(), staffID, func(ctx context.Context, tx store.StaffCalendarTx) error {
		if _, err := tx.InsertAppointment(ctx, domain.Appointment{
			ClientID:        uuid.New(),
			StaffID:         staffPtr(staffID),
			StartTime:       time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	rows, err := s.ListByStaff(context.Background(), staffID)
	if err != nil {
		t.Fatalf("ListByStaff error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0", len(rows))
	}
}

func TestInStaffTransaction_ConcurrentSameSlotOneWins(t *testing.T) {
	s := New()
	staffID := uuid.New()
	start := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.InStaffTransaction(context.Background(), staffID, func(ctx context.Context, tx store.StaffCalendarTx) error {
				count, err := tx.CountActiveAt(ctx, staffID, start)
				if err != nil {
					return err
				}
				if count > 0 {
					return store.ErrConflict
				}
				_, err = tx.InsertAppointment(ctx, domain.Appointment{
					ClientID:        uuid.New(),
					StaffID:         staffPtr(staffID),
					StartTime:       start,
					DurationMinutes: 30,
				})
				return err
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, store.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful inserts = %d, want 1", ok)
	}
}

func TestInStaffTransaction_RejectsIDCommittedByOtherStaff(t *testing.T) {
	s := New()
	staffA, staffB := uuid.New(), uuid.New()
	id := uuid.New()
	start := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	// staffB commits the same id while staffA's transaction is still open.
	var errB error
	errA := s.InStaffTransaction(context.Background(), staffA, func(ctx context.Context, tx store.StaffCalendarTx) error {
		if _, err := tx.InsertAppointment(ctx, domain.Appointment{ID: id, ClientID: uuid.New(), StaffID: staffPtr(staffA), StartTime: start, DurationMinutes: 30}); err != nil {
			return err
		}
		_, errB = insert(t, s, domain.Appointment{ID: id, ClientID: uuid.New(), StaffID: staffPtr(staffB), StartTime: start, DurationMinutes: 30})
		return nil
	})
	if errB != nil {
		t.Fatalf("first commit error: %v", errB)
	}
	if !errors.Is(errA, store.ErrDuplicateID) {
		t.Fatalf("second commit err = %v, want %v", errA, store.ErrDuplicateID)
	}

	got, err := s.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !got.HasStaff(staffB) {
		t.Fatalf("committed row was overwritten: %+v", got)
	}
	if rows, _ := s.ListByStaff(context.Background(), staffA); len(rows) != 0 {
		t.Fatalf("staffA rows = %d, want 0", len(rows))
	}
}

func TestInStaffTransaction_RejectsDuplicateIDWithinTransaction(t *testing.T) {
	s := New()
	staffID := uuid.New()
	id := uuid.New()
	start := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	err := s.InStaffTransaction(context.Background(), staffID, func(ctx context.Context, tx store.StaffCalendarTx) error {
		for i := 0; i < 2; i++ {
			appt := domain.Appointment{ID: id, ClientID: uuid.New(), StaffID: staffPtr(staffID), StartTime: start.Add(time.Duration(i) * time.Hour), DurationMinutes: 30}
			if _, err := tx.InsertAppointment(ctx, appt); err != nil {
				return err
			}
		}
		return nil
	})
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("err = %v, want %v", err, store.ErrDuplicateID)
	}
}

func TestUpdateStatus_ConditionalWrite(t *testing.T) {
	s := New()
	staffID := uuid.New()
	a, err := insert(t, s, domain.Appointment{ClientID: uuid.New(), StaffID: staffPtr(staffID), StartTime: time.Now().Add(time.Hour), DurationMinutes: 30})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}

	got, err := s.UpdateStatus(context.Background(), a.ID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if got.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusConfirmed)
	}

	_, err = s.UpdateStatus(context.Background(), a.ID, domain.StatusPending, domain.StatusCancelled)
	if !errors.Is(err, store.ErrStatusChanged) {
		t.Fatalf("err = %v, want %v", err, store.ErrStatusChanged)
	}

	_, err = s.UpdateStatus(context.Background(), uuid.New(), domain.StatusPending, domain.StatusCancelled)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestListQueries_FilterAndOrder(t *testing.T) {
	s := New()
	staffID := uuid.New()
	clientID := uuid.New()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	early, _ := insert(t, s, domain.Appointment{ClientID: clientID, StaffID: staffPtr(staffID), StartTime: base, DurationMinutes: 30})
	late, _ := insert(t, s, domain.Appointment{ClientID: clientID, StaffID: staffPtr(staffID), StartTime: base.Add(3 * time.Hour), DurationMinutes: 30})
	if _, err := s.UpdateStatus(context.Background(), early.ID, domain.StatusPending, domain.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	all, err := s.ListByUser(context.Background(), clientID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(all) != 2 || all[0].ID != late.ID {
		t.Fatalf("ListByUser = %+v, want newest first", all)
	}

	upcoming, err := s.ListUpcomingByUser(context.Background(), clientID)
	if err != nil {
		t.Fatalf("ListUpcomingByUser error: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != late.ID {
		t.Fatalf("ListUpcomingByUser = %+v, want only active", upcoming)
	}

	active, err := s.ListActiveByStaff(context.Background(), staffID, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListActiveByStaff error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("len(active) = %d, want 1", len(active))
	}

	n, err := s.CountActiveAt(context.Background(), staffID, base)
	if err != nil {
		t.Fatalf("CountActiveAt error: %v", err)
	}
	if n != 0 {
		t.Fatalf("CountActiveAt cancelled slot = %d, want 0", n)
	}
}

func TestSeedCatalog_IdempotentAndSorted(t *testing.T) {
	s := New()
	c := store.DemoCatalog()

	added, err := s.SeedCatalog(context.Background(), c)
	if err != nil {
		t.Fatalf("SeedCatalog error: %v", err)
	}
	if want := len(c.Users) + len(c.Services) + len(c.Staff); added != want {
		t.Fatalf("added = %d, want %d", added, want)
	}

	added, err = s.SeedCatalog(context.Background(), c)
	if err != nil {
		t.Fatalf("SeedCatalog error: %v", err)
	}
	if added != 0 {
		t.Fatalf("reseed added = %d, want 0", added)
	}

	staff, err := s.ListAvailableStaff(context.Background())
	if err != nil {
		t.Fatalf("ListAvailableStaff error: %v", err)
	}
	if len(staff) != 3 || staff[0].Name != "Andrés Master" {
		t.Fatalf("ListAvailableStaff = %+v, want name order", staff)
	}

	services, err := s.ListActiveServices(context.Background())
	if err != nil {
		t.Fatalf("ListActiveServices error: %v", err)
	}
	if len(services) != 6 || services[0].Name != "Afeitado Tradicional" {
		t.Fatalf("ListActiveServices = %+v, want name order", services)
	}

	if _, err := s.GetService(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetService err = %v, want %v", err, store.ErrNotFound)
	}
}
