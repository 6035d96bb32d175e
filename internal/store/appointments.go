package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

type AppointmentRepository interface {
	// InStaffTransaction runs fn while holding an exclusive lock on the staff calendar.
	InStaffTransaction(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx StaffCalendarTx) error) error

	// UpdateStatus writes to only if the row is currently in from.
	// It returns ErrStatusChanged when the row exists in another status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// ListActiveByStaff returns pending and confirmed appointments overlapping [windowStart, windowEnd).
	ListActiveByStaff(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error)
	ListUpcomingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error)
}
