package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

// StaffCalendarTx is the view of one staff calendar inside InStaffTransaction.
// Reads observe every commit made before the lock was taken.
type StaffCalendarTx interface {
	CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error)
	ListActive(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
