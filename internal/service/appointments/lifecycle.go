package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

const (
	maxNotesLength        = 1000
	maxDurationMinutes    = 8 * 60
	maxTransitionAttempts = 3
)

type CreateInput struct {
	ClientID  uuid.UUID
	StaffID   *uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time

	// DurationMinutes defaults to the service duration when zero.
	DurationMinutes int
	Notes           string
	IdempotencyKey  string
}

// CreateAppointment books a pending appointment. The staff calendar is locked while the
// exact-time guard and the interval overlap check run, so the check and the insert commit together.
func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (appt domain.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "CreateAppointment")
	defer endSpan(span, &err)

	if in.ClientID == uuid.Nil {
		return domain.Appointment{}, validationError("client_id is required")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Appointment{}, validationError("service_id is required")
	}
	if in.StaffID == nil || *in.StaffID == uuid.Nil {
		return domain.Appointment{}, validationError("staff_id is required; resolve an available staff member first")
	}
	if in.DurationMinutes < 0 {
		return domain.Appointment{}, validationError("duration_minutes must be positive")
	}
	notes := strings.TrimSpace(in.Notes)
	if len(notes) > maxNotesLength {
		return domain.Appointment{}, validationError("notes too long")
	}

	staffID := *in.StaffID
	span.SetAttributes(
		attribute.String("staff_id", staffID.String()),
		attribute.String("service_id", in.ServiceID.String()),
	)

	// timestamptz keeps microseconds.
	start := in.StartTime.UTC().Truncate(time.Microsecond)
	if !start.After(s.now()) {
		return domain.Appointment{}, ErrPastDate
	}

	svc, err := s.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return domain.Appointment{}, lookupError("service", in.ServiceID, err)
	}
	if !svc.IsActive {
		return domain.Appointment{}, validationError("service is not offered")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = svc.DurationMinutes
	}
	if duration <= 0 || duration > maxDurationMinutes {
		return domain.Appointment{}, validationError("duration_minutes out of range")
	}

	staff, err := s.catalog.GetStaff(ctx, staffID)
	if err != nil {
		return domain.Appointment{}, lookupError("staff", staffID, err)
	}
	if !staff.IsAvailable {
		return domain.Appointment{}, validationError("staff member is not available for booking")
	}

	if _, err := s.catalog.GetUser(ctx, in.ClientID); err != nil {
		return domain.Appointment{}, lookupError("client", in.ClientID, err)
	}

	candidate := domain.Appointment{
		ClientID:        in.ClientID,
		StaffID:         &staffID,
		ServiceID:       in.ServiceID,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusPending,
		Notes:           notes,
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, validationError("idempotency_key too long")
		}
		candidate.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("barberbook:create_appointment:"+in.ClientID.String()+":"+key))
		if existing, ok, err := s.replay(ctx, candidate); ok || err != nil {
			return existing, err
		}
	}

	err = s.repo.InStaffTransaction(ctx, staffID, func(ctx context.Context, tx store.StaffCalendarTx) error {
		n, err := tx.CountActiveAt(ctx, staffID, start)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotTaken
		}

		iv := candidate.Interval()
		overlapping, err := tx.ListActive(ctx, staffID, iv.Start, iv.End)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrSlotTaken
		}

		inserted, err := tx.InsertAppointment(ctx, candidate)
		if err != nil {
			return err
		}
		appt = inserted
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotTaken), errors.Is(err, store.ErrConflict):
		return domain.Appointment{}, ErrSlotTaken
	case errors.Is(err, store.ErrDuplicateID) && key != "":
		existing, ok, rerr := s.replay(ctx, candidate)
		if rerr != nil {
			return domain.Appointment{}, rerr
		}
		if !ok {
			return domain.Appointment{}, storeError("create appointment", err)
		}
		return existing, nil
	default:
		return domain.Appointment{}, storeError("create appointment", err)
	}

	s.publish(ctx, domain.EventAppointmentCreated, appt)
	return appt, nil
}

// replay returns the appointment already stored under candidate.ID, if any.
func (s *Service) replay(ctx context.Context, candidate domain.Appointment) (domain.Appointment, bool, error) {
	existing, err := s.repo.GetByID(ctx, candidate.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, false, nil
	}
	if err != nil {
		return domain.Appointment{}, false, storeError("get appointment", err)
	}
	if existing.ClientID != candidate.ClientID ||
		existing.ServiceID != candidate.ServiceID ||
		existing.StaffID == nil || *existing.StaffID != *candidate.StaffID ||
		!existing.StartTime.Equal(candidate.StartTime) ||
		existing.DurationMinutes != candidate.DurationMinutes {
		return domain.Appointment{}, false, ErrIdempotencyConflict
	}
	return existing, true, nil
}

func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID) (appt domain.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "ConfirmAppointment")
	defer endSpan(span, &err)
	return s.transition(ctx, id, domain.StatusConfirmed, domain.EventAppointmentConfirmed)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (appt domain.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "CancelAppointment")
	defer endSpan(span, &err)
	return s.transition(ctx, id, domain.StatusCancelled, domain.EventAppointmentCancelled)
}

func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID) (appt domain.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "CompleteAppointment")
	defer endSpan(span, &err)
	return s.transition(ctx, id, domain.StatusCompleted, domain.EventAppointmentCompleted)
}

// transition applies a compare-and-set status write, re-reading the row when a
// concurrent writer got there first.
func (s *Service) transition(ctx context.Context, id uuid.UUID, to domain.Status, event domain.EventType) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Appointment{}, lookupError("appointment", id, err)
		}
		if !current.Status.CanTransition(to) {
			return domain.Appointment{}, &InvalidTransitionError{From: current.Status, To: to}
		}

		updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
		switch {
		case err == nil:
			s.publish(ctx, event, updated)
			return updated, nil
		case errors.Is(err, store.ErrStatusChanged):
			continue
		default:
			return domain.Appointment{}, lookupError("appointment", id, err)
		}
	}
	return domain.Appointment{}, storeError("update appointment status", store.ErrStatusChanged)
}

func lookupError(entity string, id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return storeError("get "+entity, err)
}
