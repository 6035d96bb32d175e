package appointments

import (
	"context"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, lookupError("appointment", id, err)
	}
	return appt, nil
}

// ListAppointmentsByUser returns every appointment of the client, newest first.
func (s *Service) ListAppointmentsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, validationError("user_id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list user appointments", err)
	}
	return rows, nil
}

// ListUpcomingAppointmentsByUser returns the client's active appointments, soonest first.
func (s *Service) ListUpcomingAppointmentsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, validationError("user_id is required")
	}
	rows, err := s.repo.ListUpcomingByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list upcoming user appointments", err)
	}
	return rows, nil
}

func (s *Service) ListAppointmentsByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error) {
	if staffID == uuid.Nil {
		return nil, validationError("staff_id is required")
	}
	rows, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, storeError("list staff appointments", err)
	}
	return rows, nil
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.catalog.ListActiveServices(ctx)
	if err != nil {
		return nil, storeError("list services", err)
	}
	return rows, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	rows, err := s.catalog.ListAvailableStaff(ctx)
	if err != nil {
		return nil, storeError("list staff", err)
	}
	return rows, nil
}
