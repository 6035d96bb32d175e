package grpc

import (
	"time"

	"barberbook/backend/internal/domain"
)

type Appointment struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	StaffID         string    `json:"staff_id,omitempty"`
	ServiceID       string    `json:"service_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int32     `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int32  `json:"duration_minutes"`
	ImageURL        string `json:"image_url,omitempty"`
}

type Staff struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty,omitempty"`
	Rating    float64 `json:"rating"`
	PhotoURL  string  `json:"photo_url,omitempty"`
}

type ListAvailableSlotsRequest struct {
	StaffID string `json:"staff_id"`
	// Date is a calendar date (2006-01-02) in the shop's time zone.
	Date            string `json:"date"`
	DurationMinutes int32  `json:"duration_minutes"`
}

type ListAvailableSlotsResponse struct {
	Slots []time.Time `json:"slots"`
}

type CheckConflictRequest struct {
	StaffID   string    `json:"staff_id"`
	StartTime time.Time `json:"start_time"`
}

type CheckConflictResponse struct {
	Conflict bool `json:"conflict"`
}

type CreateAppointmentRequest struct {
	ClientID string `json:"client_id"`
	// StaffID may be empty; the first free staff member is then assigned and
	// DurationMinutes becomes required.
	StaffID         string    `json:"staff_id,omitempty"`
	ServiceID       string    `json:"service_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int32     `json:"duration_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type AppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListUserAppointmentsRequest struct {
	UserID       string `json:"user_id"`
	UpcomingOnly bool   `json:"upcoming_only,omitempty"`
}

type ListStaffAppointmentsRequest struct {
	StaffID string `json:"staff_id"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type ListServicesRequest struct{}

type ListServicesResponse struct {
	Services []*Service `json:"services"`
}

type ListStaffRequest struct{}

type ListStaffResponse struct {
	Staff []*Staff `json:"staff"`
}

func toWireAppointment(a domain.Appointment) *Appointment {
	out := &Appointment{
		ID:              a.ID.String(),
		ClientID:        a.ClientID.String(),
		ServiceID:       a.ServiceID.String(),
		StartTime:       a.StartTime.UTC(),
		EndTime:         a.EndTime.UTC(),
		DurationMinutes: int32(a.DurationMinutes),
		Status:          a.Status.String(),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
	if a.StaffID != nil {
		out.StaffID = a.StaffID.String()
	}
	return out
}

func toWireAppointments(appts []domain.Appointment) []*Appointment {
	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toWireAppointment(a))
	}
	return out
}

func toWireService(s domain.Service) *Service {
	return &Service{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		PriceCents:      s.PriceCents,
		DurationMinutes: int32(s.DurationMinutes),
		ImageURL:        s.ImageURL,
	}
}

func toWireStaff(s domain.Staff) *Staff {
	return &Staff{
		ID:        s.ID.String(),
		Name:      s.Name,
		Specialty: s.Specialty,
		Rating:    s.Rating,
		PhotoURL:  s.PhotoURL,
	}
}
