package http

import (
	"time"

	"barberbook/backend/internal/domain"
)

type CreateAppointmentBody struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	// StaffID may be omitted; the first free staff member is assigned and duration_minutes is then required.
	StaffID         string    `json:"staff_id" binding:"omitempty,uuid"`
	ServiceID       string    `json:"service_id" binding:"required,uuid"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

type AppointmentResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	StaffID         *string   `json:"staff_id"`
	ServiceID       string    `json:"service_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewAppointmentResponse(a domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID.String(),
		ClientID:        a.ClientID.String(),
		ServiceID:       a.ServiceID.String(),
		StartTime:       a.StartTime.UTC(),
		EndTime:         a.EndTime.UTC(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status.String(),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
	if a.StaffID != nil {
		s := a.StaffID.String()
		resp.StaffID = &s
	}
	return resp
}

func newAppointmentList(appts []domain.Appointment) []AppointmentResponse {
	items := make([]AppointmentResponse, len(appts))
	for i, a := range appts {
		items[i] = NewAppointmentResponse(a)
	}
	return items
}

type ServiceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	ImageURL        string `json:"image_url"`
}

func NewServiceResponse(s domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		PriceCents:      s.PriceCents,
		DurationMinutes: s.DurationMinutes,
		ImageURL:        s.ImageURL,
	}
}

type StaffResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Rating    float64 `json:"rating"`
	PhotoURL  string  `json:"photo_url"`
}

func NewStaffResponse(s domain.Staff) StaffResponse {
	return StaffResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Specialty: s.Specialty,
		Rating:    s.Rating,
		PhotoURL:  s.PhotoURL,
	}
}

type SlotsResponse struct {
	StaffID         string      `json:"staff_id"`
	Date            string      `json:"date"`
	DurationMinutes int         `json:"duration_minutes"`
	Slots           []time.Time `json:"slots"`
}

type ConflictResponse struct {
	StaffID   string    `json:"staff_id"`
	StartTime time.Time `json:"start_time"`
	Conflict  bool      `json:"conflict"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
