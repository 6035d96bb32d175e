package domain

import "time"

type EventType string

const (
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentConfirmed EventType = "appointment.confirmed"
	EventAppointmentCancelled EventType = "appointment.cancelled"
	EventAppointmentCompleted EventType = "appointment.completed"
)

// AppointmentEvent describes a committed appointment mutation.
type AppointmentEvent struct {
	Type        EventType
	Appointment Appointment
	OccurredAt  time.Time
}
