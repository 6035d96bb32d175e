// Package notify delivers committed appointment events to the outside world.
package notify

import (
	"context"
	"log/slog"
	"time"

	"barberbook/backend/internal/domain"
)

// Payload is the JSON body published for every appointment event.
type Payload struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	AppointmentID   string    `json:"appointment_id"`
	ClientID        string    `json:"client_id"`
	StaffID         string    `json:"staff_id,omitempty"`
	ServiceID       string    `json:"service_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
}

func NewPayload(eventID string, ev domain.AppointmentEvent) Payload {
	a := ev.Appointment
	p := Payload{
		EventID:         eventID,
		EventType:       string(ev.Type),
		OccurredAt:      ev.OccurredAt.UTC(),
		AppointmentID:   a.ID.String(),
		ClientID:        a.ClientID.String(),
		ServiceID:       a.ServiceID.String(),
		StartTime:       a.StartTime.UTC(),
		EndTime:         a.EndTime.UTC(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status.String(),
	}
	if a.StaffID != nil {
		p.StaffID = a.StaffID.String()
	}
	return p
}

// LogNotifier writes events to the structured log. It never fails.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With(slog.String("component", "notify.log"))}
}

func (n *LogNotifier) Notify(ctx context.Context, ev domain.AppointmentEvent) error {
	args := []any{
		slog.String("event_type", string(ev.Type)),
		slog.String("appointment_id", ev.Appointment.ID.String()),
		slog.String("client_id", ev.Appointment.ClientID.String()),
		slog.String("status", ev.Appointment.Status.String()),
		slog.Time("start_time", ev.Appointment.StartTime),
	}
	if ev.Appointment.StaffID != nil {
		args = append(args, slog.String("staff_id", ev.Appointment.StaffID.String()))
	}
	n.log.InfoContext(ctx, "appointment event", args...)
	return nil
}
