package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	ClientID        uuid.UUID  `bun:"client_id,notnull,type:uuid"`
	StaffID         *uuid.UUID `bun:"staff_id,type:uuid"`
	ServiceID       uuid.UUID  `bun:"service_id,notnull,type:uuid"`
	StartTime       time.Time  `bun:"start_time,notnull"`
	EndTime         time.Time  `bun:"end_time,notnull"`
	DurationMinutes int        `bun:"duration_minutes,notnull"`
	Status          Status     `bun:"status,notnull"`
	Notes           string     `bun:"notes"`
	CreatedAt       time.Time  `bun:"created_at,notnull"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull"`
}

// Interval is the half-open span [StartTime, StartTime+DurationMinutes).
func (a Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)}
}

func (a Appointment) IsActive() bool {
	return a.Status.IsActive()
}

func (a Appointment) HasStaff(staffID uuid.UUID) bool {
	return a.StaffID != nil && *a.StaffID == staffID
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = StatusPending
		}
		if a.EndTime.IsZero() {
			a.EndTime = a.Interval().End
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
