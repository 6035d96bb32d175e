package appointments

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"barberbook/backend/internal/domain"
)

// AvailableSlots returns bookable start instants for staffID on the calendar date of day,
// ascending and strictly after now. Unavailable staff have no slots.
func (s *Service) AvailableSlots(ctx context.Context, staffID uuid.UUID, day time.Time, durationMinutes int) (slots []time.Time, err error) {
	ctx, span := s.startSpan(ctx, "AvailableSlots")
	defer endSpan(span, &err)

	if staffID == uuid.Nil {
		return nil, validationError("staff_id is required")
	}
	if durationMinutes <= 0 || durationMinutes > maxDurationMinutes {
		return nil, validationError("duration_minutes out of range")
	}
	dayKey := day.Format(time.DateOnly)
	span.SetAttributes(
		attribute.String("staff_id", staffID.String()),
		attribute.String("day", dayKey),
		attribute.Int("duration_minutes", durationMinutes),
	)

	staff, err := s.catalog.GetStaff(ctx, staffID)
	if err != nil {
		return nil, lookupError("staff", staffID, err)
	}
	if !staff.IsAvailable {
		return []time.Time{}, nil
	}

	candidates, err := s.candidates(ctx, staffID, day, dayKey, durationMinutes)
	if err != nil {
		return nil, err
	}
	return domain.SlotsAfter(candidates, s.now()), nil
}

// candidates computes conflict-free slots before the "now" filter, through the cache when present.
func (s *Service) candidates(ctx context.Context, staffID uuid.UUID, day time.Time, dayKey string, durationMinutes int) ([]time.Time, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, g, ok, err := s.cache.Get(ctx, staffID, dayKey, durationMinutes)
		switch {
		case err != nil:
			s.log.Warn("slot cache read failed", slog.Any("err", err), slog.String("staff_id", staffID.String()), slog.String("day", dayKey))
		case ok:
			out := make([]time.Time, len(cached))
			for i, t := range cached {
				out[i] = t.In(s.hours.Location)
			}
			return out, nil
		default:
			gen, cacheable = g, true
		}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	window := s.hours.Window(day)
	appts, err := s.repo.ListActiveByStaff(ctx, staffID, window.Start, window.End.Add(duration))
	if err != nil {
		return nil, storeError("list staff appointments", err)
	}

	busy := make([]domain.Interval, 0, len(appts))
	for _, a := range appts {
		busy = append(busy, a.Interval())
	}
	out := s.hours.Candidates(day, duration, busy)

	if cacheable {
		if err := s.cache.Set(ctx, staffID, dayKey, durationMinutes, gen, out); err != nil {
			s.log.Warn("slot cache write failed", slog.Any("err", err), slog.String("staff_id", staffID.String()), slog.String("day", dayKey))
		}
	}
	return out, nil
}

// HasConflict reports whether an active appointment for staffID starts exactly at startTime.
func (s *Service) HasConflict(ctx context.Context, staffID uuid.UUID, startTime time.Time) (conflict bool, err error) {
	ctx, span := s.startSpan(ctx, "HasConflict")
	defer endSpan(span, &err)

	if staffID == uuid.Nil {
		return false, validationError("staff_id is required")
	}
	n, err := s.repo.CountActiveAt(ctx, staffID, startTime.UTC())
	if err != nil {
		return false, storeError("count staff appointments", err)
	}
	return n > 0, nil
}

// ResolveStaff picks the first available staff member, by name, whose calendar is free for
// [startTime, startTime+durationMinutes). The result is advisory; CreateAppointment re-checks.
func (s *Service) ResolveStaff(ctx context.Context, startTime time.Time, durationMinutes int) (staff domain.Staff, err error) {
	ctx, span := s.startSpan(ctx, "ResolveStaff")
	defer endSpan(span, &err)

	if durationMinutes <= 0 || durationMinutes > maxDurationMinutes {
		return domain.Staff{}, validationError("duration_minutes out of range")
	}
	start := startTime.UTC()
	if !start.After(s.now()) {
		return domain.Staff{}, ErrPastDate
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	candidates, err := s.catalog.ListAvailableStaff(ctx)
	if err != nil {
		return domain.Staff{}, storeError("list staff", err)
	}
	for _, st := range candidates {
		appts, err := s.repo.ListActiveByStaff(ctx, st.ID, start, end)
		if err != nil {
			return domain.Staff{}, storeError("list staff appointments", err)
		}
		if len(appts) == 0 {
			span.SetAttributes(attribute.String("staff_id", st.ID.String()))
			return st, nil
		}
	}
	return domain.Staff{}, ErrSlotTaken
}
