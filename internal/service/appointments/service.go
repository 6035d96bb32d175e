package appointments

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

const tracerName = "barberbook/backend/internal/service/appointments"

// Notifier receives committed appointment events. Errors are logged, never returned to callers.
type Notifier interface {
	Notify(ctx context.Context, ev domain.AppointmentEvent) error
}

// ChangeListener is called synchronously after every committed mutation.
type ChangeListener func(ctx context.Context, ev domain.AppointmentEvent)

// SlotCache stores conflict-free slot candidates per staff member and calendar day.
// Day keys are formatted as 2006-01-02 in the business location.
//
// Get reports the day's generation even on a miss. Set must be given that generation and
// stores nothing if Invalidate ran in between.
type SlotCache interface {
	Get(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int) (slots []time.Time, gen int64, ok bool, err error)
	Set(ctx context.Context, staffID uuid.UUID, day string, durationMinutes int, gen int64, slots []time.Time) error
	Invalidate(ctx context.Context, staffID uuid.UUID, day string) error
}

type Service struct {
	repo      store.AppointmentRepository
	catalog   store.CatalogRepository
	hours     domain.BusinessHours
	notifier  Notifier
	cache     SlotCache
	listeners []ChangeListener
	now       func() time.Time
	log       *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithBusinessHours(h domain.BusinessHours) Option {
	return func(s *Service) { s.hours = h }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithSlotCache(c SlotCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithChangeListener(l ChangeListener) Option {
	return func(s *Service) { s.listeners = append(s.listeners, l) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(repo store.AppointmentRepository, catalog store.CatalogRepository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		hours:   domain.DefaultBusinessHours(),
		now:     time.Now,
		log:     slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "service.appointments"))
	return s
}

// OnChange registers a listener after construction.
// It must not be called concurrently with mutations.
func (s *Service) OnChange(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Service) BusinessHours() domain.BusinessHours {
	return s.hours
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "appointments."+name)
}

func endSpan(span trace.Span, errp *error) {
	if err := *errp; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publish runs after commit. Failures here never undo the mutation.
func (s *Service) publish(ctx context.Context, typ domain.EventType, appt domain.Appointment) {
	ctx = context.WithoutCancel(ctx)
	ev := domain.AppointmentEvent{Type: typ, Appointment: appt, OccurredAt: s.now().UTC()}

	s.invalidateSlots(ctx, appt)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.log.Warn(
				"appointment notification failed",
				slog.Any("err", err),
				slog.String("event_type", string(typ)),
				slog.String("appointment_id", appt.ID.String()),
			)
		}
	}

	for _, l := range s.listeners {
		l(ctx, ev)
	}
}

func (s *Service) invalidateSlots(ctx context.Context, appt domain.Appointment) {
	if s.cache == nil || appt.StaffID == nil {
		return
	}
	for _, day := range s.affectedDays(appt.Interval()) {
		if err := s.cache.Invalidate(ctx, *appt.StaffID, day); err != nil {
			s.log.Warn(
				"slot cache invalidation failed",
				slog.Any("err", err),
				slog.String("staff_id", appt.StaffID.String()),
				slog.String("day", day),
			)
		}
	}
}

// affectedDays lists the cached days whose slot window can reach iv. A day's window runs
// from opening to closing plus the longest bookable duration, so an early booking can
// change the previous day's overrun slots.
func (s *Service) affectedDays(iv domain.Interval) []string {
	first := iv.Start.In(s.hours.Location)
	days := []string{s.dayKey(first)}
	if last := s.dayKey(iv.End.Add(-time.Nanosecond)); last != days[0] {
		days = append(days, last)
	}

	prev := s.hours.Window(first.AddDate(0, 0, -1))
	if iv.Start.Before(prev.End.Add(maxDurationMinutes * time.Minute)) {
		days = append([]string{prev.Start.Format(time.DateOnly)}, days...)
	}
	return days
}

func (s *Service) dayKey(t time.Time) string {
	return t.In(s.hours.Location).Format(time.DateOnly)
}
