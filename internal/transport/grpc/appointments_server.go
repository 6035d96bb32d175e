package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/service/appointments"
)

type AppointmentsServer struct {
	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	AvailableSlots(ctx context.Context, staffID uuid.UUID, day time.Time, durationMinutes int) ([]time.Time, error)
	HasConflict(ctx context.Context, staffID uuid.UUID, startTime time.Time) (bool, error)
	ResolveStaff(ctx context.Context, startTime time.Time, durationMinutes int) (domain.Staff, error)
	CreateAppointment(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ConfirmAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListAppointmentsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error)
	ListUpcomingAppointmentsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error)
	ListAppointmentsByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListStaff(ctx context.Context) ([]domain.Staff, error)
	BusinessHours() domain.BusinessHours
}

var _ AppointmentsServiceServer = (*AppointmentsServer)(nil)

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) ListAvailableSlots(ctx context.Context, req *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAvailableSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	staffID, err := parseID(log, "staff_id", req.StaffID)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(req.Date), s.svc.BusinessHours().Location)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date"), slog.String("date", req.Date))
		return nil, status.Error(codes.InvalidArgument, "date must be formatted as YYYY-MM-DD")
	}

	slots, err := s.svc.AvailableSlots(ctx, staffID, day, int(req.DurationMinutes))
	if err != nil {
		return nil, toStatus(log, err, slog.String("staff_id", staffID.String()), slog.String("date", req.Date))
	}

	log.Debug(
		"slots listed",
		slog.String("staff_id", staffID.String()),
		slog.String("date", req.Date),
		slog.Int("count", len(slots)),
	)
	return &ListAvailableSlotsResponse{Slots: slots}, nil
}

func (s *AppointmentsServer) CheckConflict(ctx context.Context, req *CheckConflictRequest) (*CheckConflictResponse, error) {
	log := s.log.With(slog.String("rpc", "CheckConflict"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	staffID, err := parseID(log, "staff_id", req.StaffID)
	if err != nil {
		return nil, err
	}
	if req.StartTime.IsZero() {
		log.Warn("invalid request", slog.String("reason", "missing_start_time"))
		return nil, status.Error(codes.InvalidArgument, "start_time is required")
	}

	conflict, err := s.svc.HasConflict(ctx, staffID, req.StartTime)
	if err != nil {
		return nil, toStatus(log, err, slog.String("staff_id", staffID.String()))
	}
	return &CheckConflictResponse{Conflict: conflict}, nil
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime.IsZero() {
		log.Warn("invalid request", slog.String("reason", "missing_start_time"), slog.String("client_id", req.ClientID))
		return nil, status.Error(codes.InvalidArgument, "start_time is required")
	}
	clientID, err := parseID(log, "client_id", req.ClientID)
	if err != nil {
		return nil, err
	}
	serviceID, err := parseID(log, "service_id", req.ServiceID)
	if err != nil {
		return nil, err
	}

	var staffID uuid.UUID
	if strings.TrimSpace(req.StaffID) == "" {
		if req.DurationMinutes <= 0 {
			log.Warn("invalid request", slog.String("reason", "missing_duration"), slog.String("client_id", req.ClientID))
			return nil, status.Error(codes.InvalidArgument, "duration_minutes is required when staff_id is omitted")
		}
		staff, err := s.svc.ResolveStaff(ctx, req.StartTime, int(req.DurationMinutes))
		if err != nil {
			return nil, toStatus(log, err, slog.String("client_id", req.ClientID), slog.Time("start_time", req.StartTime))
		}
		staffID = staff.ID
		log.Debug("staff resolved", slog.String("staff_id", staffID.String()))
	} else if staffID, err = parseID(log, "staff_id", req.StaffID); err != nil {
		return nil, err
	}

	appt, err := s.svc.CreateAppointment(ctx, appointments.CreateInput{
		ClientID:        clientID,
		StaffID:         &staffID,
		ServiceID:       serviceID,
		StartTime:       req.StartTime,
		DurationMinutes: int(req.DurationMinutes),
		Notes:           req.Notes,
		IdempotencyKey:  idempotencyKey(ctx),
	})
	if err != nil {
		return nil, toStatus(log, err,
			slog.String("client_id", req.ClientID),
			slog.String("staff_id", staffID.String()),
			slog.Time("start_time", req.StartTime),
		)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("client_id", appt.ClientID.String()),
		slog.String("staff_id", staffID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "GetAppointment", req, s.svc.GetAppointment)
}

func (s *AppointmentsServer) ConfirmAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "ConfirmAppointment", req, s.svc.ConfirmAppointment)
}

func (s *AppointmentsServer) CancelAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "CancelAppointment", req, s.svc.CancelAppointment)
}

func (s *AppointmentsServer) CompleteAppointment(ctx context.Context, req *AppointmentRequest) (*AppointmentResponse, error) {
	return s.byID(ctx, "CompleteAppointment", req, s.svc.CompleteAppointment)
}

func (s *AppointmentsServer) byID(
	ctx context.Context,
	rpc string,
	req *AppointmentRequest,
	call func(context.Context, uuid.UUID) (domain.Appointment, error),
) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", rpc))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(log, "appointment_id", req.AppointmentID)
	if err != nil {
		return nil, err
	}

	appt, err := call(ctx, id)
	if err != nil {
		return nil, toStatus(log, err, slog.String("appointment_id", id.String()))
	}

	if rpc != "GetAppointment" {
		log.Info("appointment status changed", slog.String("appointment_id", id.String()), slog.String("status", appt.Status.String()))
	}
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) ListUserAppointments(ctx context.Context, req *ListUserAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListUserAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	userID, err := parseID(log, "user_id", req.UserID)
	if err != nil {
		return nil, err
	}

	list := s.svc.ListAppointmentsByUser
	if req.UpcomingOnly {
		list = s.svc.ListUpcomingAppointmentsByUser
	}
	appts, err := list(ctx, userID)
	if err != nil {
		return nil, toStatus(log, err, slog.String("user_id", userID.String()))
	}

	log.Debug("appointments listed", slog.String("user_id", userID.String()), slog.Bool("upcoming_only", req.UpcomingOnly), slog.Int("count", len(appts)))
	return &ListAppointmentsResponse{Appointments: toWireAppointments(appts)}, nil
}

func (s *AppointmentsServer) ListStaffAppointments(ctx context.Context, req *ListStaffAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListStaffAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	staffID, err := parseID(log, "staff_id", req.StaffID)
	if err != nil {
		return nil, err
	}

	appts, err := s.svc.ListAppointmentsByStaff(ctx, staffID)
	if err != nil {
		return nil, toStatus(log, err, slog.String("staff_id", staffID.String()))
	}
	return &ListAppointmentsResponse{Appointments: toWireAppointments(appts)}, nil
}

func (s *AppointmentsServer) ListServices(ctx context.Context, _ *ListServicesRequest) (*ListServicesResponse, error) {
	log := s.log.With(slog.String("rpc", "ListServices"))

	rows, err := s.svc.ListServices(ctx)
	if err != nil {
		return nil, toStatus(log, err)
	}
	out := make([]*Service, 0, len(rows))
	for _, r := range rows {
		out = append(out, toWireService(r))
	}
	return &ListServicesResponse{Services: out}, nil
}

func (s *AppointmentsServer) ListStaff(ctx context.Context, _ *ListStaffRequest) (*ListStaffResponse, error) {
	log := s.log.With(slog.String("rpc", "ListStaff"))

	rows, err := s.svc.ListStaff(ctx)
	if err != nil {
		return nil, toStatus(log, err)
	}
	out := make([]*Staff, 0, len(rows))
	for _, r := range rows {
		out = append(out, toWireStaff(r))
	}
	return &ListStaffResponse{Staff: out}, nil
}

func parseID(log *slog.Logger, field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", field))
		return uuid.Nil, status.Error(codes.InvalidArgument, field+" must be a UUID")
	}
	return id, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
