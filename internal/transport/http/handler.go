package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/service/appointments"
)

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

type Handler struct {
	svc appointmentsService
	log *slog.Logger
}

func NewHandler(svc appointmentsService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log.With(slog.String("component", "http.appointments"))}
}

func (h *Handler) ListServices(c *gin.Context) {
	rows, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	items := make([]ServiceResponse, len(rows))
	for i, r := range rows {
		items[i] = NewServiceResponse(r)
	}
	c.JSON(http.StatusOK, ListResponse[ServiceResponse]{Items: items})
}

func (h *Handler) ListStaff(c *gin.Context) {
	rows, err := h.svc.ListStaff(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	items := make([]StaffResponse, len(rows))
	for i, r := range rows {
		items[i] = NewStaffResponse(r)
	}
	c.JSON(http.StatusOK, ListResponse[StaffResponse]{Items: items})
}

// Slots handles GET /staff/:id/slots?date=YYYY-MM-DD&duration=30.
func (h *Handler) Slots(c *gin.Context) {
	staffID, ok := pathID(c)
	if !ok {
		return
	}
	date := strings.TrimSpace(c.Query("date"))
	day, err := time.ParseInLocation(time.DateOnly, date, h.svc.BusinessHours().Location)
	if err != nil {
		badRequest(c, "date must be formatted as YYYY-MM-DD")
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "30"))
	if err != nil {
		badRequest(c, "duration must be an integer number of minutes")
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), staffID, day, duration)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SlotsResponse{StaffID: staffID.String(), Date: date, DurationMinutes: duration, Slots: slots})
}

// Conflicts handles GET /staff/:id/conflicts?start=RFC3339.
func (h *Handler) Conflicts(c *gin.Context) {
	staffID, ok := pathID(c)
	if !ok {
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		badRequest(c, "start must be an RFC 3339 timestamp")
		return
	}

	conflict, err := h.svc.HasConflict(c.Request.Context(), staffID, start)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ConflictResponse{StaffID: staffID.String(), StartTime: start.UTC(), Conflict: conflict})
}

func (h *Handler) StaffAppointments(c *gin.Context) {
	staffID, ok := pathID(c)
	if !ok {
		return
	}
	appts, err := h.svc.ListAppointmentsByStaff(c.Request.Context(), staffID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[AppointmentResponse]{Items: newAppointmentList(appts)})
}

func (h *Handler) UserAppointments(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	list := h.svc.ListAppointmentsByUser
	if upcoming, _ := strconv.ParseBool(c.DefaultQuery("upcoming", "false")); upcoming {
		list = h.svc.ListUpcomingAppointmentsByUser
	}
	appts, err := list(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[AppointmentResponse]{Items: newAppointmentList(appts)})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var staffID uuid.UUID
	if body.StaffID == "" {
		if body.DurationMinutes == 0 {
			badRequest(c, "duration_minutes is required when staff_id is omitted")
			return
		}
		staff, err := h.svc.ResolveStaff(ctx, body.StartTime, body.DurationMinutes)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		staffID = staff.ID
	} else {
		staffID = uuid.MustParse(body.StaffID)
	}

	appt, err := h.svc.CreateAppointment(ctx, appointments.CreateInput{
		ClientID:        uuid.MustParse(body.ClientID),
		StaffID:         &staffID,
		ServiceID:       uuid.MustParse(body.ServiceID),
		StartTime:       body.StartTime,
		DurationMinutes: body.DurationMinutes,
		Notes:           body.Notes,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("client_id", appt.ClientID.String()),
		slog.String("staff_id", staffID.String()),
		slog.Time("start_time", appt.StartTime),
	)
	c.Header("Location", "/v1/appointments/"+appt.ID.String())
	c.JSON(http.StatusCreated, NewAppointmentResponse(appt))
}

func (h *Handler) Get(c *gin.Context) {
	h.byID(c, h.svc.GetAppointment)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.byID(c, h.svc.ConfirmAppointment)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.byID(c, h.svc.CancelAppointment)
}

func (h *Handler) Complete(c *gin.Context) {
	h.byID(c, h.svc.CompleteAppointment)
}

func (h *Handler) byID(c *gin.Context, call func(context.Context, uuid.UUID) (domain.Appointment, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	appt, err := call(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
