package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

const (
	constraintNoOverlap        = "appointments_no_overlap"
	constraintStaffStartActive = "appointments_staff_start_active_idx"
	constraintPrimaryKey       = "appointments_pkey"
)

type AppointmentRepo struct {
	db *bun.DB
}

var _ store.AppointmentRepository = (*AppointmentRepo)(nil)

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type calendarTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) InStaffTransaction(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx store.StaffCalendarTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockStaffCalendar(ctx, tx, staffID); err != nil {
			return err
		}
		return fn(ctx, calendarTx{tx: tx})
	})
}

func lockStaffCalendar(ctx context.Context, tx bun.Tx, staffID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "staff:"+staffID.String()).Exec(ctx)
	return err
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewUpdate().
		Model(&m).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", from).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, err
	}

	exists, err := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !exists {
		return domain.Appointment{}, store.ErrNotFound
	}
	return domain.Appointment{}, store.ErrStatusChanged
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	return listActive(ctx, r.db, staffID, windowStart, windowEnd)
}

func (r *AppointmentRepo) CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error) {
	return countActiveAt(ctx, r.db, staffID, startTime)
}

func (r *AppointmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("client_id = ?", userID).
		OrderExpr("start_time DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListUpcomingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("client_id = ?", userID).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("staff_id = ?", staffID).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r calendarTx) CountActiveAt(ctx context.Context, staffID uuid.UUID, startTime time.Time) (int, error) {
	return countActiveAt(ctx, r.tx, staffID, startTime)
}

func (r calendarTx) ListActive(ctx context.Context, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	return listActive(ctx, r.tx, staffID, windowStart, windowEnd)
}

func (r calendarTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:              appt.ID,
		ClientID:        appt.ClientID,
		StaffID:         appt.StaffID,
		ServiceID:       appt.ServiceID,
		StartTime:       appt.StartTime.UTC(),
		DurationMinutes: appt.DurationMinutes,
		Status:          appt.Status,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
	m.EndTime = m.Interval().End

	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	return m, nil
}

func listActive(ctx context.Context, db bun.IDB, staffID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("staff_id = ?", staffID).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func countActiveAt(ctx context.Context, db bun.IDB, staffID uuid.UUID, startTime time.Time) (int, error) {
	return db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("staff_id = ?", staffID).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		Where("start_time = ?", startTime.UTC()).
		Count(ctx)
}

// mapWriteError turns calendar constraint violations into store.ErrConflict
// and primary key reuse into store.ErrDuplicateID.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgerrcode.ExclusionViolation && pgErr.ConstraintName == constraintNoOverlap:
		return store.ErrConflict
	case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraintStaffStartActive:
		return store.ErrConflict
	case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraintPrimaryKey:
		return store.ErrDuplicateID
	}
	return err
}
