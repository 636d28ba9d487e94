package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wellmind/support-platform/internal/schedule"
)

// ErrNotFound is returned when an appointment does not exist for the user.
var ErrNotFound = errors.New("appointments: not found")

// DB is the pgx surface the repository needs. Satisfied by *pgxpool.Pool
// and by pgxmock pools in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// executor is the statement surface shared by the pool and a transaction.
type executor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores appointments in the relational database.
type Repository struct {
	db DB
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
	SELECT a.id, a.user_id, a.appointment_date, a.start_time, a.session_type,
	       a.status, a.notes, COALESCE(a.support_worker_id, ''),
	       COALESCE(a.support_worker_name, ''), COALESCE(a.rescheduled_from::text, ''),
	       a.created_at
	FROM appointments a`

// ListUpcoming returns the user's live (scheduled/confirmed) records.
// Records from earlier today or before still come back here; the
// classifier is the single place that decides upcoming vs past.
func (r *Repository) ListUpcoming(ctx context.Context, userID string) ([]Appointment, error) {
	query := selectColumns + `
	WHERE a.user_id = $1 AND a.status IN ('scheduled', 'confirmed')
	ORDER BY a.appointment_date, a.start_time`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	return scanAppointments(rows)
}

// ListPast returns the user's terminal (completed/no_show/cancelled) records.
func (r *Repository) ListPast(ctx context.Context, userID string) ([]Appointment, error) {
	query := selectColumns + `
	WHERE a.user_id = $1 AND a.status IN ('completed', 'no_show', 'cancelled')
	ORDER BY a.appointment_date DESC, a.start_time DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list past: %w", err)
	}
	return scanAppointments(rows)
}

// NewBooking is a validated reservation ready to persist.
type NewBooking struct {
	UserID          string
	SessionType     SessionType
	Date            schedule.CivilDate
	Time            schedule.ClockTime
	Notes           string
	SupportWorkerID string
	RescheduleOf    string // original appointment id when rescheduling
}

// Insert persists a confirmed booking as a scheduled appointment. When the
// booking reschedules an existing appointment, the cancel of the original
// and the insert of the replacement run in one transaction: either both
// commit or neither does, so a failed submission leaves the original live
// and the draft retryable.
func (r *Repository) Insert(ctx context.Context, b NewBooking) (*Appointment, error) {
	if b.RescheduleOf == "" {
		return insertBooking(ctx, r.db, b)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin reschedule: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := cancelBooking(ctx, tx, b.UserID, b.RescheduleOf); err != nil {
		return nil, fmt.Errorf("appointments: cancel original %s: %w", b.RescheduleOf, err)
	}
	appt, err := insertBooking(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit reschedule: %w", err)
	}
	return appt, nil
}

func insertBooking(ctx context.Context, db executor, b NewBooking) (*Appointment, error) {
	id := uuid.New()
	query := `
		INSERT INTO appointments
			(id, user_id, appointment_date, start_time, session_type, status, notes, support_worker_id, rescheduled_from)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, NULLIF($7, ''), NULLIF($8, '')::uuid)
		RETURNING created_at`
	var createdAt time.Time
	if err := db.QueryRow(ctx, query,
		id,
		b.UserID,
		b.Date.ISO(),
		b.Time.String(),
		string(b.SessionType),
		b.Notes,
		b.SupportWorkerID,
		b.RescheduleOf,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:              id.String(),
		UserID:          b.UserID,
		Date:            b.Date.ISO(),
		Time:            b.Time.String(),
		SessionType:     b.SessionType,
		Status:          schedule.StatusScheduled,
		Notes:           b.Notes,
		SupportWorkerID: b.SupportWorkerID,
		RescheduledFrom: b.RescheduleOf,
		CreatedAt:       createdAt,
	}, nil
}

// Cancel marks a live appointment cancelled, scoped to the owning user.
func (r *Repository) Cancel(ctx context.Context, userID, id string) error {
	return cancelBooking(ctx, r.db, userID, id)
}

func cancelBooking(ctx context.Context, db executor, userID, id string) error {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status IN ('scheduled', 'confirmed')`
	tag, err := db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("appointments: cancel failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		var date time.Time
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&date,
			&a.Time,
			&a.SessionType,
			&a.Status,
			&a.Notes,
			&a.SupportWorkerID,
			&a.SupportWorkerName,
			&a.RescheduledFrom,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		a.Date = date.Format("2006-01-02")
		// Normalize legacy 12-hour strings on ingestion; records that still
		// fail to parse are classified past downstream, never dropped here.
		if clock, err := schedule.ParseClock(a.Time); err == nil {
			a.Time = clock.String()
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}
