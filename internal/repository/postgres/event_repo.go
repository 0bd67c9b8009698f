package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wellnesscal/internal/domain"
)

const eventColumns = `id, user_id, title, description, location, start_time, end_time, all_day,
		attendees, reminders, duration, is_managed, is_confirmed, status, external_id,
		recurrence, is_active, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// FindOverlapping returns the user's active confirmed events whose interval
// intersects [start, end). Touching intervals are not returned.
func (r *eventRepository) FindOverlapping(ctx context.Context, userID string, start, end time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND is_active = TRUE AND status = 'confirmed'
		  AND start_time < $3 AND end_time > $2
		ORDER BY start_time ASC
	`
	return r.queryEvents(ctx, query, userID, start, end)
}

// Insert stores e. With guardOverlap set, the insert is serialized per user
// and rejected with domain.ErrOverlap when a confirmed event already occupies
// part of the interval.
func (r *eventRepository) Insert(ctx context.Context, e *domain.Event, guardOverlap bool) error {
	attendees, err := json.Marshal(e.Attendees)
	if err != nil {
		return fmt.Errorf("encode attendees: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockUser(ctx, tx, e.UserID); err != nil {
		return err
	}
	if guardOverlap {
		n, err := countConfirmedOverlaps(ctx, tx, e.UserID, e.ID, e.StartTime, e.EndTime)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrOverlap
		}
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, nullString(e.Description), nullString(e.Location),
		e.StartTime, e.EndTime, e.AllDay, attendees, pq.Array(intsToInt64(e.Reminders)),
		e.Duration, e.IsManaged, e.IsConfirmed, string(e.Status), e.ExternalID,
		nullString(e.Recurrence), e.IsActive, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) ListActiveInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND is_active = TRUE AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	return r.queryEvents(ctx, query, userID, from, to)
}

// Confirm marks a tentative event as confirmed. Like Insert it is serialized
// per user. domain.ErrNotFound is returned when the user has no such pending
// event. When a confirmed event already occupies part of its interval the
// event stays tentative and is returned together with domain.ErrOverlap.
func (r *eventRepository) Confirm(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockUser(ctx, tx, userID); err != nil {
		return nil, err
	}
	pending, err := scanEvent(tx.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE AND status = 'tentative'
		FOR UPDATE
	`, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	n, err := countConfirmedOverlaps(ctx, tx, userID, eventID, pending.StartTime, pending.EndTime)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return pending, domain.ErrOverlap
	}

	e, err := scanEvent(tx.QueryRowContext(ctx, `
		UPDATE events
		SET status = 'confirmed', is_confirmed = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+eventColumns, eventID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetExternalID(ctx context.Context, eventID, externalID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE events SET external_id = $2, updated_at = NOW() WHERE id = $1`, eventID, externalID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// lockUser serializes slot-changing writes of one user until tx ends.
func lockUser(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
	return err
}

func countConfirmedOverlaps(ctx context.Context, tx *sql.Tx, userID, excludeID string, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
		WHERE user_id = $1 AND id <> $2 AND is_active = TRUE AND status = 'confirmed'
		  AND start_time < $4 AND end_time > $3
	`, userID, excludeID, start, end).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, locNull, extNull, recNull sql.NullString
	var attendees []byte
	var reminders pq.Int64Array
	var status string
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &descNull, &locNull, &e.StartTime, &e.EndTime, &e.AllDay,
		&attendees, &reminders, &e.Duration, &e.IsManaged, &e.IsConfirmed, &status, &extNull,
		&recNull, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = descNull.String
	e.Location = locNull.String
	e.Recurrence = recNull.String
	e.Status = domain.EventStatus(status)
	if extNull.Valid {
		e.ExternalID = &extNull.String
	}
	e.Attendees = []domain.Attendee{}
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &e.Attendees); err != nil {
			return nil, fmt.Errorf("decode attendees of event %s: %w", e.ID, err)
		}
	}
	e.Reminders = make([]int, len(reminders))
	for i, m := range reminders {
		e.Reminders[i] = int(m)
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func intsToInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
