package postgres

import (
	"context"
	"database/sql"

	"wellnesscal/internal/domain"
)

type syncFailureRepository struct {
	DB *sql.DB
}

func NewSyncFailureRepository(db *sql.DB) domain.SyncFailureRepository {
	return &syncFailureRepository{
		DB: db,
	}
}

func (r *syncFailureRepository) Record(ctx context.Context, f *domain.SyncFailure) error {
	query := `
		INSERT INTO calendar_sync_failures (event_id, user_id, reason, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, f.EventID, f.UserID, string(f.Reason), f.Message, f.CreatedAt).Scan(&f.ID)
}
