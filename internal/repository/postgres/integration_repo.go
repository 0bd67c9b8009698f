package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wellnesscal/internal/domain"
)

type integrationRepository struct {
	DB *sql.DB
}

func NewIntegrationRepository(db *sql.DB) domain.IntegrationRepository {
	return &integrationRepository{
		DB: db,
	}
}

func (r *integrationRepository) GetActiveByUser(ctx context.Context, userID string) (*domain.CalendarIntegration, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expiry, timezone,
		       require_confirmation, is_active, setup_completed, created_at, updated_at
		FROM calendar_integrations
		WHERE user_id = $1 AND is_active = TRUE
	`
	c := &domain.CalendarIntegration{}
	var accessNull, refreshNull, tzNull sql.NullString
	var expiryNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.Provider, &accessNull, &refreshNull, &expiryNull, &tzNull,
		&c.RequireConfirmation, &c.IsActive, &c.SetupCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.AccessToken = accessNull.String
	c.RefreshToken = refreshNull.String
	c.Timezone = tzNull.String
	if expiryNull.Valid {
		c.TokenExpiry = expiryNull.Time
	}
	return c, nil
}

// Upsert creates the user's integration or resets the existing one to a
// pending setup. Stored tokens survive; an empty timezone keeps the stored
// one. created reports whether a new row was inserted.
func (r *integrationRepository) Upsert(ctx context.Context, c *domain.CalendarIntegration) (bool, error) {
	query := `
		INSERT INTO calendar_integrations
			(user_id, provider, timezone, require_confirmation, is_active, setup_completed, created_at, updated_at)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'UTC'), $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			timezone = COALESCE(NULLIF($3, ''), calendar_integrations.timezone),
			require_confirmation = EXCLUDED.require_confirmation,
			is_active = EXCLUDED.is_active,
			setup_completed = EXCLUDED.setup_completed,
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS created
	`
	var created bool
	err := r.DB.QueryRowContext(ctx, query,
		c.UserID, c.Provider, c.Timezone, c.RequireConfirmation, c.IsActive, c.SetupCompleted, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID, &created)
	if err != nil {
		return false, err
	}
	return created, nil
}
