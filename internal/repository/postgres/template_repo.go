package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"wellnesscal/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		DB: db,
	}
}

// GetByName returns the user's template with the given name regardless of
// its active flag; callers decide what an inactive template means.
func (r *templateRepository) GetByName(ctx context.Context, userID, name string) (*domain.EventTemplate, error) {
	query := `
		SELECT id, user_id, name, description, location, reminders, duration, is_active
		FROM event_templates
		WHERE user_id = $1 AND name = $2
	`
	t := &domain.EventTemplate{}
	var descNull, locNull sql.NullString
	var durationNull sql.NullInt64
	var reminders pq.Int64Array
	err := r.DB.QueryRowContext(ctx, query, userID, name).Scan(
		&t.ID, &t.UserID, &t.Name, &descNull, &locNull, &reminders, &durationNull, &t.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.Description = descNull.String
	t.Location = locNull.String
	t.Duration = int(durationNull.Int64)
	if reminders != nil {
		t.Reminders = make([]int, len(reminders))
		for i, m := range reminders {
			t.Reminders[i] = int(m)
		}
	}
	return t, nil
}
