package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"wellnesscal/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var integrationColumns = []string{
	"id", "user_id", "provider", "access_token", "refresh_token", "token_expiry", "timezone",
	"require_confirmation", "is_active", "setup_completed", "created_at", "updated_at",
}

func TestIntegrationRepository_GetActiveByUser(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.CalendarIntegration
		wantErr error
	}{
		{
			name: "completed integration",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM calendar_integrations(.|\n)*WHERE user_id = \$1 AND is_active = TRUE`).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows(integrationColumns).
						AddRow("int-1", "user-1", "google", "access", "refresh", expiry, "Europe/Berlin",
							true, true, true, created, created))
			},
			want: &domain.CalendarIntegration{
				ID: "int-1", UserID: "user-1", Provider: "google",
				AccessToken: "access", RefreshToken: "refresh", TokenExpiry: expiry,
				Timezone: "Europe/Berlin", RequireConfirmation: true, IsActive: true, SetupCompleted: true,
				CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name: "pending integration without tokens",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM calendar_integrations`).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows(integrationColumns).
						AddRow("int-1", "user-1", "google", nil, nil, nil, nil,
							false, true, false, created, created))
			},
			want: &domain.CalendarIntegration{
				ID: "int-1", UserID: "user-1", Provider: "google", IsActive: true,
				CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM calendar_integrations`).
					WithArgs("user-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM calendar_integrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewIntegrationRepository(db).GetActiveByUser(ctx, "user-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIntegrationRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		mock        func(mock sqlmock.Sqlmock)
		wantID      string
		wantCreated bool
		wantErr     bool
	}{
		{
			name: "first setup inserts",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO calendar_integrations(.|\n)*ON CONFLICT \(user_id\) DO UPDATE(.|\n)*RETURNING id, \(xmax = 0\)`).
					WithArgs("user-1", "google", "Europe/Lisbon", false, true, false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("int-1", true))
			},
			wantID:      "int-1",
			wantCreated: true,
		},
		{
			name: "repeat setup updates",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO calendar_integrations`).
					WithArgs("user-1", "google", "Europe/Lisbon", false, true, false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("int-1", false))
			},
			wantID:      "int-1",
			wantCreated: false,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO calendar_integrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			c := &domain.CalendarIntegration{
				UserID: "user-1", Provider: "google", Timezone: "Europe/Lisbon",
				IsActive: true, CreatedAt: now, UpdatedAt: now,
			}
			created, err := NewIntegrationRepository(db).Upsert(ctx, c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCreated, created)
			require.Equal(t, tt.wantID, c.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
