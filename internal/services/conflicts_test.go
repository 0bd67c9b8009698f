package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellnesscal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	base := at("2025-03-01T10:00:00Z")
	h := time.Hour
	tests := []struct {
		name   string
		s1, e1 time.Time
		s2, e2 time.Time
		want   bool
	}{
		{"identical", base, base.Add(h), base, base.Add(h), true},
		{"partial tail", base, base.Add(h), base.Add(h / 2), base.Add(2 * h), true},
		{"contained", base, base.Add(2 * h), base.Add(h / 2), base.Add(h), true},
		{"adjacent after", base, base.Add(h), base.Add(h), base.Add(2 * h), false},
		{"adjacent before", base.Add(h), base.Add(2 * h), base, base.Add(h), false},
		{"disjoint", base, base.Add(h), base.Add(3 * h), base.Add(4 * h), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1), "symmetric")
		})
	}
}

func TestConflictDetector_Detect(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo(
		confirmedEvent("ev-a", "user-1", "A", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z"),
		confirmedEvent("ev-b", "user-1", "B", "2025-03-01T12:00:00Z", "2025-03-01T12:30:00Z"),
		confirmedEvent("ev-other", "user-2", "Other user", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z"),
	)
	tentative := confirmedEvent("ev-t", "user-1", "Tentative", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z")
	tentative.Status = domain.StatusTentative
	repo.byID[tentative.ID] = tentative
	inactive := confirmedEvent("ev-gone", "user-1", "Deleted", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z")
	inactive.IsActive = false
	repo.byID[inactive.ID] = inactive

	d := NewConflictDetector(repo, testLogger, nil)

	tests := []struct {
		name      string
		start     string
		end       string
		wantIDs   []string
		wantTypes []domain.ConflictType
	}{
		{"partial overlap", "2025-03-01T10:30:00Z", "2025-03-01T11:30:00Z", []string{"ev-a"}, []domain.ConflictType{domain.ConflictPartial}},
		{"query inside existing", "2025-03-01T10:15:00Z", "2025-03-01T10:45:00Z", []string{"ev-a"}, []domain.ConflictType{domain.ConflictFull}},
		{"query encloses existing", "2025-03-01T11:30:00Z", "2025-03-01T13:00:00Z", []string{"ev-b"}, []domain.ConflictType{domain.ConflictFull}},
		{"exact match", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z", []string{"ev-a"}, []domain.ConflictType{domain.ConflictFull}},
		{"spans both", "2025-03-01T10:30:00Z", "2025-03-01T12:15:00Z", []string{"ev-a", "ev-b"}, []domain.ConflictType{domain.ConflictPartial, domain.ConflictPartial}},
		{"adjacent is not a conflict", "2025-03-01T11:00:00Z", "2025-03-01T12:00:00Z", nil, nil},
		{"free time", "2025-03-01T08:00:00Z", "2025-03-01T09:00:00Z", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(ctx, "user-1", at(tt.start), at(tt.end))
			require.NotNil(t, got)
			require.Len(t, got, len(tt.wantIDs))
			for i, c := range got {
				assert.Equal(t, tt.wantIDs[i], c.EventID)
				assert.Equal(t, tt.wantTypes[i], c.ConflictType)
				// every reported conflict strictly overlaps the query
				assert.True(t, c.StartTime.Before(at(tt.end)) && at(tt.start).Before(c.EndTime))
			}
		})
	}
}

func TestConflictDetector_DegradesOnRepositoryError(t *testing.T) {
	repo := newFakeEventRepo()
	repo.findErr = errors.New("connection refused")
	d := NewConflictDetector(repo, testLogger, nil)

	got := d.Detect(context.Background(), "user-1", at("2025-03-01T10:00:00Z"), at("2025-03-01T11:00:00Z"))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindConflicts_FiltersImpreciseRows(t *testing.T) {
	// a repository may return touching rows; they must not be reported
	existing := []*domain.Event{
		confirmedEvent("ev-touch", "user-1", "Touch", "2025-03-01T09:00:00Z", "2025-03-01T10:00:00Z"),
	}
	got := findConflicts(existing, at("2025-03-01T10:00:00Z"), at("2025-03-01T11:00:00Z"))
	assert.Empty(t, got)
}
