package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/repository"
)

func TestBuildPendingView(t *testing.T) {
	now := time.Date(2026, 7, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		createdAt    time.Time
		wantDays     int
		wantExpiring bool
	}{
		{"created moments ago", now.Add(-10 * time.Minute), 0, false},
		{"created yesterday", now.Add(-26 * time.Hour), 1, true},
		{"created last week", now.AddDate(0, 0, -7), 7, true},
		{"clock skew never goes negative", now.Add(2 * time.Hour), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BuildPendingView(model.BookingDraft{CreatedAt: tt.createdAt}, now)
			assert.Equal(t, tt.wantDays, v.DaysSinceCreated)
			assert.Equal(t, tt.wantExpiring, v.IsExpiringSoon)
		})
	}
}

func TestPendingDrafts(t *testing.T) {
	env := newTestEnv()
	env.drafts.pending = []model.BookingDraft{
		{ID: 2, SessionID: "new", CreatedAt: time.Now().UTC().Add(-time.Hour)},
		{ID: 1, SessionID: "stale", CreatedAt: time.Now().UTC().AddDate(0, 0, -3)},
	}

	out, err := env.svc.PendingDrafts(context.Background(), repository.PendingFilter{HotelID: 1})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.False(t, out[0].IsExpiringSoon)
	assert.True(t, out[1].IsExpiringSoon)
	assert.Equal(t, 3, out[1].DaysSinceCreated)
}
