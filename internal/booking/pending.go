package booking

import (
	"context"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// pendingExpiryWarnDays is the draft age, in whole days, at which the
// pending view starts flagging a draft as expiring soon.
const pendingExpiryWarnDays = 1

// PendingDraft is a staff-facing view of an unconverted draft.
type PendingDraft struct {
	Draft            model.BookingDraft `json:"draft"`
	DaysSinceCreated int                `json:"daysSinceCreated"`
	IsExpiringSoon   bool               `json:"isExpiringSoon"`
}

// BuildPendingView derives the staff annotations for a draft at a given
// point in time.
func BuildPendingView(d model.BookingDraft, now time.Time) PendingDraft {
	days := int(now.UTC().Sub(d.CreatedAt.UTC()).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return PendingDraft{
		Draft:            d,
		DaysSinceCreated: days,
		IsExpiringSoon:   days >= pendingExpiryWarnDays,
	}
}

// PendingDrafts lists drafts that have not converted yet, newest first,
// annotated with their age.
func (s *Service) PendingDrafts(ctx context.Context, f repository.PendingFilter) ([]PendingDraft, error) {
	drafts, err := s.Drafts.ListPending(ctx, f)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]PendingDraft, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, BuildPendingView(d, now))
	}
	return out, nil
}
