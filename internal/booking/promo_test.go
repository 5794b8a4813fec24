package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avralis/hotel-reservation/internal/model"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func activePercentPromo(value float64) *model.PromoCode {
	return &model.PromoCode{
		ID: 1, HotelID: 1, Code: "SAVE",
		Type: model.ChargeTypePercent, Value: value, IsActive: true,
	}
}

func TestEvaluatePromo(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		promo    *model.PromoCode
		base     int64
		want     int64
		wantKind Kind
	}{
		{
			name:  "percent discount rounds",
			promo: activePercentPromo(12.5),
			base:  10010,
			want:  1251, // round(10010 * 0.125)
		},
		{
			name: "fixed discount",
			promo: &model.PromoCode{
				Type: model.ChargeTypeFixed, Value: 2500, IsActive: true,
			},
			base: 10000,
			want: 2500,
		},
		{
			name: "max discount clamp",
			promo: func() *model.PromoCode {
				p := activePercentPromo(50)
				p.MaxDiscountCents = int64Ptr(1000)
				return p
			}(),
			base: 10000,
			want: 1000,
		},
		{
			name:     "nil code is invalid",
			promo:    nil,
			base:     10000,
			wantKind: KindInvalidPromoCode,
		},
		{
			name: "inactive code is invalid",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.IsActive = false
				return p
			}(),
			base:     10000,
			wantKind: KindInvalidPromoCode,
		},
		{
			name: "not yet valid",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.StartDate = timePtr(date(2026, 6, 16))
				return p
			}(),
			base:     10000,
			wantKind: KindPromoCodeNotYetValid,
		},
		{
			name: "valid on start date itself",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.StartDate = timePtr(date(2026, 6, 15))
				return p
			}(),
			base: 10000,
			want: 1000,
		},
		{
			name: "expired",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.EndDate = timePtr(date(2026, 6, 14))
				return p
			}(),
			base:     10000,
			wantKind: KindPromoCodeExpired,
		},
		{
			name: "valid on end date itself",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.EndDate = timePtr(date(2026, 6, 15))
				return p
			}(),
			base: 10000,
			want: 1000,
		},
		{
			name: "usage limit reached",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.UsageLimit = intPtr(5)
				p.UsageCount = 5
				return p
			}(),
			base:     10000,
			wantKind: KindPromoCodeUsageLimitReached,
		},
		{
			name: "one redemption left",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.UsageLimit = intPtr(5)
				p.UsageCount = 4
				return p
			}(),
			base: 10000,
			want: 1000,
		},
		{
			name: "inactive wins over expired",
			promo: func() *model.PromoCode {
				p := activePercentPromo(10)
				p.IsActive = false
				p.EndDate = timePtr(date(2026, 6, 1))
				return p
			}(),
			base:     10000,
			wantKind: KindInvalidPromoCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluatePromo(tt.promo, tt.base, now)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.wantKind), "want kind %s, got %v", tt.wantKind, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindOf(t *testing.T) {
	err := NewError(KindDraftNotFound, "gone")
	k, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindDraftNotFound, k)
	assert.Equal(t, "booking.draftNotFound: gone", err.Error())

	_, ok = KindOf(assert.AnError)
	assert.False(t, ok)
}
