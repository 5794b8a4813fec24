package booking

import (
	"math"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// EvaluatePromo validates a promo code against today's date and the
// base amount, returning the computed discount in cents.  Rules are
// checked in order and the first failure wins:
//
//   active → validity window start → validity window end → usage ceiling
//
// Existence and hotel scoping are enforced by the lookup that produced
// p; a nil code therefore also fails as invalid.  The discount is
// clamped to MaxDiscountCents when set.  Evaluation never mutates the
// code; redemption is a separate, confirmation-only step.
func EvaluatePromo(p *model.PromoCode, baseAmountCents int64, now time.Time) (int64, error) {
	if p == nil || !p.IsActive {
		return 0, NewError(KindInvalidPromoCode, "promo code is not valid for this hotel")
	}
	today := dateOnly(now)
	if p.StartDate != nil && today.Before(dateOnly(*p.StartDate)) {
		return 0, NewError(KindPromoCodeNotYetValid, "promo code is not yet valid")
	}
	if p.EndDate != nil && today.After(dateOnly(*p.EndDate)) {
		return 0, NewError(KindPromoCodeExpired, "promo code has expired")
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return 0, NewError(KindPromoCodeUsageLimitReached, "promo code usage limit reached")
	}
	var discount int64
	switch p.Type {
	case model.ChargeTypePercent:
		discount = int64(math.Round(float64(baseAmountCents) * p.Value / 100))
	case model.ChargeTypeFixed:
		discount = int64(math.Round(p.Value))
	default:
		return 0, NewError(KindInvalidPromoCode, "unknown promo code type")
	}
	if p.MaxDiscountCents != nil && discount > *p.MaxDiscountCents {
		discount = *p.MaxDiscountCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount, nil
}
