package model

import "time"

// PromoCode is a discount code scoped to a single hotel.  Validation
// checks the activity flag, the validity window and the usage ceiling in
// that order; redemption increments UsageCount exactly once per
// successful booking.
//
// Fields:
//  ID               – primary key identifier.
//  HotelID          – hotel the code is scoped to.
//  Code             – the human-entered code, uppercased on lookup.
//  Type             – "percent" or "fixed".
//  Value            – percentage for percent codes, cents for fixed codes.
//  StartDate        – optional first day of validity.
//  EndDate          – optional last day of validity.
//  UsageLimit       – optional maximum number of redemptions.
//  UsageCount       – redemptions so far; never exceeds UsageLimit.
//  MaxDiscountCents – optional ceiling on the computed discount.
//  IsActive         – inactive codes never validate.
type PromoCode struct {
	ID               uint64     // promo_codes.id
	HotelID          uint64     // promo_codes.hotel_id
	Code             string     // promo_codes.code
	Type             string     // promo_codes.type
	Value            float64    // promo_codes.value
	StartDate        *time.Time // promo_codes.start_date (nullable)
	EndDate          *time.Time // promo_codes.end_date (nullable)
	UsageLimit       *int       // promo_codes.usage_limit (nullable)
	UsageCount       int        // promo_codes.usage_count
	MaxDiscountCents *int64     // promo_codes.max_discount_cents (nullable)
	IsActive         bool       // promo_codes.is_active
	CreatedAt        time.Time  // promo_codes.created_at
	UpdatedAt        time.Time  // promo_codes.updated_at
}

// BookingPromotion records a redeemed promo code against a booking for
// audit.  A row exists only when the redeemed code produced a non-zero
// discount.
type BookingPromotion struct {
	ID          uint64    // booking_promotions.id
	BookingID   uint64    // booking_promotions.booking_id
	PromoCodeID uint64    // booking_promotions.promo_code_id
	AmountCents int64     // booking_promotions.amount_cents
	CreatedAt   time.Time // booking_promotions.created_at
}
