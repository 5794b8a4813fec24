package model

import "time"

// BookingDraft is a guest session's in-progress reservation holding a
// priced quote.  At most one draft exists per session; re-submitting the
// same session replaces the draft and regenerates its items.  The draft
// is deleted when it converts to a booking or when the guest abandons it.
//
// Fields:
//  ID                  – primary key identifier.
//  SessionID           – unique guest session key.
//  ReferenceCode       – human-shareable code, preserved across upserts.
//  HotelID             – hotel being booked.
//  RoomTypeID          – room type being booked.
//  CheckIn             – first night of the stay (inclusive).
//  CheckOut            – departure date (exclusive).
//  Adults, Children    – occupancy used when pricing per-person charges.
//  PromoCode           – optional code captured at draft time.
//  BaseAmountCents     – sum of the nightly prices.
//  TaxAmountCents      – accumulated tax charges.
//  FeeAmountCents      – accumulated fee charges.
//  DiscountAmountCents – promo discount computed at draft time.
//  TotalAmountCents    – base + tax + fee − discount, never negative.
//  BalanceDueCents     – total minus succeeded payments.
//  CurrencyCode        – ISO currency of all amounts.
type BookingDraft struct {
	ID                  uint64    // booking_drafts.id
	SessionID           string    // booking_drafts.session_id
	ReferenceCode       string    // booking_drafts.reference_code
	HotelID             uint64    // booking_drafts.hotel_id
	RoomTypeID          uint64    // booking_drafts.room_type_id
	CheckIn             time.Time // booking_drafts.check_in
	CheckOut            time.Time // booking_drafts.check_out
	Adults              int       // booking_drafts.adults
	Children            int       // booking_drafts.children
	PromoCode           string    // booking_drafts.promo_code (empty when none)
	BaseAmountCents     int64     // booking_drafts.base_amount_cents
	TaxAmountCents      int64     // booking_drafts.tax_amount_cents
	FeeAmountCents      int64     // booking_drafts.fee_amount_cents
	DiscountAmountCents int64     // booking_drafts.discount_amount_cents
	TotalAmountCents    int64     // booking_drafts.total_amount_cents
	BalanceDueCents     int64     // booking_drafts.balance_due_cents
	CurrencyCode        string    // booking_drafts.currency_code
	CreatedAt           time.Time // booking_drafts.created_at
	UpdatedAt           time.Time // booking_drafts.updated_at
}

// BookingDraftItem is one priced night of a draft.  Items are recreated
// from a fresh pricing run on every upsert and removed with the draft.
type BookingDraftItem struct {
	ID             uint64    // booking_draft_items.id
	BookingDraftID uint64    // booking_draft_items.booking_draft_id
	Date           time.Time // booking_draft_items.date
	PriceCents     int64     // booking_draft_items.price_cents
	CreatedAt      time.Time // booking_draft_items.created_at
}
