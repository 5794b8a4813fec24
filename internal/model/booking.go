package model

import "time"

// Booking status values.  A booking is created as confirmed and may
// later move through the check-in lifecycle or be cancelled.
const (
	BookingStatusReserved   = "reserved"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusCancelled  = "cancelled"
)

// Booking source values describing where the reservation originated.
const (
	BookingSourceWeb     = "web"
	BookingSourceWalkIn  = "walk_in"
	BookingSourcePhone   = "phone"
	BookingSourceChannel = "channel"
)

// Booking is a confirmed reservation.  It is created atomically with its
// items, optional payment and optional promotion record while inventory
// is decremented in the same transaction.
//
// Fields:
//  ID                  – primary key identifier.
//  ReferenceCode       – unique human-shareable code.
//  HotelID             – hotel booked.
//  RoomTypeID          – room type booked.
//  CustomerID          – optional customer record (walk-in path).
//  GuestName           – name of the staying guest.
//  ContactEmail        – guest contact email.
//  ContactPhone        – optional guest phone.
//  Status              – lifecycle status, see constants above.
//  Source              – origin of the booking, see constants above.
//  CheckIn, CheckOut   – stay range, end exclusive.
//  Adults, Children    – occupancy.
//  amounts             – same shape as BookingDraft; the base always
//                        equals the sum of the item prices.
//  Notes               – free-form staff notes.
type Booking struct {
	ID                  uint64    // bookings.id
	ReferenceCode       string    // bookings.reference_code
	HotelID             uint64    // bookings.hotel_id
	RoomTypeID          uint64    // bookings.room_type_id
	CustomerID          *uint64   // bookings.customer_id (nullable)
	GuestName           string    // bookings.guest_name
	ContactEmail        string    // bookings.contact_email
	ContactPhone        string    // bookings.contact_phone
	Status              string    // bookings.status
	Source              string    // bookings.source
	CheckIn             time.Time // bookings.check_in
	CheckOut            time.Time // bookings.check_out
	Adults              int       // bookings.adults
	Children            int       // bookings.children
	BaseAmountCents     int64     // bookings.base_amount_cents
	TaxAmountCents      int64     // bookings.tax_amount_cents
	FeeAmountCents      int64     // bookings.fee_amount_cents
	DiscountAmountCents int64     // bookings.discount_amount_cents
	TotalAmountCents    int64     // bookings.total_amount_cents
	BalanceDueCents     int64     // bookings.balance_due_cents
	CurrencyCode        string    // bookings.currency_code
	Notes               string    // bookings.notes
	CreatedAt           time.Time // bookings.created_at
	UpdatedAt           time.Time // bookings.updated_at
}

// BookingItem is one priced night of a confirmed booking, copied from
// the originating draft item (or priced directly for walk-ins).
type BookingItem struct {
	ID             uint64    // booking_items.id
	BookingID      uint64    // booking_items.booking_id
	Date           time.Time // booking_items.date
	PriceCents     int64     // booking_items.price_cents
	TaxAmountCents int64     // booking_items.tax_amount_cents
	FeeAmountCents int64     // booking_items.fee_amount_cents
	CreatedAt      time.Time // booking_items.created_at
}
