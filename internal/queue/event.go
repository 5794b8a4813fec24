// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	ReferenceCode    string `json:"reference_code"`
	HotelID          uint64 `json:"hotel_id"`
	RoomTypeID       uint64 `json:"room_type_id"`
	GuestName        string `json:"guest_name"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Nights           int    `json:"nights"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	CurrencyCode     string `json:"currency_code"`
	Source           string `json:"source"`
	ConfirmedAt      string `json:"confirmed_at"`
}
