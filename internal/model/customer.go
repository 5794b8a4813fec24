package model

import "time"

// Customer is a guest known to the hotel, keyed by email.  The direct
// booking path finds or creates the customer and stamps LastBookingAt
// after a successful confirmation.
type Customer struct {
	ID            uint64     // customers.id
	Email         string     // customers.email
	FullName      string     // customers.full_name
	Phone         string     // customers.phone
	LastBookingAt *time.Time // customers.last_booking_at (nullable)
	CreatedAt     time.Time  // customers.created_at
	UpdatedAt     time.Time  // customers.updated_at
}
