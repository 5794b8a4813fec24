package model

import "time"

// RoomInventory tracks how many rooms of a given type remain available
// for a single night.  Drafting only reads these counters; a confirmed
// booking decrements them with a conditional update so the count can
// never go below zero.
//
// Fields:
//  ID             – primary key identifier.
//  RoomTypeID     – room type the counter belongs to.
//  Date           – the night (DATE column, UTC midnight).
//  AvailableRooms – rooms still open for sale on that night.
//  Closed         – when true the night is not sellable regardless of
//                   the remaining count.
type RoomInventory struct {
	ID             uint64    // room_inventory.id
	RoomTypeID     uint64    // room_inventory.room_type_id
	Date           time.Time // room_inventory.date
	AvailableRooms int       // room_inventory.available_rooms
	Closed         bool      // room_inventory.closed
	CreatedAt      time.Time // room_inventory.created_at
	UpdatedAt      time.Time // room_inventory.updated_at
}
