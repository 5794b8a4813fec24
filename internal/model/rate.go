package model

import "time"

// RoomRate is the nightly price of a room type on a single date.  Rates
// are maintained by the pricing admin tooling and are read-only to the
// booking pipeline.  A missing row for a date means the room type cannot
// be priced for that night.
//
// Fields:
//  ID         – primary key identifier.
//  RoomTypeID – room type the rate applies to.
//  Date       – the night being priced (DATE column, UTC midnight).
//  PriceCents – nightly price in cents.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type RoomRate struct {
	ID         uint64    // room_rates.id
	RoomTypeID uint64    // room_rates.room_type_id
	Date       time.Time // room_rates.date
	PriceCents int64     // room_rates.price_cents
	CreatedAt  time.Time // room_rates.created_at
	UpdatedAt  time.Time // room_rates.updated_at
}

// TaxFee is a hotel-level percent or fixed charge applied on top of the
// base room amount.  Percent charges whose name denotes a tax accumulate
// into the tax bucket of a quote; everything else counts as a fee.
//
// Fields:
//  ID        – primary key identifier.
//  HotelID   – hotel the charge belongs to.
//  Name      – display name; a name containing "tax" classifies the
//              charge as tax in quotes.
//  Type      – "percent" or "fixed".
//  Value     – percentage for percent charges, cents for fixed charges.
//  Scope     – "per_stay", "per_night" or "per_person"; multiplies
//              fixed charges only.
//  IsActive  – inactive charges are skipped during pricing.
type TaxFee struct {
	ID        uint64    // tax_fees.id
	HotelID   uint64    // tax_fees.hotel_id
	Name      string    // tax_fees.name
	Type      string    // tax_fees.type
	Value     float64   // tax_fees.value
	Scope     string    // tax_fees.scope
	IsActive  bool      // tax_fees.is_active
	CreatedAt time.Time // tax_fees.created_at
	UpdatedAt time.Time // tax_fees.updated_at
}

// TaxFee type and scope enumeration values as stored in the database.
const (
	ChargeTypePercent = "percent"
	ChargeTypeFixed   = "fixed"

	ChargeScopePerStay   = "per_stay"
	ChargeScopePerNight  = "per_night"
	ChargeScopePerPerson = "per_person"
)
