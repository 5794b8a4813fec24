package repository

import (
	"context"
	"database/sql"

	"github.com/avralis/hotel-reservation/internal/model"
)

// BookingRepo provides CRUD operations for confirmed bookings, their
// nightly items and redeemed-promotion audit rows.  Creation always
// happens inside the confirmation transaction so the booking graph,
// the inventory decrement and the draft retirement commit together.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference_code, hotel_id, room_type_id, customer_id,
                        guest_name, contact_email, contact_phone, status, source,
                        check_in, check_out, adults, children,
                        base_amount_cents, tax_amount_cents, fee_amount_cents,
                        discount_amount_cents, total_amount_cents, balance_due_cents,
                        currency_code, notes, created_at, updated_at`

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// passed struct.  A unique-key violation on reference_code is mapped to
// ErrDuplicateReference so the service can retry with a new code.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
                 (reference_code, hotel_id, room_type_id, customer_id, guest_name,
                  contact_email, contact_phone, status, source, check_in, check_out,
                  adults, children, base_amount_cents, tax_amount_cents,
                  fee_amount_cents, discount_amount_cents, total_amount_cents,
                  balance_due_cents, currency_code, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var customerID interface{}
	if b.CustomerID != nil {
		customerID = *b.CustomerID
	}
	res, err := tx.ExecContext(ctx, q,
		b.ReferenceCode, b.HotelID, b.RoomTypeID, customerID,
		b.GuestName, b.ContactEmail, b.ContactPhone, b.Status, b.Source,
		b.CheckIn.UTC().Format("2006-01-02"), b.CheckOut.UTC().Format("2006-01-02"),
		b.Adults, b.Children,
		b.BaseAmountCents, b.TaxAmountCents, b.FeeAmountCents,
		b.DiscountAmountCents, b.TotalAmountCents, b.BalanceDueCents,
		b.CurrencyCode, b.Notes)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back timestamps and defaults.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// CreateItemsBulkTx inserts booking_items rows in a single statement.
// Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.BookingItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_items (booking_id, date, price_cents, tax_amount_cents, fee_amount_cents) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.BookingID, it.Date.UTC().Format("2006-01-02"), it.PriceCents, it.TaxAmountCents, it.FeeAmountCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreatePromotionTx records a redeemed promo code against a booking for
// audit.  Only called when the redeemed code produced a non-zero
// discount.
func (r *BookingRepo) CreatePromotionTx(ctx context.Context, tx *sql.Tx, bookingID, promoCodeID uint64, amountCents int64) error {
	const q = `INSERT INTO booking_promotions (booking_id, promo_code_id, amount_cents) VALUES (?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, bookingID, promoCodeID, amountCents)
	return err
}

// GetByID returns a booking with its nightly items ordered by date.
// When no booking exists, sql.ErrNoRows is returned.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*model.Booking, []model.BookingItem, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
	if err != nil {
		return nil, nil, err
	}
	const itemQ = `SELECT id, booking_id, date, price_cents, tax_amount_cents, fee_amount_cents, created_at
                   FROM booking_items
                   WHERE booking_id = ?
                   ORDER BY date`
	rows, err := r.db.QueryContext(ctx, itemQ, bookingID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var items []model.BookingItem
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.Date, &it.PriceCents, &it.TaxAmountCents, &it.FeeAmountCents, &it.CreatedAt); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return b, items, nil
}

// GetForUpdateTx loads a booking's money fields with a row lock so a
// concurrent payment cannot interleave between the balance read and the
// balance write.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? LIMIT 1 FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, bookingID))
}

// UpdateBalanceTx sets the balance due after a payment was recorded.
func (r *BookingRepo) UpdateBalanceTx(ctx context.Context, tx *sql.Tx, bookingID uint64, balanceDueCents int64) error {
	const q = `UPDATE bookings SET balance_due_cents = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, balanceDueCents, bookingID)
	return err
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var customerID sql.NullInt64
	var phone, notes sql.NullString
	err := row.Scan(&b.ID, &b.ReferenceCode, &b.HotelID, &b.RoomTypeID, &customerID,
		&b.GuestName, &b.ContactEmail, &phone, &b.Status, &b.Source,
		&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children,
		&b.BaseAmountCents, &b.TaxAmountCents, &b.FeeAmountCents,
		&b.DiscountAmountCents, &b.TotalAmountCents, &b.BalanceDueCents,
		&b.CurrencyCode, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		id := uint64(customerID.Int64)
		b.CustomerID = &id
	}
	if phone.Valid {
		b.ContactPhone = phone.String
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	return &b, nil
}
