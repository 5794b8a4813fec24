package repository

import (
	"context"
	"database/sql"

	"github.com/avralis/hotel-reservation/internal/model"
)

// PaymentRepo persists money-movement records against bookings.  Writes
// always happen inside the transaction that also updates the booking's
// balance so the two can never drift apart.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment within the provided transaction and
// populates the generated ID and creation timestamp on the passed
// struct.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, status, method, processor)
               VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Status, p.Method, p.Processor)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// SumSucceededTx returns the total of all succeeded payments for a
// booking within the provided transaction.  Pending payments do not
// reduce the balance due.
func (r *PaymentRepo) SumSucceededTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE booking_id = ? AND status = ?`
	var sum int64
	err := tx.QueryRowContext(ctx, q, bookingID, model.PaymentStatusSucceeded).Scan(&sum)
	return sum, err
}

// ListByBooking returns all payments for a booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, status, method, processor, created_at
               FROM payments
               WHERE booking_id = ?
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &p.Method, &p.Processor, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
