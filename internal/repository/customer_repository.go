package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// CustomerRepo persists hotel guests known by email.  The direct booking
// path finds or creates the customer inside the confirmation transaction
// so a booking never references a customer that failed to persist.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// FindOrCreateTx looks a customer up by normalized email and creates one
// when absent.  It reports whether a new row was inserted.  A concurrent
// insert of the same email loses to the unique index and is retried as a
// lookup.
func (r *CustomerRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, email, fullName, phone string) (*model.Customer, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c, err := r.getByEmailTx(ctx, tx, email)
	if err == nil {
		return c, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}
	const ins = `INSERT INTO customers (email, full_name, phone) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, email, fullName, phone)
	if err != nil {
		if isDuplicateKey(err) {
			c, err2 := r.getByEmailTx(ctx, tx, email)
			return c, false, err2
		}
		return nil, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	c = &model.Customer{ID: uint64(id), Email: email, FullName: fullName, Phone: phone}
	return c, true, nil
}

// TouchLastBookingTx stamps the customer's last booking time.
func (r *CustomerRepo) TouchLastBookingTx(ctx context.Context, tx *sql.Tx, customerID uint64, at time.Time) error {
	const q = `UPDATE customers SET last_booking_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, at.UTC().Format("2006-01-02 15:04:05"), customerID)
	return err
}

// GetByID returns one customer or sql.ErrNoRows.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, email, full_name, phone, last_booking_at, created_at, updated_at
               FROM customers WHERE id = ? LIMIT 1`
	return scanCustomer(r.db.QueryRowContext(ctx, q, id))
}

func (r *CustomerRepo) getByEmailTx(ctx context.Context, tx *sql.Tx, email string) (*model.Customer, error) {
	const q = `SELECT id, email, full_name, phone, last_booking_at, created_at, updated_at
               FROM customers WHERE email = ? LIMIT 1`
	return scanCustomer(tx.QueryRowContext(ctx, q, email))
}

func scanCustomer(row *sql.Row) (*model.Customer, error) {
	var c model.Customer
	var phone sql.NullString
	var last sql.NullTime
	err := row.Scan(&c.ID, &c.Email, &c.FullName, &phone, &last, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		c.Phone = phone.String
	}
	if last.Valid {
		t := last.Time.UTC()
		c.LastBookingAt = &t
	}
	return &c, nil
}
