package repository

import (
	"context"
	"database/sql"

	"github.com/avralis/hotel-reservation/internal/model"
)

// TaxFeeRepo accesses hotel-level tax and fee rules.  Only active rows
// participate in pricing; inactive rows are filtered in the query rather
// than in Go so the pricing engine processes exactly the set of charges
// that applies.
type TaxFeeRepo struct {
	db *sql.DB
}

// NewTaxFeeRepo returns a new TaxFeeRepo bound to the given database.
func NewTaxFeeRepo(db *sql.DB) *TaxFeeRepo { return &TaxFeeRepo{db: db} }

// ListActiveByHotel returns all active tax/fee rules for a hotel.  No
// ordering is guaranteed beyond "all active rows once"; charge rounding
// is per charge, so order does not affect totals.
func (r *TaxFeeRepo) ListActiveByHotel(ctx context.Context, hotelID uint64) ([]model.TaxFee, error) {
	const q = `SELECT id, hotel_id, name, type, value, scope, is_active, created_at, updated_at
               FROM tax_fees
               WHERE hotel_id = ? AND is_active = 1`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fees []model.TaxFee
	for rows.Next() {
		var f model.TaxFee
		if err := rows.Scan(&f.ID, &f.HotelID, &f.Name, &f.Type, &f.Value, &f.Scope, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fees, nil
}

// Create inserts a tax/fee rule and fills in its ID.
func (r *TaxFeeRepo) Create(ctx context.Context, f *model.TaxFee) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tax_fees (hotel_id, name, type, value, scope, is_active) VALUES (?,?,?,?,?,?)",
		f.HotelID, f.Name, f.Type, f.Value, f.Scope, f.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}
