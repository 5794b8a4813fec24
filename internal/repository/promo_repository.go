package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// PromoRepo provides access to promo codes.  Lookup is by normalized
// (uppercased) code within a hotel.  Redemption is a conditional update
// so the usage ceiling holds even when concurrent confirmations race
// for the last remaining use.
type PromoRepo struct {
	db *sql.DB
}

// NewPromoRepo returns a new PromoRepo bound to the given database.
func NewPromoRepo(db *sql.DB) *PromoRepo { return &PromoRepo{db: db} }

const promoColumns = `id, hotel_id, code, type, value, start_date, end_date,
                      usage_limit, usage_count, max_discount_cents, is_active,
                      created_at, updated_at`

// GetByCode returns the promo code row for a hotel, or sql.ErrNoRows
// when no such code exists.  The activity flag, window and usage
// ceiling are evaluated by the validator, not here, so each rule can
// surface its own error kind.
func (r *PromoRepo) GetByCode(ctx context.Context, hotelID uint64, code string) (*model.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE hotel_id = ? AND code = ? LIMIT 1`
	return r.scanPromo(r.db.QueryRowContext(ctx, q, hotelID, strings.ToUpper(strings.TrimSpace(code))))
}

// GetByCodeTx is GetByCode within a transaction, locking the row so a
// concurrent redemption cannot slip between validation and the usage
// increment.
func (r *PromoRepo) GetByCodeTx(ctx context.Context, tx *sql.Tx, hotelID uint64, code string) (*model.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE hotel_id = ? AND code = ? LIMIT 1 FOR UPDATE`
	return r.scanPromo(tx.QueryRowContext(ctx, q, hotelID, strings.ToUpper(strings.TrimSpace(code))))
}

func (r *PromoRepo) scanPromo(row *sql.Row) (*model.PromoCode, error) {
	var p model.PromoCode
	var start, end sql.NullTime
	var limit sql.NullInt64
	var maxDiscount sql.NullInt64
	err := row.Scan(&p.ID, &p.HotelID, &p.Code, &p.Type, &p.Value, &start, &end,
		&limit, &p.UsageCount, &maxDiscount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time.UTC()
		p.StartDate = &t
	}
	if end.Valid {
		t := end.Time.UTC()
		p.EndDate = &t
	}
	if limit.Valid {
		n := int(limit.Int64)
		p.UsageLimit = &n
	}
	if maxDiscount.Valid {
		v := maxDiscount.Int64
		p.MaxDiscountCents = &v
	}
	return &p, nil
}

// RedeemTx increments usage_count by exactly one, guarded by the usage
// limit in the WHERE clause.  It returns false when the code is no
// longer redeemable (inactive, or the ceiling was reached by a
// concurrent booking); the caller must then fail the confirmation.
func (r *PromoRepo) RedeemTx(ctx context.Context, tx *sql.Tx, promoID uint64) (bool, error) {
	const q = `UPDATE promo_codes
               SET usage_count = usage_count + 1
               WHERE id = ? AND is_active = 1
                 AND (usage_limit IS NULL OR usage_count < usage_limit)`
	res, err := tx.ExecContext(ctx, q, promoID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a promo code and fills in its ID.  The code is stored
// uppercased; a duplicate within the hotel maps to ErrConflict.
func (r *PromoRepo) Create(ctx context.Context, p *model.PromoCode) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO promo_codes
		 (hotel_id, code, type, value, start_date, end_date, usage_limit, max_discount_cents, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.HotelID, p.Code, p.Type, p.Value,
		nullDate(p.StartDate), nullDate(p.EndDate), p.UsageLimit, p.MaxDiscountCents, p.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}
