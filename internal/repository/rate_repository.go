package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// RateRepo accesses nightly room rates.  The booking pipeline only
// reads them; writes come from the manager admin endpoints.  All dates
// are DATE columns interpreted in UTC.
type RateRepo struct {
	db *sql.DB
}

// NewRateRepo returns a new RateRepo bound to the given database.
func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

// ListForRange returns the rate rows for a room type covering every date
// in [from, to), ordered by date ascending.  Callers compare the row
// count against the number of nights to detect gaps in the rate
// calendar; a gap must not be silently priced.
func (r *RateRepo) ListForRange(ctx context.Context, roomTypeID uint64, from, to time.Time) ([]model.RoomRate, error) {
	const q = `SELECT id, room_type_id, date, price_cents, created_at, updated_at
               FROM room_rates
               WHERE room_type_id = ? AND date >= ? AND date < ?
               ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q,
		roomTypeID, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rates []model.RoomRate
	for rows.Next() {
		var rr model.RoomRate
		if err := rows.Scan(&rr.ID, &rr.RoomTypeID, &rr.Date, &rr.PriceCents, &rr.CreatedAt, &rr.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}

// SetRange upserts one rate row per date in [from, to) at the given
// price.  Existing rows are overwritten; the booking pipeline picks the
// new price up on the next draft.
func (r *RateRepo) SetRange(ctx context.Context, roomTypeID uint64, from, to time.Time, priceCents int64) (int, error) {
	from, to = from.UTC(), to.UTC()
	var (
		placeholders []string
		args         []interface{}
		n            int
	)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		placeholders = append(placeholders, "(?,?,?)")
		args = append(args, roomTypeID, d.Format("2006-01-02"), priceCents)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	q := "INSERT INTO room_rates (room_type_id, date, price_cents) VALUES " +
		strings.Join(placeholders, ",") +
		" ON DUPLICATE KEY UPDATE price_cents = VALUES(price_cents)"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}
