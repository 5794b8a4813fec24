package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// DraftRepo provides CRUD operations for booking drafts and their
// nightly items.  A draft is keyed by its guest session: the
// booking_drafts table carries a unique index on session_id and the
// upsert relies on it, so two rows for one session cannot exist.  Items
// are regenerated wholesale on every upsert from a fresh pricing run.
type DraftRepo struct {
	db *sql.DB
}

// NewDraftRepo returns a new DraftRepo bound to the given database.
func NewDraftRepo(db *sql.DB) *DraftRepo { return &DraftRepo{db: db} }

const draftColumns = `id, session_id, reference_code, hotel_id, room_type_id,
                      check_in, check_out, adults, children, promo_code,
                      base_amount_cents, tax_amount_cents, fee_amount_cents,
                      discount_amount_cents, total_amount_cents, balance_due_cents,
                      currency_code, created_at, updated_at`

// UpsertTx inserts a draft or replaces the existing draft for the same
// session in a single statement.  On conflict the reference code and
// created_at of the original draft are preserved; every priced field is
// overwritten.  The LAST_INSERT_ID(id) trick makes LastInsertId return
// the row id on both the insert and the update path, which is then
// stored on the passed draft.  Existing items are deleted and the new
// ones inserted in bulk within the same transaction.
func (r *DraftRepo) UpsertTx(ctx context.Context, tx *sql.Tx, d *model.BookingDraft, items []model.BookingDraftItem) error {
	const q = `INSERT INTO booking_drafts
                 (session_id, reference_code, hotel_id, room_type_id, check_in, check_out,
                  adults, children, promo_code, base_amount_cents, tax_amount_cents,
                  fee_amount_cents, discount_amount_cents, total_amount_cents,
                  balance_due_cents, currency_code)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE
                 id = LAST_INSERT_ID(id),
                 hotel_id = VALUES(hotel_id),
                 room_type_id = VALUES(room_type_id),
                 check_in = VALUES(check_in),
                 check_out = VALUES(check_out),
                 adults = VALUES(adults),
                 children = VALUES(children),
                 promo_code = VALUES(promo_code),
                 base_amount_cents = VALUES(base_amount_cents),
                 tax_amount_cents = VALUES(tax_amount_cents),
                 fee_amount_cents = VALUES(fee_amount_cents),
                 discount_amount_cents = VALUES(discount_amount_cents),
                 total_amount_cents = VALUES(total_amount_cents),
                 balance_due_cents = VALUES(balance_due_cents),
                 currency_code = VALUES(currency_code)`
	res, err := tx.ExecContext(ctx, q,
		d.SessionID, d.ReferenceCode, d.HotelID, d.RoomTypeID,
		d.CheckIn.UTC().Format("2006-01-02"), d.CheckOut.UTC().Format("2006-01-02"),
		d.Adults, d.Children, d.PromoCode,
		d.BaseAmountCents, d.TaxAmountCents, d.FeeAmountCents,
		d.DiscountAmountCents, d.TotalAmountCents, d.BalanceDueCents,
		d.CurrencyCode)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_draft_items WHERE booking_draft_id = ?`, d.ID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_draft_items (booking_draft_id, date, price_cents) VALUES `
	args := make([]interface{}, 0, len(items)*3)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, d.ID, it.Date.UTC().Format("2006-01-02"), it.PriceCents)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// GetBySession returns the draft for a session along with its nightly
// items ordered by date.  When no draft exists, sql.ErrNoRows is
// returned.
func (r *DraftRepo) GetBySession(ctx context.Context, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	const q = `SELECT ` + draftColumns + ` FROM booking_drafts WHERE session_id = ? LIMIT 1`
	d, err := scanDraft(r.db.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		return nil, nil, err
	}
	items, err := r.listItems(ctx, r.db.QueryContext, d.ID)
	if err != nil {
		return nil, nil, err
	}
	return d, items, nil
}

// GetBySessionTx is GetBySession within a transaction, locking the
// draft row for the duration of the conversion so a concurrent upsert
// cannot interleave with item deletion.
func (r *DraftRepo) GetBySessionTx(ctx context.Context, tx *sql.Tx, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	const q = `SELECT ` + draftColumns + ` FROM booking_drafts WHERE session_id = ? LIMIT 1 FOR UPDATE`
	d, err := scanDraft(tx.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		return nil, nil, err
	}
	items, err := r.listItems(ctx, tx.QueryContext, d.ID)
	if err != nil {
		return nil, nil, err
	}
	return d, items, nil
}

// DeleteTx removes a draft.  Items are removed by the ON DELETE CASCADE
// foreign key on booking_draft_items.
func (r *DraftRepo) DeleteTx(ctx context.Context, tx *sql.Tx, draftID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM booking_drafts WHERE id = ?`, draftID)
	return err
}

// DeleteBySession removes a draft by session key outside any
// transaction.  Used for explicit abandonment; returns the number of
// rows removed so handlers can distinguish a no-op.
func (r *DraftRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PendingFilter narrows the pending-drafts listing.  Zero values mean
// "no constraint"; Limit defaults to 50 and is capped at 200.
type PendingFilter struct {
	HotelID       uint64
	CreatedBefore *time.Time
	CheckInFrom   *time.Time
	CheckInTo     *time.Time
	Limit         int
	Offset        int
}

// ListPending returns drafts matching the filter, newest first.  The
// caller derives presentation fields (age, expiring-soon) from the raw
// rows; this query has no side effects.
func (r *DraftRepo) ListPending(ctx context.Context, f PendingFilter) ([]model.BookingDraft, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + draftColumns + ` FROM booking_drafts WHERE 1=1`)
	args := make([]interface{}, 0, 6)
	if f.HotelID != 0 {
		sb.WriteString(" AND hotel_id = ?")
		args = append(args, f.HotelID)
	}
	if f.CreatedBefore != nil {
		sb.WriteString(" AND created_at < ?")
		args = append(args, f.CreatedBefore.UTC().Format("2006-01-02 15:04:05"))
	}
	if f.CheckInFrom != nil {
		sb.WriteString(" AND check_in >= ?")
		args = append(args, f.CheckInFrom.UTC().Format("2006-01-02"))
	}
	if f.CheckInTo != nil {
		sb.WriteString(" AND check_in < ?")
		args = append(args, f.CheckInTo.UTC().Format("2006-01-02"))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	sb.WriteString(" ORDER BY created_at DESC LIMIT ? OFFSET ?")
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	drafts := make([]model.BookingDraft, 0)
	for rows.Next() {
		d, err := scanDraftRows(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drafts, nil
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *DraftRepo) listItems(ctx context.Context, query queryFunc, draftID uint64) ([]model.BookingDraftItem, error) {
	const q = `SELECT id, booking_draft_id, date, price_cents, created_at
               FROM booking_draft_items
               WHERE booking_draft_id = ?
               ORDER BY date`
	rows, err := query(ctx, q, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.BookingDraftItem
	for rows.Next() {
		var it model.BookingDraftItem
		if err := rows.Scan(&it.ID, &it.BookingDraftID, &it.Date, &it.PriceCents, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDraft(row *sql.Row) (*model.BookingDraft, error) {
	var d model.BookingDraft
	var promo sql.NullString
	err := row.Scan(&d.ID, &d.SessionID, &d.ReferenceCode, &d.HotelID, &d.RoomTypeID,
		&d.CheckIn, &d.CheckOut, &d.Adults, &d.Children, &promo,
		&d.BaseAmountCents, &d.TaxAmountCents, &d.FeeAmountCents,
		&d.DiscountAmountCents, &d.TotalAmountCents, &d.BalanceDueCents,
		&d.CurrencyCode, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if promo.Valid {
		d.PromoCode = promo.String
	}
	return &d, nil
}

func scanDraftRows(rows *sql.Rows) (*model.BookingDraft, error) {
	var d model.BookingDraft
	var promo sql.NullString
	err := rows.Scan(&d.ID, &d.SessionID, &d.ReferenceCode, &d.HotelID, &d.RoomTypeID,
		&d.CheckIn, &d.CheckOut, &d.Adults, &d.Children, &promo,
		&d.BaseAmountCents, &d.TaxAmountCents, &d.FeeAmountCents,
		&d.DiscountAmountCents, &d.TotalAmountCents, &d.BalanceDueCents,
		&d.CurrencyCode, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if promo.Valid {
		d.PromoCode = promo.String
	}
	return &d, nil
}
