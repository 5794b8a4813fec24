package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// InventoryRepo provides access to per-room-type, per-date availability
// counters.  The booking pipeline mutates them only through the
// conditional decrement performed at confirmation; bulk writes come
// from the manager admin endpoints.  All dates are DATE columns
// interpreted in UTC.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// dateArgs converts a slice of nights into driver arguments plus the
// matching placeholder list for an IN clause.
func dateArgs(roomTypeID uint64, dates []time.Time) ([]interface{}, string) {
	args := make([]interface{}, 0, len(dates)+1)
	args = append(args, roomTypeID)
	ph := make([]string, 0, len(dates))
	for _, d := range dates {
		args = append(args, d.UTC().Format("2006-01-02"))
		ph = append(ph, "?")
	}
	return args, strings.Join(ph, ",")
}

// OpenDates returns the subset of the requested nights that have an
// open (closed = false) inventory row, regardless of the remaining
// count.  Draft creation requires every night to be open; the stricter
// available > 0 condition applies only at confirmation.
func (r *InventoryRepo) OpenDates(ctx context.Context, roomTypeID uint64, dates []time.Time) (map[string]bool, error) {
	if len(dates) == 0 {
		return map[string]bool{}, nil
	}
	args, ph := dateArgs(roomTypeID, dates)
	q := `SELECT date FROM room_inventory
          WHERE room_type_id = ? AND closed = 0 AND date IN (` + ph + `)`
	return r.queryDateSet(ctx, q, args)
}

// AvailableDatesTx returns the subset of the requested nights that are
// open and still have at least one room, queried with FOR UPDATE so the
// rows stay locked until the surrounding confirmation transaction
// completes.  This is the confirmation-time re-check; the decrement
// below remains conditional regardless.
func (r *InventoryRepo) AvailableDatesTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, dates []time.Time) (map[string]bool, error) {
	if len(dates) == 0 {
		return map[string]bool{}, nil
	}
	args, ph := dateArgs(roomTypeID, dates)
	q := `SELECT date FROM room_inventory
          WHERE room_type_id = ? AND closed = 0 AND available_rooms > 0 AND date IN (` + ph + `)
          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateSet(rows)
}

// DecrementTx reduces available_rooms by one for a single night.  The
// update is conditional on available_rooms > 0 at write time, so two
// confirmations racing for the last room cannot both succeed; the loser
// observes zero affected rows and the caller must fail the booking.
func (r *InventoryRepo) DecrementTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, date time.Time) (bool, error) {
	const q = `UPDATE room_inventory
               SET available_rooms = available_rooms - 1
               WHERE room_type_id = ? AND date = ? AND closed = 0 AND available_rooms > 0`
	res, err := tx.ExecContext(ctx, q, roomTypeID, date.UTC().Format("2006-01-02"))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForRange returns the open inventory rows for a room type covering
// [from, to), ordered by date.  Used by availability displays.
func (r *InventoryRepo) ListForRange(ctx context.Context, roomTypeID uint64, from, to time.Time) ([]model.RoomInventory, error) {
	const q = `SELECT id, room_type_id, date, available_rooms, closed, created_at, updated_at
               FROM room_inventory
               WHERE room_type_id = ? AND closed = 0 AND date >= ? AND date < ?
               ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q,
		roomTypeID, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var inv []model.RoomInventory
	for rows.Next() {
		var ri model.RoomInventory
		if err := rows.Scan(&ri.ID, &ri.RoomTypeID, &ri.Date, &ri.AvailableRooms, &ri.Closed, &ri.CreatedAt, &ri.UpdatedAt); err != nil {
			return nil, err
		}
		inv = append(inv, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InventoryRepo) queryDateSet(ctx context.Context, q string, args []interface{}) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateSet(rows)
}

// scanDateSet collects DATE values into a set keyed by YYYY-MM-DD.
func scanDateSet(rows *sql.Rows) (map[string]bool, error) {
	set := make(map[string]bool)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		set[d.UTC().Format("2006-01-02")] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// SetRange upserts one inventory row per date in [from, to) with the
// given count and closed flag.  Overwriting available_rooms does not
// consult existing bookings; it is the manager's statement of how many
// rooms remain sellable.
func (r *InventoryRepo) SetRange(ctx context.Context, roomTypeID uint64, from, to time.Time, availableRooms int, closed bool) (int, error) {
	from, to = from.UTC(), to.UTC()
	var (
		placeholders []string
		args         []interface{}
		n            int
	)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		placeholders = append(placeholders, "(?,?,?,?)")
		args = append(args, roomTypeID, d.Format("2006-01-02"), availableRooms, closed)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	q := "INSERT INTO room_inventory (room_type_id, date, available_rooms, closed) VALUES " +
		strings.Join(placeholders, ",") +
		" ON DUPLICATE KEY UPDATE available_rooms = VALUES(available_rooms), closed = VALUES(closed)"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}
