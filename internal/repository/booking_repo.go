package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ground-booking/internal/model"
	"github.com/iliyamo/ground-booking/internal/schedule"
)

// BookingRepo persists bookings and their slot rows.  Slot rows live
// in booking_slots which carries a UNIQUE key over
// (ground_id, field_number, booking_date, start_hour); inserting a
// slot some other booking holds fails with a duplicate key error
// that is surfaced as ErrSlotTaken.  Cancelling a booking deletes
// its slot rows so the hours become free again while the booking
// row itself is kept for history.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction composition.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = "id, reference, user_id, ground_id, field_number, DATE_FORMAT(booking_date,'%Y-%m-%d'), total_price, status, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.UserID, &b.GroundID, &b.FieldNumber,
		&b.Date, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// OccupiedSlot is one taken hour on a ground for a date, as served
// by the occupied endpoint.
type OccupiedSlot struct {
	Slot        string `json:"slot"`
	FieldNumber uint32 `json:"fieldNumber"`
}

func isDup(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// loadSlots fills Slots for every listed booking in one query.
func (r *BookingRepo) loadSlots(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Booking, len(bookings))
	ph := make([]string, 0, len(bookings))
	args := make([]interface{}, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ph = append(ph, "?")
		args = append(args, b.ID)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT booking_id, slot_label FROM booking_slots WHERE booking_id IN ("+strings.Join(ph, ",")+") ORDER BY booking_id, start_hour",
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var label string
		if err := rows.Scan(&id, &label); err != nil {
			return err
		}
		if b, ok := byID[id]; ok {
			b.Slots = append(b.Slots, label)
		}
	}
	return rows.Err()
}

// ListForKey returns all confirmed bookings for a
// (ground, field, date), slots included.  This is the live data the
// conflict check runs against at write time.
func (r *BookingRepo) ListForKey(ctx context.Context, groundID uint64, fieldNumber uint32, date string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE ground_id=? AND field_number=? AND booking_date=? AND status=? ORDER BY id",
		groundID, fieldNumber, date, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ptrs []*model.Booking
	for rows.Next() {
		b := new(model.Booking)
		if err := scanBooking(rows, b); err != nil {
			return nil, err
		}
		ptrs = append(ptrs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSlots(ctx, ptrs); err != nil {
		return nil, err
	}
	out := make([]model.Booking, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out, nil
}

// Occupied lists taken slots for a ground and date straight from the
// slot table.  fieldNumber of 0 means all fields.
func (r *BookingRepo) Occupied(ctx context.Context, groundID uint64, date string, fieldNumber uint32) ([]OccupiedSlot, error) {
	q := "SELECT slot_label, field_number FROM booking_slots WHERE ground_id=? AND booking_date=?"
	args := []interface{}{groundID, date}
	if fieldNumber > 0 {
		q += " AND field_number=?"
		args = append(args, fieldNumber)
	}
	q += " ORDER BY field_number, start_hour"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OccupiedSlot
	for rows.Next() {
		var s OccupiedSlot
		if err := rows.Scan(&s.Slot, &s.FieldNumber); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func insertSlotsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	for _, label := range b.Slots {
		start, _, err := schedule.ParseSlot(label)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO booking_slots (booking_id, ground_id, field_number, booking_date, start_hour, slot_label) VALUES (?,?,?,?,?,?)",
			b.ID, b.GroundID, b.FieldNumber, b.Date, start, strings.TrimSpace(label)); err != nil {
			if isDup(err) {
				return ErrSlotTaken
			}
			return err
		}
	}
	return nil
}

// Create inserts the booking row and one slot row per label inside a
// transaction.  A duplicate occupancy key from a concurrent writer
// aborts the whole booking with ErrSlotTaken.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (reference, user_id, ground_id, field_number, booking_date, total_price, status) VALUES (?,?,?,?,?,?,?)",
		b.Reference, b.UserID, b.GroundID, b.FieldNumber, b.Date, b.TotalPrice, model.BookingConfirmed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingConfirmed

	if err := insertSlotsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches one booking with its slots.  Returns
// ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if err := r.loadSlots(ctx, []*model.Booking{&b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update rewrites a booking's field, date, slots and price.  The booking's
// own slot rows are deleted first so moving within the same hours
// does not trip the occupancy key; any remaining duplicate means a
// real conflict with another booking.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM booking_slots WHERE booking_id=?", b.ID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET field_number=?, booking_date=?, total_price=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		b.FieldNumber, b.Date, b.TotalPrice, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// updated_at changes even for same-date updates, so zero rows
		// here really means the booking is gone
		return ErrBookingNotFound
	}
	if err := insertSlotsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel marks the booking cancelled and frees its slot rows.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
		model.BookingCancelled, id, model.BookingConfirmed)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM booking_slots WHERE booking_id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY id DESC", userID)
}

// ListAll returns every booking, newest first.  Admin only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings ORDER BY id DESC")
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		b := new(model.Booking)
		if err := scanBooking(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSlots(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUserAndGround counts a user's bookings on a ground.  The
// review endpoint uses it to gate reviews behind a prior booking.
func (r *BookingRepo) CountByUserAndGround(ctx context.Context, userID, groundID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE user_id=? AND ground_id=?", userID, groundID).Scan(&n)
	return n, err
}
