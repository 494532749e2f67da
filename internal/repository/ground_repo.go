package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error comparisons
	"strings"      // strings is used for duplicate key sniffing

	"github.com/iliyamo/ground-booking/internal/model"
)

const groundCols = "id, owner_id, name, ground_type, description, latitude, longitude, price_per_hour, open_time, close_time, available_weekdays, is_active, created_at, updated_at"

// GroundRepo provides methods to create and retrieve grounds and
// their numbered fields.  It embeds a database handle to perform
// queries and commands.
type GroundRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewGroundRepo constructs a GroundRepo with the given DB handle.
func NewGroundRepo(db *sql.DB) *GroundRepo {
	return &GroundRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *GroundRepo) DB() *sql.DB { return r.db }

func scanGround(row interface{ Scan(...any) error }, g *model.Ground) error {
	return row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.GroundType, &g.Description,
		&g.Latitude, &g.Longitude, &g.PricePerHour, &g.OpenTime, &g.CloseTime,
		&g.WeekdaysCSV, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
}

// Create inserts a new ground together with fieldCount numbered
// fields in one transaction.  After insert the ID field of the
// ground is set and the record is re-read so timestamps and the
// active flag come back filled.
func (r *GroundRepo) Create(ctx context.Context, g *model.Ground, fieldCount int) error {
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

	const qInsert = `INSERT INTO grounds (owner_id, name, ground_type, description, latitude, longitude, price_per_hour, open_time, close_time, available_weekdays)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, g.OwnerID, g.Name, g.GroundType, g.Description,
		g.Latitude, g.Longitude, g.PricePerHour, g.OpenTime, g.CloseTime, g.WeekdaysCSV)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	for n := 1; n <= fieldCount; n++ {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ground_fields (ground_id, field_number) VALUES (?,?)", g.ID, n); err != nil {
			return err
		}
	}

	if err := scanGround(tx.QueryRowContext(ctx,
		"SELECT "+groundCols+" FROM grounds WHERE id = ?", g.ID), g); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a ground by its ID regardless of owner.  It
// returns ErrGroundNotFound when no row is found.
func (r *GroundRepo) GetByID(ctx context.Context, id uint64) (*model.Ground, error) {
	var g model.Ground
	err := scanGround(r.db.QueryRowContext(ctx,
		"SELECT "+groundCols+" FROM grounds WHERE id = ?", id), &g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroundNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns active grounds, optionally filtered by ground type
// and a case-insensitive name substring.  Used by the public browse
// endpoint.
func (r *GroundRepo) List(ctx context.Context, groundType, nameLike string) ([]*model.Ground, error) {
	q := "SELECT " + groundCols + " FROM grounds WHERE is_active = 1"
	var args []interface{}
	if groundType != "" {
		q += " AND ground_type = ?"
		args = append(args, groundType)
	}
	if nameLike != "" {
		q += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(nameLike)+"%")
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Ground
	for rows.Next() {
		g := new(model.Ground)
		if err := scanGround(rows, g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates mutable ground columns if the ground
// belongs to the given owner.  Returns sql.ErrNoRows when not found.
func (r *GroundRepo) UpdateByIDAndOwner(ctx context.Context, g *model.Ground) error {
	const q = `UPDATE grounds
               SET name = ?, ground_type = ?, description = ?, latitude = ?, longitude = ?,
                   price_per_hour = ?, open_time = ?, close_time = ?, available_weekdays = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		g.Name, g.GroundType, g.Description, g.Latitude, g.Longitude,
		g.PricePerHour, g.OpenTime, g.CloseTime, g.WeekdaysCSV, g.ID, g.OwnerID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a ground.  Fields and reviews cascade; bookings
// keep their rows for history, so grounds with bookings are
// deactivated instead of deleted.
func (r *GroundRepo) Delete(ctx context.Context, id uint64) error {
	var cnt int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE ground_id=?", id).Scan(&cnt); err != nil {
		return err
	}
	if cnt > 0 {
		res, err := r.db.ExecContext(ctx, "UPDATE grounds SET is_active=0 WHERE id=?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrGroundNotFound
		}
		return nil
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM grounds WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGroundNotFound
	}
	return nil
}

// ListFields returns all fields of a ground ordered by number.
func (r *GroundRepo) ListFields(ctx context.Context, groundID uint64) ([]model.GroundField, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, ground_id, field_number, is_available, created_at, updated_at FROM ground_fields WHERE ground_id=? ORDER BY field_number",
		groundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.GroundField
	for rows.Next() {
		var f model.GroundField
		if err := rows.Scan(&f.ID, &f.GroundID, &f.FieldNumber, &f.IsAvailable, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetField fetches a single field by ground and number.  Returns
// ErrFieldNotFound when the ground has no such field.
func (r *GroundRepo) GetField(ctx context.Context, groundID uint64, fieldNumber uint32) (*model.GroundField, error) {
	var f model.GroundField
	err := r.db.QueryRowContext(ctx,
		"SELECT id, ground_id, field_number, is_available, created_at, updated_at FROM ground_fields WHERE ground_id=? AND field_number=? LIMIT 1",
		groundID, fieldNumber).
		Scan(&f.ID, &f.GroundID, &f.FieldNumber, &f.IsAvailable, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// SetFieldAvailability flips a field's bookable flag.
func (r *GroundRepo) SetFieldAvailability(ctx context.Context, groundID uint64, fieldNumber uint32, available bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE ground_fields SET is_available=? WHERE ground_id=? AND field_number=?",
		available, groundID, fieldNumber)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFieldNotFound
	}
	return nil
}
