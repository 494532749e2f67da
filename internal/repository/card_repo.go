package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ground-booking/internal/model"
)

// CardRepo stores display-only payment cards on user profiles.  No
// charging happens anywhere in this service, so only brand, last4,
// holder and expiry are persisted.
type CardRepo struct{ DB *sql.DB }

func NewCardRepo(db *sql.DB) *CardRepo { return &CardRepo{DB: db} }

// ErrCardNotFound is returned when a card lookup fails or the card
// belongs to a different user.
var ErrCardNotFound = errors.New("card not found")

// Create inserts a card for the user and fills in its ID.
func (r *CardRepo) Create(ctx context.Context, card *model.PaymentCard) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payment_cards (user_id, brand, last4, holder, expiry_month, expiry_year) VALUES (?,?,?,?,?,?)",
		card.UserID, card.Brand, card.Last4, card.Holder, card.ExpiryMonth, card.ExpiryYear)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	card.ID = uint64(id)
	return nil
}

// ListByUser returns all cards saved by a user, newest first.
func (r *CardRepo) ListByUser(ctx context.Context, userID uint64) ([]model.PaymentCard, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,brand,last4,holder,expiry_month,expiry_year,created_at FROM payment_cards WHERE user_id=? ORDER BY id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PaymentCard
	for rows.Next() {
		var c model.PaymentCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Brand, &c.Last4, &c.Holder, &c.ExpiryMonth, &c.ExpiryYear, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteByIDAndUser removes a card only when it belongs to the user.
func (r *CardRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM payment_cards WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCardNotFound
	}
	return nil
}
