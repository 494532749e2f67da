package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ground-booking/internal/model"
)

// ReviewRepo persists per-ground reviews.  The unique key on
// (user_id, ground_id) limits each user to one review per ground.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = "id, user_id, ground_id, rating, comment, created_at, updated_at"

func scanReview(row interface{ Scan(...any) error }, v *model.Review) error {
	return row.Scan(&v.ID, &v.UserID, &v.GroundID, &v.Rating, &v.Comment, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a review and fills in its ID.  A duplicate key
// means the user already reviewed this ground.
func (r *ReviewRepo) Create(ctx context.Context, v *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, ground_id, rating, comment) VALUES (?,?,?,?)",
		v.UserID, v.GroundID, v.Rating, v.Comment)
	if err != nil {
		if isDup(err) {
			return ErrReviewExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a single review.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	var v model.Review
	err := scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewCols+" FROM reviews WHERE id=? LIMIT 1", id), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByGround returns all reviews of a ground, newest first,
// together with each author's display name.
func (r *ReviewRepo) ListByGround(ctx context.Context, groundID uint64) ([]ReviewWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.ground_id, r.rating, r.comment, r.created_at, r.updated_at, u.name
         FROM reviews r JOIN users u ON u.id = r.user_id
         WHERE r.ground_id=? ORDER BY r.id DESC`, groundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReviewWithAuthor
	for rows.Next() {
		var v ReviewWithAuthor
		if err := rows.Scan(&v.ID, &v.UserID, &v.GroundID, &v.Rating, &v.Comment, &v.CreatedAt, &v.UpdatedAt, &v.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ReviewWithAuthor is a review row joined with the author's name for
// listing responses.
type ReviewWithAuthor struct {
	model.Review
	AuthorName string
}

// Update changes rating and comment of an existing review.
func (r *ReviewRepo) Update(ctx context.Context, v *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET rating=?, comment=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		v.Rating, v.Comment, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
