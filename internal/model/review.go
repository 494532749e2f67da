package model

import "time"

// Review is a per-ground rating left by a user who has booked that
// ground at least once.  At most one review exists per
// (user, ground) pair, enforced with a unique key.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – author of the review.
//  GroundID  – ground being reviewed.
//  Rating    – 1 to 5 stars.
//  Comment   – optional free text.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Review struct {
	ID        uint64    // reviews.id
	UserID    uint64    // reviews.user_id
	GroundID  uint64    // reviews.ground_id
	Rating    uint8     // reviews.rating
	Comment   *string   // reviews.comment (nullable)
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}
