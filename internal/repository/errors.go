// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrSlotTaken signals that the store-level
// uniqueness key rejected a booking slot that was grabbed by a
// concurrent writer.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrGroundNotFound is returned when a ground lookup fails.
var ErrGroundNotFound = errors.New("ground not found")

// ErrFieldNotFound is returned when a ground has no field with the
// requested number.
var ErrFieldNotFound = errors.New("field not found")

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// ErrReviewNotFound is returned when a review lookup fails.
var ErrReviewNotFound = errors.New("review not found")

// ErrReviewExists is returned when a user already reviewed a ground;
// the unique key on (user_id, ground_id) allows one review per pair.
var ErrReviewExists = errors.New("review already exists")

// ErrSlotTaken is returned when inserting booking slots violates the
// occupancy unique key, meaning another booking holds at least one of
// the requested hours. Handlers translate this into the same 400
// conflict response as the pre-write overlap check.
var ErrSlotTaken = errors.New("slot already booked")
