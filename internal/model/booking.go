package model

import "time"

// Booking status values stored in bookings.status.  A cancelled
// booking keeps its row for history but no longer occupies slots.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking ties a user, a ground, a field number and a calendar date
// to a non-empty ordered list of one-hour slots.  The slot labels
// live in the `booking_slots` table; Slots is populated by the
// repository when reading.  TotalPrice is computed once at creation
// as price-per-hour times the number of slots.
//
// Fields:
//  ID          – primary key identifier.
//  Reference   – UUID handed to clients and used in emails.
//  UserID      – user who made the booking.
//  GroundID    – ground being booked.
//  FieldNumber – field within the ground.
//  Date        – calendar date of the booking (date-only).
//  Slots       – ordered slot labels, format "HH:00–HH:00".
//  TotalPrice  – total price in minor currency units.
//  Status      – CONFIRMED or CANCELLED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	Reference   string    // bookings.reference
	UserID      uint64    // bookings.user_id
	GroundID    uint64    // bookings.ground_id
	FieldNumber uint32    // bookings.field_number
	Date        string    // bookings.booking_date (YYYY-MM-DD)
	Slots       []string  // booking_slots.slot_label, ordered by start hour
	TotalPrice  uint32    // bookings.total_price
	Status      string    // bookings.status
	CreatedAt   time.Time // bookings.created_at
	UpdatedAt   time.Time // bookings.updated_at
}
