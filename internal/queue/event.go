// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in the Type field of Event.
const (
	TypeUserRegistered   = "user.registered"
	TypeBookingCreated   = "booking.created"
	TypeBookingUpdated   = "booking.updated"
	TypeBookingCancelled = "booking.cancelled"
)

// Event is published on registration and on every booking mutation.
// It contains enough information for downstream consumers to email
// the user without querying the primary database.
type Event struct {
	Type        string   `json:"type"`
	UserID      uint64   `json:"user_id"`
	UserName    string   `json:"user_name"`
	UserEmail   string   `json:"user_email"`
	BookingRef  string   `json:"booking_ref,omitempty"`
	GroundID    uint64   `json:"ground_id,omitempty"`
	GroundName  string   `json:"ground_name,omitempty"`
	FieldNumber uint32   `json:"field_number,omitempty"`
	Date        string   `json:"date,omitempty"`
	Slots       []string `json:"slots,omitempty"`
	TotalPrice  uint32   `json:"total_price,omitempty"`
	OccurredAt  string   `json:"occurred_at"`
}
