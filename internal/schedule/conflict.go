package schedule

import "github.com/iliyamo/ground-booking/internal/model"

// Conflict describes one requested slot that overlaps an existing
// booking.  UserName is filled in by the handler after looking up
// the conflicting booking's user.
type Conflict struct {
	Slot      string `json:"slot"`       // the requested label that failed
	BookingID uint64 `json:"-"`          // existing booking it collided with
	UserID    uint64 `json:"-"`          // owner of that booking
	UserName  string `json:"user"`       // display name of that owner
	Taken     string `json:"taken_slot"` // the stored label it overlaps
}

// FindConflicts compares the requested slot labels against every
// existing booking for the same (ground, field, date) and returns
// one Conflict per overlapping pair.  Cancelled bookings and
// bookings matching excludeID (the record being updated) are
// skipped.  Unparseable labels, requested or stored, are ignored:
// the request validator rejects bad input before this runs, and a
// corrupted stored label cannot be meaningfully compared.
func FindConflicts(requested []string, existing []model.Booking, excludeID uint64) []Conflict {
	var out []Conflict
	for _, label := range requested {
		rs, re, err := ParseSlot(label)
		if err != nil {
			continue
		}
		for _, b := range existing {
			if b.ID == excludeID || b.Status == model.BookingCancelled {
				continue
			}
			for _, taken := range b.Slots {
				ts, te, err := ParseSlot(taken)
				if err != nil {
					continue
				}
				if Overlaps(rs, re, ts, te) {
					out = append(out, Conflict{
						Slot:      label,
						BookingID: b.ID,
						UserID:    b.UserID,
						Taken:     taken,
					})
				}
			}
		}
	}
	return out
}

// TotalPrice computes the booking price: one hour of the ground's
// rate per requested slot.  Slot spans are not used so a
// non-contiguous list is charged only for the hours it actually
// reserves.
func TotalPrice(pricePerHour uint32, slotCount int) uint32 {
	if slotCount < 0 {
		return 0
	}
	return pricePerHour * uint32(slotCount)
}
