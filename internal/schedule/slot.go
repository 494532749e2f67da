// Package schedule implements the slot arithmetic behind the booking
// API: generating one-hour slots from a ground's operating hours,
// subtracting occupied slots and detecting interval overlap between
// requested and existing bookings.  Everything in this package is a
// pure function over in-memory values so the logic can be tested
// without a database.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SlotDash is the separator used in slot labels ("10:00–11:00").
// Labels are produced with the en dash; ParseSlot additionally
// accepts a plain hyphen from older clients.
const SlotDash = "–"

// ErrBadClock is returned when a clock string is not "HH:mm" with
// an hour in 0..24.
var ErrBadClock = errors.New("invalid clock value")

// ErrBadSlot is returned when a slot label cannot be parsed into a
// one-hour interval.
var ErrBadSlot = errors.New("invalid slot label")

// ParseClock parses an "HH:mm" operating-hours value and returns the
// hour.  Minutes are accepted but ignored: the booking grid is hour
// granular, matching how grounds declare their hours.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return h, nil
}

// FormatSlot renders the label of the one-hour slot starting at the
// given hour, e.g. FormatSlot(9) == "09:00–10:00".
func FormatSlot(startHour int) string {
	return fmt.Sprintf("%02d:00%s%02d:00", startHour, SlotDash, startHour+1)
}

// ParseSlot parses a slot label into its start and end hours.  The
// label must describe a forward interval; both the en dash and a
// hyphen are accepted as separator and surrounding whitespace is
// trimmed.
func ParseSlot(label string) (start, end int, err error) {
	s := strings.TrimSpace(label)
	var parts []string
	if strings.Contains(s, SlotDash) {
		parts = strings.SplitN(s, SlotDash, 2)
	} else {
		parts = strings.SplitN(s, "-", 2)
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	if start, err = ParseClock(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	if end, err = ParseClock(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	return start, end, nil
}

// GenerateSlots produces the ordered labels of every one-hour slot
// in [openHour, closeHour).  An inverted or empty range yields no
// slots.
func GenerateSlots(openHour, closeHour int) []string {
	if closeHour <= openHour {
		return nil
	}
	out := make([]string, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		out = append(out, FormatSlot(h))
	}
	return out
}

// AvailableSlots returns generated minus occupied, preserving
// generation order.  Occupied labels are trimmed before comparison
// because stored slot lists may carry stray whitespace.
func AvailableSlots(generated, occupied []string) []string {
	taken := make(map[string]bool, len(occupied))
	for _, s := range occupied {
		taken[strings.TrimSpace(s)] = true
	}
	out := make([]string, 0, len(generated))
	for _, s := range generated {
		if !taken[strings.TrimSpace(s)] {
			out = append(out, s)
		}
	}
	return out
}

// Overlaps reports whether the half-open hour intervals [s1,e1) and
// [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return max(s1, s2) < min(e1, e2)
}
