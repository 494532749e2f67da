package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Ground represents a bookable sports venue owned by a user.  A
// ground contains one or more numbered fields.  Operating hours are
// stored as "HH:mm" strings at hour granularity and the open
// weekdays as a comma separated list of 0–6 integers
// (Sunday-indexed).  This struct corresponds to a row in the
// `grounds` table.
//
// Fields:
//  ID            – primary key identifier.
//  OwnerID       – user ID of the ground owner.
//  Name          – unique name of the ground per owner.
//  GroundType    – sport played on the ground (e.g. football).
//  Description   – optional free text about the venue.
//  Latitude      – geolocation latitude.
//  Longitude     – geolocation longitude.
//  PricePerHour  – price of one slot in minor currency units.
//  OpenTime      – opening clock time "HH:mm".
//  CloseTime     – closing clock time "HH:mm".
//  WeekdaysCSV   – open weekdays, e.g. "1,2,3,4,5".
//  IsActive      – whether the ground is currently bookable.
//  CreatedAt     – timestamp when the ground was created.
//  UpdatedAt     – timestamp of last update.
type Ground struct {
	ID           uint64    // grounds.id
	OwnerID      uint64    // grounds.owner_id
	Name         string    // grounds.name
	GroundType   string    // grounds.ground_type
	Description  *string   // grounds.description (nullable)
	Latitude     float64   // grounds.latitude
	Longitude    float64   // grounds.longitude
	PricePerHour uint32    // grounds.price_per_hour
	OpenTime     string    // grounds.open_time
	CloseTime    string    // grounds.close_time
	WeekdaysCSV  string    // grounds.available_weekdays
	IsActive     bool      // grounds.is_active
	CreatedAt    time.Time // grounds.created_at
	UpdatedAt    time.Time // grounds.updated_at
}

// GroundField is a numbered sub-unit of a ground (pitch #2 and so
// on) with its own availability flag.  Field numbers start at 1 and
// are unique per ground.
//
// Fields:
//  ID          – primary key identifier.
//  GroundID    – ground to which this field belongs.
//  FieldNumber – 1-based number of the field within the ground.
//  IsAvailable – whether the field can currently be booked.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type GroundField struct {
	ID          uint64    // ground_fields.id
	GroundID    uint64    // ground_fields.ground_id
	FieldNumber uint32    // ground_fields.field_number
	IsAvailable bool      // ground_fields.is_available
	CreatedAt   time.Time // ground_fields.created_at
	UpdatedAt   time.Time // ground_fields.updated_at
}

// Weekdays parses WeekdaysCSV into a sorted set of weekday numbers.
// Entries outside 0–6 and garbage tokens are dropped so a partially
// corrupted column still yields a usable mask.
func (g *Ground) Weekdays() []int {
	seen := map[int]bool{}
	for _, part := range strings.Split(g.WeekdaysCSV, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		seen[n] = true
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// OpenOn reports whether the ground is open on the given weekday
// (time.Weekday is Sunday-indexed, matching the stored mask).
func (g *Ground) OpenOn(day time.Weekday) bool {
	for _, n := range g.Weekdays() {
		if n == int(day) {
			return true
		}
	}
	return false
}

// WeekdaysToCSV renders a weekday set in the storage format.  Used
// by handlers when writing grounds.
func WeekdaysToCSV(days []int) string {
	seen := map[int]bool{}
	uniq := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		uniq = append(uniq, d)
	}
	sort.Ints(uniq)
	parts := make([]string, len(uniq))
	for i, d := range uniq {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
