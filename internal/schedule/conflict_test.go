package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ground-booking/internal/model"
)

func existingBooking(id, userID uint64, slots ...string) model.Booking {
	return model.Booking{
		ID:          id,
		UserID:      userID,
		GroundID:    1,
		FieldNumber: 1,
		Date:        "2025-06-02",
		Slots:       slots,
		Status:      model.BookingConfirmed,
	}
}

func TestFindConflictsExactAndSpanning(t *testing.T) {
	existing := []model.Booking{existingBooking(7, 42, "10:00–11:00")}

	// exact duplicate of the taken slot
	cs := FindConflicts([]string{"10:00–11:00"}, existing, 0)
	require.Len(t, cs, 1)
	assert.Equal(t, "10:00–11:00", cs[0].Slot)
	assert.Equal(t, uint64(7), cs[0].BookingID)
	assert.Equal(t, uint64(42), cs[0].UserID)

	// a wider request spanning the taken hour also collides
	cs = FindConflicts([]string{"09:00–11:00"}, existing, 0)
	require.Len(t, cs, 1)
	assert.Equal(t, "09:00–11:00", cs[0].Slot)
	assert.Equal(t, "10:00–11:00", cs[0].Taken)

	// the adjacent hour is free
	assert.Empty(t, FindConflicts([]string{"11:00–12:00"}, existing, 0))
}

func TestFindConflictsSkipsCancelledAndSelf(t *testing.T) {
	cancelled := existingBooking(3, 9, "10:00–11:00")
	cancelled.Status = model.BookingCancelled
	own := existingBooking(5, 1, "12:00–13:00")

	existing := []model.Booking{cancelled, own}

	// cancelled bookings no longer occupy their slots
	assert.Empty(t, FindConflicts([]string{"10:00–11:00"}, existing, 0))

	// updating booking 5 must not conflict with its own prior slots
	assert.Empty(t, FindConflicts([]string{"12:00–13:00"}, existing, 5))
	require.Len(t, FindConflicts([]string{"12:00–13:00"}, existing, 0), 1)
}

func TestFindConflictsMultipleRequested(t *testing.T) {
	existing := []model.Booking{
		existingBooking(1, 2, "09:00–10:00", "10:00–11:00"),
		existingBooking(2, 3, "13:00–14:00"),
	}
	cs := FindConflicts([]string{"10:00–11:00", "11:00–12:00", "13:00–14:00"}, existing, 0)
	require.Len(t, cs, 2)
	assert.Equal(t, "10:00–11:00", cs[0].Slot)
	assert.Equal(t, uint64(2), cs[0].UserID)
	assert.Equal(t, "13:00–14:00", cs[1].Slot)
	assert.Equal(t, uint64(3), cs[1].UserID)
}

func TestFindConflictsIgnoresGarbageLabels(t *testing.T) {
	existing := []model.Booking{existingBooking(1, 2, "not-a-slot", "10:00–11:00")}
	cs := FindConflicts([]string{"garbage", "10:00–11:00"}, existing, 0)
	require.Len(t, cs, 1)
	assert.Equal(t, "10:00–11:00", cs[0].Slot)
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, uint32(15000), TotalPrice(5000, 3))
	assert.Equal(t, uint32(0), TotalPrice(5000, 0))
	assert.Equal(t, uint32(0), TotalPrice(5000, -1))
}
