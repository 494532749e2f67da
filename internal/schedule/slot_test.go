package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, err := ParseClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, 9, h)

	h, err = ParseClock(" 23:30 ")
	require.NoError(t, err)
	assert.Equal(t, 23, h)

	for _, bad := range []string{"", "9", "24:xx", "ab:00", "-1:00", "25:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatAndParseSlot(t *testing.T) {
	assert.Equal(t, "09:00–10:00", FormatSlot(9))
	assert.Equal(t, "23:00–24:00", FormatSlot(23))

	s, e, err := ParseSlot("09:00–10:00")
	require.NoError(t, err)
	assert.Equal(t, 9, s)
	assert.Equal(t, 10, e)

	// hyphen separator and stray whitespace from older clients
	s, e, err = ParseSlot("  10:00-12:00 ")
	require.NoError(t, err)
	assert.Equal(t, 10, s)
	assert.Equal(t, 12, e)

	for _, bad := range []string{"", "10:00", "12:00–10:00", "10:00–10:00", "aa–bb"} {
		_, _, err := ParseSlot(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots(9, 12)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"09:00–10:00", "10:00–11:00", "11:00–12:00"}, slots)

	// hours [s,e) yield exactly e-s slots
	assert.Len(t, GenerateSlots(0, 24), 24)
	assert.Empty(t, GenerateSlots(12, 12))
	assert.Empty(t, GenerateSlots(14, 9))
}

func TestAvailableSlots(t *testing.T) {
	gen := GenerateSlots(9, 13)
	occ := []string{" 10:00–11:00 ", "12:00–13:00"}

	avail := AvailableSlots(gen, occ)
	assert.Equal(t, []string{"09:00–10:00", "11:00–12:00"}, avail)

	// available and occupied form a disjoint union of generated
	assert.Len(t, avail, len(gen)-len(occ))
	for _, s := range avail {
		assert.NotContains(t, []string{"10:00–11:00", "12:00–13:00"}, s)
	}

	assert.Equal(t, gen, AvailableSlots(gen, nil))
	assert.Empty(t, AvailableSlots(nil, occ))
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(10, 11, 10, 11))  // identical
	assert.True(t, Overlaps(9, 11, 10, 12))   // partial
	assert.True(t, Overlaps(9, 12, 10, 11))   // containment
	assert.False(t, Overlaps(9, 10, 10, 11))  // adjacent, half-open
	assert.False(t, Overlaps(11, 12, 9, 10))  // disjoint
}
