package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdaysParsing(t *testing.T) {
	g := Ground{WeekdaysCSV: "1,2,3,4,5"}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, g.Weekdays())

	// Garbage tokens and out-of-range values are dropped.
	g.WeekdaysCSV = "0, 6, x, 9, 3,3"
	assert.Equal(t, []int{0, 3, 6}, g.Weekdays())

	g.WeekdaysCSV = ""
	assert.Empty(t, g.Weekdays())
}

func TestOpenOn(t *testing.T) {
	g := Ground{WeekdaysCSV: "1,2,3,4,5"} // weekdays only
	assert.True(t, g.OpenOn(time.Monday))
	assert.True(t, g.OpenOn(time.Friday))
	assert.False(t, g.OpenOn(time.Saturday))
	assert.False(t, g.OpenOn(time.Sunday))
}

func TestWeekdaysToCSV(t *testing.T) {
	assert.Equal(t, "1,2,5", WeekdaysToCSV([]int{5, 1, 2, 1}))
	assert.Equal(t, "", WeekdaysToCSV(nil))
	assert.Equal(t, "0,6", WeekdaysToCSV([]int{6, 0, 7, -1}))
}
