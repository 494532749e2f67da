package notifier

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ground-booking/internal/queue"
)

func TestRenderBookingCreated(t *testing.T) {
	subject, html, err := Render(queue.Event{
		Type:        queue.TypeBookingCreated,
		UserName:    "Sara",
		UserEmail:   "sara@example.com",
		BookingRef:  "ref-123",
		GroundName:  "City Arena",
		FieldNumber: 2,
		Date:        "2025-06-02",
		Slots:       []string{"10:00–11:00", "11:00–12:00"},
		TotalPrice:  10000,
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "Booking confirmed")
	assert.Contains(t, subject, "City Arena")
	assert.Contains(t, html, "Sara")
	assert.Contains(t, html, "ref-123")
	assert.Contains(t, html, "10:00–11:00, 11:00–12:00")
	assert.Contains(t, html, "field 2")
}

func TestRenderWelcome(t *testing.T) {
	subject, html, err := Render(queue.Event{
		Type:     queue.TypeUserRegistered,
		UserName: "Omid",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Ground Booking", subject)
	assert.Contains(t, html, "Omid")
}

func TestRenderUnknownType(t *testing.T) {
	_, _, err := Render(queue.Event{Type: "bogus"})
	assert.Error(t, err)
}

func TestHandleWithoutClientDropsQuietly(t *testing.T) {
	n := New("", "noreply@example.com", "Ground Booking", zerolog.New(os.Stdout))
	err := n.Handle(queue.Event{
		Type:      queue.TypeBookingCancelled,
		UserName:  "Sara",
		UserEmail: "sara@example.com",
	})
	assert.NoError(t, err)
}

func TestHandleRejectsMissingRecipient(t *testing.T) {
	n := New("", "noreply@example.com", "Ground Booking", zerolog.New(os.Stdout))
	err := n.Handle(queue.Event{Type: queue.TypeBookingCreated})
	assert.Error(t, err)
}
