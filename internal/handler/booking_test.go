package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ground-booking/internal/config"
	"github.com/iliyamo/ground-booking/internal/repository"
)

func newBookingEnv(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewBookingHandler(config.Config{},
		repository.NewGroundRepo(db),
		repository.NewBookingRepo(db),
		repository.NewUserRepo(db))
	return h, mock
}

func postBooking(h *BookingHandler, body string, uid uint64) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	_ = h.Create(c)
	return rec
}

func groundRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "ground_type", "description", "latitude", "longitude",
		"price_per_hour", "open_time", "close_time", "available_weekdays", "is_active",
		"created_at", "updated_at",
	}).AddRow(1, 9, "City Arena", "football", nil, 0.0, 0.0, 5000, "08:00", "22:00", "0,1,2,3,4,5,6", true, now, now)
}

func fieldRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "ground_id", "field_number", "is_available", "created_at", "updated_at"}).
		AddRow(1, 1, 1, true, now, now)
}

// A second create for an hour someone already holds must come back as
// a 400 with the conflicting slot and that booker's display name.
func TestCreateNamesConflictingUser(t *testing.T) {
	h, mock := newBookingEnv(t)
	now := time.Now()

	mock.ExpectQuery("FROM grounds WHERE id").WillReturnRows(groundRows())
	mock.ExpectQuery("FROM ground_fields").WillReturnRows(fieldRows())
	mock.ExpectQuery("FROM bookings WHERE ground_id").WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "reference", "user_id", "ground_id", "field_number", "booking_date",
			"total_price", "status", "created_at", "updated_at",
		}).AddRow(7, "11111111-2222-3333-4444-555555555555", 2, 1, 1, "2026-09-07", 5000, "CONFIRMED", now, now))
	mock.ExpectQuery("FROM booking_slots WHERE booking_id IN").WillReturnRows(
		sqlmock.NewRows([]string{"booking_id", "slot_label"}).AddRow(7, "10:00–11:00"))
	mock.ExpectQuery("FROM users WHERE id IN").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Dana Levy"))

	rec := postBooking(h, `{"ground":1,"fieldNumber":1,"date":"2026-09-07","timeSlot":["10:00–11:00"]}`, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already booked")
	assert.Contains(t, rec.Body.String(), `"slot":"10:00–11:00"`)
	assert.Contains(t, rec.Body.String(), `"user":"Dana Levy"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Both body keys name the same ground; reaching the 404 for an
// unknown ground proves the value was bound either way.
func TestCreateBindsGroundUnderEitherKey(t *testing.T) {
	for _, body := range []string{
		`{"ground":42,"fieldNumber":1,"date":"2026-09-07","timeSlot":["10:00–11:00"]}`,
		`{"groundId":42,"fieldNumber":1,"date":"2026-09-07","timeSlot":["10:00–11:00"]}`,
	} {
		h, mock := newBookingEnv(t)
		mock.ExpectQuery("FROM grounds WHERE id").WillReturnError(sql.ErrNoRows)

		rec := postBooking(h, body, 1)

		assert.Equal(t, http.StatusNotFound, rec.Code, "body: %s", body)
		assert.Contains(t, rec.Body.String(), "ground not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestCreateRejectsMissingGround(t *testing.T) {
	h, _ := newBookingEnv(t)
	rec := postBooking(h, `{"fieldNumber":1,"date":"2026-09-07","timeSlot":["10:00–11:00"]}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}
