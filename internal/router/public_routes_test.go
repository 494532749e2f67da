package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ground-booking/internal/config"
	"github.com/iliyamo/ground-booking/internal/handler"
	"github.com/iliyamo/ground-booking/internal/repository"
)

// The cache middleware must front the ground browse routes only:
// availability and occupancy answers have to reflect every booking
// immediately, so those two routes bypass it.
func TestPublicRoutesCacheOnlyGroundBrowse(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	marker := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Cache-Layer", "on")
			return next(c)
		}
	}

	grounds := repository.NewGroundRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	reviews := repository.NewReviewRepo(db)

	e := echo.New()
	RegisterPublic(e,
		handler.NewGroundHandler(grounds),
		handler.NewReviewHandler(reviews, bookings, grounds),
		handler.NewBookingHandler(config.Config{}, grounds, bookings, users),
		marker)

	get := func(path string) http.Header {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Header()
	}

	assert.Equal(t, "on", get("/api/grounds").Get("X-Cache-Layer"))
	assert.Equal(t, "on", get("/api/grounds/1").Get("X-Cache-Layer"))
	assert.Empty(t, get("/api/bookings/available?groundId=1&date=bad").Get("X-Cache-Layer"))
	assert.Empty(t, get("/api/bookings/occupied?groundId=1&date=bad").Get("X-Cache-Layer"))
}
