package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints.  Guests
// can list grounds, inspect a single ground with its fields, read
// reviews, and query slot availability and occupancy without a
// token.  Only the ground browse routes take the caching middleware;
// pass a pass-through middleware when caching is disabled.
func RegisterPublic(e *echo.Echo, g *handler.GroundHandler, r *handler.ReviewHandler, b *handler.BookingHandler, cache echo.MiddlewareFunc) {
	e.GET("/api/grounds", g.List, cache)
	e.GET("/api/grounds/:id", g.Get, cache)
	e.GET("/api/grounds/:id/reviews", r.List)

	// Availability and occupancy are recomputed from the store on
	// every request.  Caching them would let the two routes drift
	// apart between bookings, so they stay uncached.  fieldNumber is
	// required for available and optional for occupied.
	e.GET("/api/bookings/available", b.Available)
	e.GET("/api/bookings/occupied", b.Occupied)
}
