package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/handler"
	"github.com/iliyamo/ground-booking/internal/middleware"
)

// RegisterBookings registers the booking endpoints.  All routes
// require a valid JWT; listing every booking in the system is
// restricted to admins.  The rate limiter is applied to the mutating
// endpoints so a misbehaving client cannot hammer the slot tables.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("/bookings", h.Create, limit)
	g.GET("/bookings/my", h.My)
	g.PUT("/bookings/:id", h.Update, limit)
	g.DELETE("/bookings/:id", h.Cancel)

	// Reviews require a booking on the ground, so they live with the
	// booking routes rather than the public browse surface.
	g.POST("/grounds/:id/reviews", r.Create, limit)
	g.PUT("/reviews/:id", r.Update)
	g.DELETE("/reviews/:id", r.Delete)

	admin := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.GET("/bookings/all", h.All)
}
