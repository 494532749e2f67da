package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/handler"
	"github.com/iliyamo/ground-booking/internal/middleware"
)

// RegisterAdmin registers ground management endpoints.  Only admins
// may create grounds; updates, deletion and field toggles are further
// restricted to the ground's owner inside the handlers.
func RegisterAdmin(e *echo.Echo, h *handler.GroundHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/grounds", h.Create)
	g.PUT("/grounds/:id", h.Update)
	g.DELETE("/grounds/:id", h.Delete)
	g.PUT("/grounds/:id/fields/:fieldNumber", h.SetFieldAvailability)
}
