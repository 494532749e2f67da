package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/ground-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/ground-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and the
// profile endpoints of the current user.  Unauthenticated operations
// live under /api/auth, while protected endpoints live under /api.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, jwtSecret string) {
	// Group for operations that do not require an existing session
	// (register, login, refresh).  Each of these handlers is
	// responsible for generating or exchanging tokens.
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body (ends that
	// session) or a bearer token with no body (ends every session),
	// so it lives outside the JWT-protected group.
	g.POST("/logout", a.Logout)

	// Routes below require a valid access token with a known role.
	auth := e.Group("/api")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "ADMIN"))
	auth.GET("/me", a.Me)
	auth.PUT("/me", p.UpdateProfile)
	auth.PUT("/me/password", p.ChangePassword)
	// Saved payment cards of the current user.
	auth.POST("/me/cards", p.AddCard)
	auth.GET("/me/cards", p.ListCards)
	auth.DELETE("/me/cards/:id", p.DeleteCard)
}
