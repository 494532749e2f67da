package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/model"
	"github.com/iliyamo/ground-booking/internal/repository"
	"github.com/iliyamo/ground-booking/internal/schedule"
)

// GroundHandler serves ground administration for owners plus the
// public browse endpoints.
type GroundHandler struct {
	Grounds *repository.GroundRepo
}

func NewGroundHandler(g *repository.GroundRepo) *GroundHandler {
	if g == nil {
		panic("nil repository passed to NewGroundHandler")
	}
	return &GroundHandler{Grounds: g}
}

// ----- DTOs -----

type groundReq struct {
	Name         string  `json:"name"`
	GroundType   string  `json:"groundType"`
	Description  *string `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PricePerHour uint32  `json:"pricePerHour"`
	OpenTime     string  `json:"openTime"`  // "HH:mm"
	CloseTime    string  `json:"closeTime"` // "HH:mm"
	Weekdays     []int   `json:"weekdays"`  // 0=Sunday … 6=Saturday
	FieldCount   int     `json:"fieldCount"`
}

type fieldResp struct {
	FieldNumber uint32 `json:"fieldNumber"`
	IsAvailable bool   `json:"isAvailable"`
}

type groundResp struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	GroundType   string      `json:"groundType"`
	Description  *string     `json:"description,omitempty"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	PricePerHour uint32      `json:"pricePerHour"`
	OpenTime     string      `json:"openTime"`
	CloseTime    string      `json:"closeTime"`
	Weekdays     []int       `json:"weekdays"`
	IsActive     bool        `json:"isActive"`
	Fields       []fieldResp `json:"fields,omitempty"`
}

func toGroundResp(g *model.Ground) groundResp {
	return groundResp{
		ID:           g.ID,
		Name:         g.Name,
		GroundType:   g.GroundType,
		Description:  g.Description,
		Latitude:     g.Latitude,
		Longitude:    g.Longitude,
		PricePerHour: g.PricePerHour,
		OpenTime:     g.OpenTime,
		CloseTime:    g.CloseTime,
		Weekdays:     g.Weekdays(),
		IsActive:     g.IsActive,
	}
}

// validateGround checks the writable ground attributes shared by
// create and update.
func validateGround(req *groundReq) string {
	req.Name = strings.TrimSpace(req.Name)
	req.GroundType = strings.ToLower(strings.TrimSpace(req.GroundType))
	if req.Name == "" || req.GroundType == "" {
		return "name/groundType required"
	}
	open, err := schedule.ParseClock(req.OpenTime)
	if err != nil {
		return "invalid openTime, expected HH:mm"
	}
	closeHour, err := schedule.ParseClock(req.CloseTime)
	if err != nil {
		return "invalid closeTime, expected HH:mm"
	}
	if closeHour <= open {
		return "closeTime must be after openTime"
	}
	if len(req.Weekdays) == 0 {
		return "weekdays required"
	}
	for _, d := range req.Weekdays {
		if d < 0 || d > 6 {
			return "weekdays must be 0-6"
		}
	}
	return ""
}

// Create handles POST /api/grounds (admin).  The caller becomes the
// ground's owner and fieldCount numbered fields are created with it.
func (h *GroundHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req groundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateGround(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.FieldCount < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fieldCount must be at least 1"})
	}

	g := &model.Ground{
		OwnerID:      uid,
		Name:         req.Name,
		GroundType:   req.GroundType,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PricePerHour: req.PricePerHour,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		WeekdaysCSV:  model.WeekdaysToCSV(req.Weekdays),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Grounds.Create(ctx, g, req.FieldCount); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ground name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ground failed"})
	}

	resp := toGroundResp(g)
	for n := 1; n <= req.FieldCount; n++ {
		resp.Fields = append(resp.Fields, fieldResp{FieldNumber: uint32(n), IsAvailable: true})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Update handles PUT /api/grounds/:id (admin, owner only).
func (h *GroundHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req groundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateGround(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	g := &model.Ground{
		ID:           id,
		OwnerID:      uid,
		Name:         req.Name,
		GroundType:   req.GroundType,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PricePerHour: req.PricePerHour,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		WeekdaysCSV:  model.WeekdaysToCSV(req.Weekdays),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Grounds.UpdateByIDAndOwner(ctx, g); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ground name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update ground failed"})
	}

	updated, err := h.Grounds.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toGroundResp(updated))
}

// Delete handles DELETE /api/grounds/:id (admin, owner only).  A
// ground with booking history is deactivated instead of removed.
func (h *GroundHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if g.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Grounds.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete ground failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetFieldAvailability handles PUT /api/grounds/:id/fields/:fieldNumber
// (admin, owner only) and toggles a single field on or off.
func (h *GroundHandler) SetFieldAvailability(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fieldNumber, err := strconv.ParseUint(c.Param("fieldNumber"), 10, 32)
	if err != nil || fieldNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fieldNumber"})
	}
	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&body); err != nil || body.Available == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if g.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Grounds.SetFieldAvailability(ctx, id, uint32(fieldNumber), *body.Available); err != nil {
		if err == repository.ErrFieldNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update field failed"})
	}
	return c.JSON(http.StatusOK, fieldResp{FieldNumber: uint32(fieldNumber), IsAvailable: *body.Available})
}

// List handles GET /api/grounds?type=&q= (public).  Only active
// grounds are listed.
func (h *GroundHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grounds, err := h.Grounds.List(ctx,
		strings.ToLower(strings.TrimSpace(c.QueryParam("type"))),
		strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]groundResp, 0, len(grounds))
	for _, g := range grounds {
		items = append(items, toGroundResp(g))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/grounds/:id (public) and includes the field
// list so clients can offer a field picker.
func (h *GroundHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	fields, err := h.Grounds.ListFields(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	resp := toGroundResp(g)
	for _, f := range fields {
		resp.Fields = append(resp.Fields, fieldResp{FieldNumber: f.FieldNumber, IsAvailable: f.IsAvailable})
	}
	return c.JSON(http.StatusOK, resp)
}
