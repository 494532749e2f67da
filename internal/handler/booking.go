package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/config"
	"github.com/iliyamo/ground-booking/internal/model"
	"github.com/iliyamo/ground-booking/internal/queue"
	"github.com/iliyamo/ground-booking/internal/repository"
	"github.com/iliyamo/ground-booking/internal/schedule"
	queue_publisher "github.com/iliyamo/ground-booking/internal/service"
)

// BookingHandler serves booking creation, updates, cancellation and
// the availability/occupancy lookups.
type BookingHandler struct {
	Cfg      config.Config
	Grounds  *repository.GroundRepo
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(cfg config.Config, g *repository.GroundRepo, b *repository.BookingRepo, u *repository.UserRepo) *BookingHandler {
	if g == nil || b == nil || u == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Cfg: cfg, Grounds: g, Bookings: b, Users: u}
}

// ----- DTOs -----

type bookingReq struct {
	Ground      uint64   `json:"ground"`
	GroundID    uint64   `json:"groundId"` // alias for "ground", kept for older clients
	FieldNumber uint32   `json:"fieldNumber"`
	Date        string   `json:"date"`     // YYYY-MM-DD
	TimeSlot    []string `json:"timeSlot"` // labels like "10:00–11:00"
}

// groundID returns the requested ground regardless of which body key
// carried it.
func (r *bookingReq) groundID() uint64 {
	if r.Ground != 0 {
		return r.Ground
	}
	return r.GroundID
}

type bookingResp struct {
	ID          uint64   `json:"id"`
	Reference   string   `json:"reference"`
	GroundID    uint64   `json:"groundId"`
	FieldNumber uint32   `json:"fieldNumber"`
	Date        string   `json:"date"`
	TimeSlot    []string `json:"timeSlot"`
	TotalPrice  uint32   `json:"totalPrice"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:          b.ID,
		Reference:   b.Reference,
		GroundID:    b.GroundID,
		FieldNumber: b.FieldNumber,
		Date:        b.Date,
		TimeSlot:    b.Slots,
		TotalPrice:  b.TotalPrice,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// validateSlots checks a requested slot list against a ground's
// operating hours and returns the canonical labels.  Every label must
// parse, span exactly one hour and fall inside [open, close).
func validateSlots(g *model.Ground, requested []string) ([]string, string) {
	if len(requested) == 0 {
		return nil, "timeSlot is required"
	}
	openHour, err := schedule.ParseClock(g.OpenTime)
	if err != nil {
		return nil, "ground has invalid operating hours"
	}
	closeHour, err := schedule.ParseClock(g.CloseTime)
	if err != nil {
		return nil, "ground has invalid operating hours"
	}
	seen := map[int]bool{}
	out := make([]string, 0, len(requested))
	for _, label := range requested {
		start, end, err := schedule.ParseSlot(label)
		if err != nil {
			return nil, "invalid time slot: " + label
		}
		if end != start+1 {
			return nil, "time slot must cover exactly one hour: " + label
		}
		if start < openHour || end > closeHour {
			return nil, "time slot outside operating hours: " + label
		}
		if seen[start] {
			return nil, "duplicate time slot: " + label
		}
		seen[start] = true
		out = append(out, schedule.FormatSlot(start))
	}
	return out, ""
}

func (h *BookingHandler) publishBooking(eventType string, userID uint64, g *model.Ground, b *model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		u, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			return
		}
		_ = queue_publisher.Publish(ctx, h.Cfg.AMQPURL, queue.Event{
			Type:        eventType,
			UserID:      u.ID,
			UserName:    u.Name,
			UserEmail:   u.Email,
			BookingRef:  b.Reference,
			GroundID:    g.ID,
			GroundName:  g.Name,
			FieldNumber: b.FieldNumber,
			Date:        b.Date,
			Slots:       b.Slots,
			TotalPrice:  b.TotalPrice,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// conflictReport turns detected conflicts into the response payload,
// resolving the conflicting users' display names.
func (h *BookingHandler) conflictReport(ctx context.Context, conflicts []schedule.Conflict) []schedule.Conflict {
	ids := make([]uint64, 0, len(conflicts))
	for _, cf := range conflicts {
		ids = append(ids, cf.UserID)
	}
	names, err := h.Users.DisplayNames(ctx, ids)
	if err == nil {
		for i := range conflicts {
			conflicts[i].UserName = names[conflicts[i].UserID]
		}
	}
	return conflicts
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	gid := req.groundID()
	if gid == 0 || req.FieldNumber == 0 || req.Date == "" || len(req.TimeSlot) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ground/fieldNumber/date/timeSlot required"})
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.GetByID(ctx, gid)
	if err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !g.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ground is not active"})
	}
	field, err := h.Grounds.GetField(ctx, g.ID, req.FieldNumber)
	if err != nil {
		if err == repository.ErrFieldNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "field not found on this ground"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !field.IsAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field is not available"})
	}
	if !g.OpenOn(day.Weekday()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ground is closed on " + day.Weekday().String()})
	}
	slots, msg := validateSlots(g, req.TimeSlot)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	existing, err := h.Bookings.ListForKey(ctx, g.ID, req.FieldNumber, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if conflicts := schedule.FindConflicts(slots, existing, 0); len(conflicts) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "time slot already booked",
			"conflicts": h.conflictReport(ctx, conflicts),
		})
	}

	b := &model.Booking{
		Reference:   uuid.NewString(),
		UserID:      uid,
		GroundID:    g.ID,
		FieldNumber: req.FieldNumber,
		Date:        req.Date,
		Slots:       slots,
		TotalPrice:  schedule.TotalPrice(g.PricePerHour, len(slots)),
		Status:      model.BookingConfirmed,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		// Unique slot constraint closed a race with a concurrent
		// request; report it the same way as a detected conflict.
		if err == repository.ErrSlotTaken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time slot already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	h.publishBooking(queue.TypeBookingCreated, uid, g, b)

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Update handles PUT /api/bookings/:id.  Only the booking's owner or
// an admin may change it, and only bookings that are still confirmed
// and not in the past.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status == model.BookingCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is cancelled"})
	}

	// Missing fields keep the current value.
	if req.Date == "" {
		req.Date = b.Date
	}
	if req.FieldNumber == 0 {
		req.FieldNumber = b.FieldNumber
	}
	if len(req.TimeSlot) == 0 {
		req.TimeSlot = b.Slots
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if day.Before(today()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot move a booking to a past date"})
	}

	g, err := h.Grounds.GetByID(ctx, b.GroundID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	field, err := h.Grounds.GetField(ctx, g.ID, req.FieldNumber)
	if err != nil {
		if err == repository.ErrFieldNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "field not found on this ground"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !field.IsAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field is not available"})
	}
	if !g.OpenOn(day.Weekday()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ground is closed on " + day.Weekday().String()})
	}
	slots, msg := validateSlots(g, req.TimeSlot)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	existing, err := h.Bookings.ListForKey(ctx, g.ID, req.FieldNumber, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if conflicts := schedule.FindConflicts(slots, existing, b.ID); len(conflicts) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "time slot already booked",
			"conflicts": h.conflictReport(ctx, conflicts),
		})
	}

	b.FieldNumber = req.FieldNumber
	b.Date = req.Date
	b.Slots = slots
	b.TotalPrice = schedule.TotalPrice(g.PricePerHour, len(slots))
	if err := h.Bookings.Update(ctx, b); err != nil {
		if err == repository.ErrSlotTaken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time slot already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}

	h.publishBooking(queue.TypeBookingUpdated, b.UserID, g, b)

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel handles DELETE /api/bookings/:id.  The row stays for history
// but its slots are freed immediately.
func (h *BookingHandler) Cancel(c echo.Context) error {
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

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status == model.BookingCancelled {
		return c.NoContent(http.StatusNoContent) // already cancelled
	}
	if err := h.Bookings.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	b.Status = model.BookingCancelled

	if g, gerr := h.Grounds.GetByID(ctx, b.GroundID); gerr == nil {
		h.publishBooking(queue.TypeBookingCancelled, b.UserID, g, b)
	}

	return c.NoContent(http.StatusNoContent)
}

// Available handles GET /api/bookings/available?groundId=&date=&fieldNumber=.
// It returns the free slot labels for one field on one date.  A
// closed weekday or an unavailable field yields an empty list rather
// than an error so clients can render calendars uniformly.
func (h *BookingHandler) Available(c echo.Context) error {
	groundID, err := strconv.ParseUint(c.QueryParam("groundId"), 10, 64)
	if err != nil || groundID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "groundId is required"})
	}
	fieldNumber, err := strconv.ParseUint(c.QueryParam("fieldNumber"), 10, 32)
	if err != nil || fieldNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fieldNumber is required"})
	}
	dateStr := c.QueryParam("date")
	day, err := parseDate(dateStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.GetByID(ctx, groundID)
	if err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	empty := echo.Map{"availableSlots": []string{}}
	if !g.IsActive || !g.OpenOn(day.Weekday()) {
		return c.JSON(http.StatusOK, empty)
	}
	field, err := h.Grounds.GetField(ctx, g.ID, uint32(fieldNumber))
	if err != nil {
		if err == repository.ErrFieldNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "field not found on this ground"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !field.IsAvailable {
		return c.JSON(http.StatusOK, empty)
	}

	openHour, err := schedule.ParseClock(g.OpenTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ground has invalid operating hours"})
	}
	closeHour, err := schedule.ParseClock(g.CloseTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ground has invalid operating hours"})
	}

	occupied, err := h.Bookings.Occupied(ctx, g.ID, dateStr, uint32(fieldNumber))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	taken := make([]string, 0, len(occupied))
	for _, s := range occupied {
		taken = append(taken, s.Slot)
	}

	free := schedule.AvailableSlots(schedule.GenerateSlots(openHour, closeHour), taken)
	return c.JSON(http.StatusOK, echo.Map{"availableSlots": free})
}

// Occupied handles GET /api/bookings/occupied?groundId=&date=&fieldNumber=.
// fieldNumber is optional; when omitted, taken slots across every
// field of the ground are returned.
func (h *BookingHandler) Occupied(c echo.Context) error {
	groundID, err := strconv.ParseUint(c.QueryParam("groundId"), 10, 64)
	if err != nil || groundID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "groundId is required"})
	}
	dateStr := c.QueryParam("date")
	if _, err := parseDate(dateStr); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	var fieldNumber uint64
	if raw := c.QueryParam("fieldNumber"); raw != "" {
		fieldNumber, err = strconv.ParseUint(raw, 10, 32)
		if err != nil || fieldNumber == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fieldNumber"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Grounds.GetByID(ctx, groundID); err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	occupied, err := h.Bookings.Occupied(ctx, groundID, dateStr, uint32(fieldNumber))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if occupied == nil {
		occupied = []repository.OccupiedSlot{}
	}
	return c.JSON(http.StatusOK, echo.Map{"occupiedSlots": occupied})
}

// My handles GET /api/bookings and lists the caller's bookings.
func (h *BookingHandler) My(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bookings, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// All handles GET /api/bookings/all (admin only; enforced in the router).
func (h *BookingHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
