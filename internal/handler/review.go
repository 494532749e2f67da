package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/model"
	"github.com/iliyamo/ground-booking/internal/repository"
)

// ReviewHandler serves ground reviews.  Writing a review is gated on
// having at least one booking for the ground.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Bookings *repository.BookingRepo
	Grounds  *repository.GroundRepo
}

func NewReviewHandler(r *repository.ReviewRepo, b *repository.BookingRepo, g *repository.GroundRepo) *ReviewHandler {
	if r == nil || b == nil || g == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Bookings: b, Grounds: g}
}

type reviewReq struct {
	Rating  uint8   `json:"rating"`
	Comment *string `json:"comment"`
}

type reviewResp struct {
	ID        uint64  `json:"id"`
	GroundID  uint64  `json:"groundId"`
	Rating    uint8   `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
	Author    string  `json:"author,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// Create handles POST /api/grounds/:id/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	groundID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || groundID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Grounds.GetByID(ctx, groundID); err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	n, err := h.Bookings.CountByUserAndGround(ctx, uid, groundID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if n == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only review grounds you have booked"})
	}

	v := &model.Review{UserID: uid, GroundID: groundID, Rating: req.Rating, Comment: req.Comment}
	if err := h.Reviews.Create(ctx, v); err != nil {
		if err == repository.ErrReviewExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already reviewed this ground"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, reviewResp{
		ID: v.ID, GroundID: groundID, Rating: v.Rating, Comment: v.Comment,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/grounds/:id/reviews (public).
func (h *ReviewHandler) List(c echo.Context) error {
	groundID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || groundID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Grounds.GetByID(ctx, groundID); err != nil {
		if err == repository.ErrGroundNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	reviews, err := h.Reviews.ListByGround(ctx, groundID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]reviewResp, 0, len(reviews))
	for _, v := range reviews {
		items = append(items, reviewResp{
			ID: v.ID, GroundID: v.GroundID, Rating: v.Rating, Comment: v.Comment,
			Author:    v.AuthorName,
			CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /api/reviews/:id (author or admin).
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if v.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	v.Rating = req.Rating
	v.Comment = req.Comment
	if err := h.Reviews.Update(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	return c.JSON(http.StatusOK, reviewResp{
		ID: v.ID, GroundID: v.GroundID, Rating: v.Rating, Comment: v.Comment,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Delete handles DELETE /api/reviews/:id (author or admin).
func (h *ReviewHandler) Delete(c echo.Context) error {
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

	v, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if v.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
