package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ground-booking/internal/config"
	"github.com/iliyamo/ground-booking/internal/model"
	"github.com/iliyamo/ground-booking/internal/repository"
	"github.com/iliyamo/ground-booking/internal/utils"
)

// ProfileHandler serves profile updates, password changes and saved
// payment cards for the authenticated user.
type ProfileHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Cards  *repository.CardRepo
	Tokens *repository.TokenRepo
}

func NewProfileHandler(cfg config.Config, u *repository.UserRepo, cards *repository.CardRepo, tokens *repository.TokenRepo) *ProfileHandler {
	if u == nil || cards == nil || tokens == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Cfg: cfg, Users: u, Cards: cards, Tokens: tokens}
}

// UpdateProfile handles PUT /api/me and changes name/phone.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), uid, name, strings.TrimSpace(body.Phone)); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"name": name, "phone": strings.TrimSpace(body.Phone)})
}

// ChangePassword handles PUT /api/me/password.  The current password
// must verify before the new one is stored, and every refresh-token
// session is revoked afterwards so the change locks out whoever may
// hold an old token.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Current == "" || body.New == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password/new_password required"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Current) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, body.New, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke sessions failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type cardResp struct {
	ID          uint64 `json:"id"`
	Brand       string `json:"brand"`
	Last4       string `json:"last4"`
	Holder      string `json:"holder"`
	ExpiryMonth uint8  `json:"expiry_month"`
	ExpiryYear  uint16 `json:"expiry_year"`
}

// AddCard handles POST /api/me/cards.  Only the displayable part of
// the card is accepted; full numbers are trimmed down to last4 and
// never stored.
func (h *ProfileHandler) AddCard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Brand       string `json:"brand"`
		Number      string `json:"number"`
		Holder      string `json:"holder"`
		ExpiryMonth int    `json:"expiry_month"`
		ExpiryYear  int    `json:"expiry_year"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, body.Number)
	if len(digits) < 4 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card number is required"})
	}
	if body.ExpiryMonth < 1 || body.ExpiryMonth > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid expiry month"})
	}
	if body.ExpiryYear < time.Now().Year() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card is expired"})
	}
	card := &model.PaymentCard{
		UserID:      uid,
		Brand:       strings.ToUpper(strings.TrimSpace(body.Brand)),
		Last4:       digits[len(digits)-4:],
		Holder:      strings.TrimSpace(body.Holder),
		ExpiryMonth: uint8(body.ExpiryMonth),
		ExpiryYear:  uint16(body.ExpiryYear),
	}
	if err := h.Cards.Create(c.Request().Context(), card); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save card"})
	}
	return c.JSON(http.StatusCreated, cardResp{
		ID: card.ID, Brand: card.Brand, Last4: card.Last4, Holder: card.Holder,
		ExpiryMonth: card.ExpiryMonth, ExpiryYear: card.ExpiryYear,
	})
}

// ListCards handles GET /api/me/cards.
func (h *ProfileHandler) ListCards(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cards, err := h.Cards.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]cardResp, 0, len(cards))
	for _, card := range cards {
		items = append(items, cardResp{
			ID: card.ID, Brand: card.Brand, Last4: card.Last4, Holder: card.Holder,
			ExpiryMonth: card.ExpiryMonth, ExpiryYear: card.ExpiryYear,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteCard handles DELETE /api/me/cards/:id.
func (h *ProfileHandler) DeleteCard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Cards.DeleteByIDAndUser(c.Request().Context(), id, uid); err != nil {
		if err == repository.ErrCardNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
