package handler

import (
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
	"github.com/iliyamo/ground-booking/internal/utils"
)

func newProfileEnv(t *testing.T) (*ProfileHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewProfileHandler(config.Config{BcryptCost: 4},
		repository.NewUserRepo(db),
		repository.NewCardRepo(db),
		repository.NewTokenRepo(db))
	return h, mock
}

func putPassword(h *ProfileHandler, body string, uid uint64) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/me/password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	_ = h.ChangePassword(c)
	return rec
}

func userRowsWithPassword(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(1, "Dana Levy", "dana@example.com", "", hash, "USER", true, now, now)
}

// Changing the password must also revoke every refresh-token session,
// so an old stolen token stops working with the old password.
func TestChangePasswordRevokesAllSessions(t *testing.T) {
	h, mock := newProfileEnv(t)

	mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRowsWithPassword(t, "old-pass"))
	mock.ExpectExec("UPDATE users SET password_hash").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").WillReturnResult(sqlmock.NewResult(0, 2))

	rec := putPassword(h, `{"current_password":"old-pass","new_password":"new-pass"}`, 1)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	h, mock := newProfileEnv(t)

	mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRowsWithPassword(t, "old-pass"))

	rec := putPassword(h, `{"current_password":"guess","new_password":"new-pass"}`, 1)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
