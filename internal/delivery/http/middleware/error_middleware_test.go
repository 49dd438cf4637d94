package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "passport/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func handleTestError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	mw.HandleHTTPError(err, c)

	return rec
}

func TestErrorMiddleware_ValidationErrorCarriesAllViolations(t *testing.T) {
	err := domainerrors.NewValidationError(
		"Name is required",
		"Password must be at least 8 characters long",
	)

	rec := handleTestError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "VALIDATION_FAILED")
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, "Password must be at least 8 characters long")
}

func TestErrorMiddleware_AppErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "invalid credentials",
			err:      domainerrors.ErrInvalidCredentials,
			wantCode: http.StatusUnauthorized,
			wantBody: "invalid email or password",
		},
		{
			name:     "duplicate email",
			err:      domainerrors.ErrEmailAlreadyRegistered,
			wantCode: http.StatusConflict,
			wantBody: "EMAIL_ALREADY_REGISTERED",
		},
		{
			name:     "account not found",
			err:      domainerrors.ErrAccountNotFound,
			wantCode: http.StatusNotFound,
			wantBody: "ACCOUNT_NOT_FOUND",
		},
		{
			name:     "admin required",
			err:      domainerrors.ErrAdminRequired,
			wantCode: http.StatusForbidden,
			wantBody: "admin access required",
		},
		{
			name:     "wrapped app error keeps its mapping",
			err:      domainerrors.ErrSessionLimitExceeded.WrapMessage("login failed"),
			wantCode: http.StatusTooManyRequests,
			wantBody: "SESSION_LIMIT_EXCEEDED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := handleTestError(t, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestErrorMiddleware_UnknownErrorStaysGeneric(t *testing.T) {
	rec := handleTestError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "internal server error")
	// The underlying cause must never leak into the response.
	assert.NotContains(t, body, "connection refused")
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec := handleTestError(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}
