package handler

import (
	"log/slog"
	"net/http"

	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/response"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// updateProfileRequest is the payload for self-service profile updates.
// Email and role are deliberately not accepted here.
type updateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// changePasswordRequest is the payload for changing one's own password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// AccountHandler holds dependencies for self-service account handlers.
type AccountHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// accountIDFromContext extracts the authenticated account ID set by the
// auth middleware.
func accountIDFromContext(c echo.Context) (uuid.UUID, bool) {
	accountID, ok := c.Get(middleware.ContextKeyAccountID).(uuid.UUID)

	return accountID, ok
}

// GetProfile handles the request to get the current account's profile.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	account, err := h.uc.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Profile retrieved successfully")
}

// UpdateProfile handles the request to update the current account's profile.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	account, err := h.uc.UpdateProfile(c.Request().Context(), &usecase.UpdateProfileInput{
		AccountID: accountID,
		Name:      req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Profile updated successfully")
}

// ChangePassword handles the request to change the current account's password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Current and new password are required")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		AccountID:       accountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed successfully"}, "Password changed successfully")
}
