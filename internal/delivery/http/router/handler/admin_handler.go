package handler

import (
	"log/slog"
	"net/http"

	"passport/internal/delivery/http/response"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// adminUpdateRequest is the payload for administrative account updates.
// Omitted fields are left unchanged.
type adminUpdateRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

// AdminHandler holds dependencies for administrative handlers.
type AdminHandler struct {
	uc     usecase.AdminUsecase
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.AdminUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListAccounts handles the request to list every account.
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	actorID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	accounts, err := h.uc.ListAccounts(c.Request().Context(), actorID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, accounts, "Accounts retrieved successfully")
}

// UpdateAccount handles the request to update any account's name or role.
func (h *AdminHandler) UpdateAccount(c echo.Context) error {
	actorID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account update input")
	}

	account, err := h.uc.UpdateAccount(c.Request().Context(), &usecase.AdminUpdateAccountInput{
		ActorID:   actorID,
		AccountID: accountID,
		Name:      req.Name,
		Role:      req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Account updated successfully")
}

// DeleteAccount handles the request to delete an account.
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	actorID, ok := accountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), actorID, accountID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Account deleted successfully"}, "Account deleted successfully")
}
