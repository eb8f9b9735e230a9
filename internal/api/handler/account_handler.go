package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/middleware"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
)

// AccountHandler serves the profile endpoints behind the session gate.
type AccountHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
}

func NewAccountHandler(authService ports.AuthService, cookies SessionCookies) *AccountHandler {
	return &AccountHandler{authService: authService, cookies: cookies}
}

// Update handles PUT /account/update.
//
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      updateAccountRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /account/update [put]
func (h *AccountHandler) Update(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.UpdateAccount(c.Request().Context(), userID, req.Name, req.Email, req.Telephone); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Account updated"})
}

// ChangePassword handles PUT /account/change-password. Every other session
// of the user is revoked; the caller receives a fresh cookie.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /account/change-password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}

	h.cookies.Set(c, sess)
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed"})
}
