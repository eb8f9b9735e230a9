package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
)

// AuthHandler serves the unauthenticated account endpoints: signup, the two
// login steps, logout and password recovery. Domain errors are returned to
// the HTTP error handler, which renders them.
type AuthHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
}

func NewAuthHandler(authService ports.AuthService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Signup creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		Telephone:         req.Telephone,
		SecurityQuestion1: req.SecurityQuestion1,
		SecurityAnswer1:   req.SecurityAnswer1,
		SecurityQuestion2: req.SecurityQuestion2,
		SecurityAnswer2:   req.SecurityAnswer2,
		Role:              req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User registered"})
}

// Login checks the password and emails a one-time code.
//
// @Summary      Login, step one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "2FA code sent"})
}

// VerifyCode redeems the emailed code and sets the session cookie.
//
// @Summary      Login, step two
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Email and one-time code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /verify-2fa [post]
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.VerifyCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	h.cookies.Set(c, sess)
	return c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// Logout clears the session cookie, whether or not it was still valid.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// ForgotPassword returns the two security questions of an account.
//
// @Summary      Start password recovery
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  securityQuestionsResponse
// @Failure      404   {object}  errorResponse
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, securityQuestionsResponse{Question1: q.Question1, Question2: q.Question2})
}

// ResetPassword sets a new password after both security answers match.
//
// @Summary      Finish password recovery
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Answers and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Answer1, req.Answer2, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful"})
}
