package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"itrportal/internal/apperr"
	"itrportal/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register creates a new client account and triggers OTP verification
func (h *AuthHandler) Register(c echo.Context) error {
	var in services.RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	if _, err := h.svc.Register(c.Request().Context(), in); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "User registered successfully. Please verify your phone number.",
	})
}

// CreateStaff provisions an admin account. Routed under the admin
// group and restricted to superadmins.
func (h *AuthHandler) CreateStaff(c echo.Context) error {
	var in services.StaffInput
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	user, err := h.svc.RegisterStaff(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Staff account created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	result, err := h.svc.LoginWithPassword(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// RequestOTP sends a login OTP to a registered phone number
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var in phoneRequest
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	if err := h.svc.RequestOTP(c.Request().Context(), in.PhoneNumber); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "OTP sent successfully"})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// VerifyOTP checks the submitted code and returns a session token
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var in verifyOTPRequest
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	result, err := h.svc.VerifyOTP(c.Request().Context(), in.PhoneNumber, in.OTP)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
