package handlers

import (
	"github.com/labstack/echo/v4"

	"itrportal/internal/models"
)

// messageResponse is the generic acknowledgement payload
type messageResponse struct {
	Message string `json:"message"`
}

// currentUser returns the authenticated account set by RequireAuth
func currentUser(c echo.Context) *models.User {
	if user, ok := c.Get("user").(*models.User); ok {
		return user
	}
	return nil
}

// currentUserID returns the authenticated account id, 0 if absent
func currentUserID(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}
