package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"itrportal/internal/auth"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

// RequireAuth returns a middleware that verifies the Bearer token and
// loads the account it belongs to into the request context
func RequireAuth(jwtSecret []byte, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to access this resource")
			}
			token := strings.TrimPrefix(header, "Bearer ")

			userIDStr, err := auth.GetUserIDFromToken(token, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token. Please log in again")
			}

			userID, err := strconv.ParseUint(userIDStr, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token. Please log in again")
			}

			// The token may outlive the account; check it still exists
			user, err := users.FindByID(c.Request().Context(), uint(userID))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "The user belonging to this token no longer exists")
			}
			if user.Status == models.StatusBlocked {
				return echo.NewHTTPError(http.StatusForbidden, "This account has been blocked")
			}

			c.Set("user", user)
			c.Set("userID", user.ID)

			return next(c)
		}
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to access this resource")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action")
		}
	}
}
