package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"itrportal/internal/apperr"
)

// errorResponse is the shape of every error payload: a stable
// machine-readable kind plus a human message, nothing internal
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSONErrorHandler maps application errors to HTTP status codes.
// Registered as echo's HTTPErrorHandler.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := errorResponse{
		Error:   "internal_error",
		Message: "Something went wrong. Please try again later.",
	}

	var appErr *apperr.Error
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		code = statusForKind(appErr.Kind)
		resp.Error = string(appErr.Kind)
		resp.Message = appErr.Message
	case errors.As(err, &httpErr):
		code = httpErr.Code
		resp.Error = http.StatusText(code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(code)
		}
	default:
		c.Logger().Error(err)
	}

	if err := c.JSON(code, resp); err != nil {
		c.Logger().Error(err)
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
