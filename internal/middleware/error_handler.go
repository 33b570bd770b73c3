package middleware

import (
	"errors"
	"net/http"

	"segmentReco/internal/rest"
	"segmentReco/pkg/logger"
	jsonres "segmentReco/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error that escapes a handler in the same
// envelope the handlers use. Echo errors (404 routes, bad methods, binder
// failures) keep their status.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		_ = c.JSON(he.Code, jsonres.Error(codeFor(he.Code), msg, nil))
		return
	}

	status, code, msg := rest.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("unhandled error",
			"method", c.Request().Method,
			"path", c.Path(),
			"trace_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	_ = c.JSON(status, jsonres.Error(code, msg, nil))
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
