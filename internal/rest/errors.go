package rest

import (
	"errors"
	"net/http"

	"segmentReco/domain"
	"segmentReco/pkg/logger"
	jsonres "segmentReco/pkg/response"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "internal server error"

// StatusFor maps a service error onto an HTTP status and an error code. The
// message is safe to show to clients; unknown errors never leak their text.
func StatusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "BAD_REQUEST", err.Error()
	case errors.Is(err, domain.ErrClusterNotFound):
		return http.StatusNotFound, "NOT_FOUND", "cluster not found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "NOT_FOUND", "product not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "NOT_FOUND", "user not found"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "CONFLICT", "email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password"
	case errors.Is(err, domain.ErrModelNotReady):
		return http.StatusServiceUnavailable, "MODEL_NOT_READY", "model is not ready, try again later"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusBadGateway, "CATALOG_UNAVAILABLE", "product catalog is unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", internalErrorMessage
	}
}

// respondError writes the error envelope for err and logs anything that is a
// server-side failure.
func respondError(c echo.Context, err error) error {
	status, code, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", status,
			"trace_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	return c.JSON(status, jsonres.Error(code, msg, nil))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", msg, nil))
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
}
