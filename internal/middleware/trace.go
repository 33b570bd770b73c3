package middleware

import (
	"segmentReco/business/segment"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Trace gives every request a trace id. An incoming X-Request-ID is reused,
// otherwise a fresh one is generated. The id is echoed back in the response
// header and stored on the request context for the service layer.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(segment.WithTraceID(req.Context(), id)))

			return next(c)
		}
	}
}
