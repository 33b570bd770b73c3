package metrics

import (
	"errors"
	"strconv"
	"time"

	pkgmetrics "segmentReco/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Middleware observes latency and status for every routed request. Unknown
// routes are folded into one label to keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}

			method := c.Request().Method
			pkgmetrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			pkgmetrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

			return err
		}
	}
}
