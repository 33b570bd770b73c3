package router

import (
	"net/http"

	"segmentReco/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupHealthRoutes(e *echo.Echo, name, version string) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": name,
			"version": version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.Me, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.List)
	products.GET("/:id", handler.Get)
}

func SetupSegmentRoutes(api *echo.Group, handler *rest.SegmentHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommend")
	reco.POST("/user", handler.RecommendUser, authRequired)
	reco.GET("/by_cluster/:cid", handler.ByCluster)

	api.POST("/cluster/predict", handler.PredictCluster)
}

func SetupModelRoutes(api *echo.Group, handler *rest.ModelAdminHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	api.GET("/model/metrics", handler.Metrics)

	admin := api.Group("/admin/model", authRequired, adminOnly)
	admin.POST("/reload", handler.Reload)
}
