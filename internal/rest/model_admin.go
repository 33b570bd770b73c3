package rest

import (
	"context"
	"net/http"

	"segmentReco/domain"
	"segmentReco/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ModelService interface {
	ModelSummary(ctx context.Context) (*domain.ModelSummary, error)
	ReloadModel(ctx context.Context) (*domain.ModelSummary, error)
}

type ModelAdminHandler struct {
	modelService ModelService
}

func NewModelAdminHandler(svc ModelService) *ModelAdminHandler {
	return &ModelAdminHandler{modelService: svc}
}

// GET /api/v1/model/metrics
func (h *ModelAdminHandler) Metrics(c echo.Context) error {
	sum, err := h.modelService.ModelSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(sum))
}

// POST /api/v1/admin/model/reload
func (h *ModelAdminHandler) Reload(c echo.Context) error {
	sum, err := h.modelService.ReloadModel(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	logger.Info("model reloaded by admin", "user_id", c.Get("user_id"), "loaded_at", sum.LoadedAt)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(sum))
}
