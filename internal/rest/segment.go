package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"segmentReco/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SegmentHandler struct {
		validate       *validator.Validate
		segmentService SegmentService
		timeout        time.Duration
	}

	SegmentService interface {
		Recommend(ctx context.Context, userID uint, profile domain.RawProfile) (*domain.SegmentRecommendation, error)
		Predict(ctx context.Context, profile domain.RawProfile) (*domain.ClusterAssignment, error)
		CandidatesByCluster(ctx context.Context, cluster int) (*domain.ClusterCandidates, error)
	}

	// ProfileRequest carries the behavioral features under their dataset names.
	ProfileRequest struct {
		Recency        *float64 `json:"Recency" validate:"required,gte=0"`
		Frequency      *float64 `json:"Frequency" validate:"required,gte=0"`
		Monetary       *float64 `json:"Monetary" validate:"required,gte=0"`
		AvgItems       *float64 `json:"Avg_Items" validate:"required,gte=0"`
		UniqueProducts *float64 `json:"Unique_Products" validate:"required,gte=0"`
		WishlistCount  *float64 `json:"Wishlist_Count" validate:"required,gte=0"`
		AddToCartCount *float64 `json:"Add_to_Cart_Count" validate:"required,gte=0"`
		PageViews      *float64 `json:"Page_Views" validate:"required,gte=0"`
	}
)

func NewSegmentHandler(svc SegmentService) *SegmentHandler {
	return &SegmentHandler{
		validate:       validator.New(),
		segmentService: svc,
		timeout:        10 * time.Second,
	}
}

func (r ProfileRequest) toDomain() domain.RawProfile {
	return domain.RawProfile{
		Recency:        *r.Recency,
		Frequency:      *r.Frequency,
		Monetary:       *r.Monetary,
		AvgItems:       *r.AvgItems,
		UniqueProducts: *r.UniqueProducts,
		WishlistCount:  *r.WishlistCount,
		AddToCartCount: *r.AddToCartCount,
		PageViews:      *r.PageViews,
	}
}

// bindProfile returns a client-facing message when the body is unusable.
func (h *SegmentHandler) bindProfile(c echo.Context) (domain.RawProfile, string) {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return domain.RawProfile{}, "invalid request body"
	}
	if err := h.validate.Struct(&req); err != nil {
		return domain.RawProfile{}, err.Error()
	}
	return req.toDomain(), ""
}

// POST /api/v1/recommend/user
func (h *SegmentHandler) RecommendUser(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return unauthorized(c)
	}

	profile, msg := h.bindProfile(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.segmentService.Recommend(ctx, userID, profile)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/cluster/predict
func (h *SegmentHandler) PredictCluster(c echo.Context) error {
	profile, msg := h.bindProfile(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.segmentService.Predict(ctx, profile)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/recommend/by_cluster/:cid
func (h *SegmentHandler) ByCluster(c echo.Context) error {
	cid, err := strconv.Atoi(c.Param("cid"))
	if err != nil {
		return badRequest(c, "cluster id must be an integer")
	}

	res, err := h.segmentService.CandidatesByCluster(c.Request().Context(), cid)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}
