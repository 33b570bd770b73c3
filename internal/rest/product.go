package rest

import (
	"context"
	"net/http"
	"strconv"

	"segmentReco/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	ListProducts(ctx context.Context, skip, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID uint64) (domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

type ProductListQuery struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

// GET /api/v1/products?skip=0&limit=100
func (h *ProductHandler) List(c echo.Context) error {
	var q ProductListQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "skip and limit must be integers")
	}

	products, err := h.productService.ListProducts(c.Request().Context(), q.Skip, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	p, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(p))
}
