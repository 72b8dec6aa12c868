package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/server/http/dto"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

// ProductHandler manages catalog endpoints.
type ProductHandler struct {
	facade ProductFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade ProductFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// CreateCategory handles POST /category/register.
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(name)")
		return
	}

	category, err := h.facade.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(name)")
		case errors.Is(err, domainErrors.ErrConflict):
			respond(c, http.StatusConflict, ResultFail, "category already exists")
		default:
			respond(c, http.StatusInternalServerError, ResultError, "server fault")
		}
		return
	}

	respondWith(c, http.StatusCreated, "category", dto.CategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	})
}

// CreateProduct handles POST /product/register.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		return
	}

	// price may arrive as a JSON number or a quoted string
	price, err := decimal.NewFromString(strings.Trim(string(req.Price), `" `))
	if err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(price)")
		return
	}

	var categoryID *uuid.UUID
	if req.Category != "" {
		id, ok := parseID(c, req.Category, "category")
		if !ok {
			return
		}
		categoryID = &id
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Price:       price,
		CategoryID:  categoryID,
		Ingredients: req.Ingredients,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidParameters) {
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusCreated, "product", dto.ToProductResponse(*product))
}

// Get handles GET /product/:productId.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, c.Param("productId"), "productId")
	if !ok {
		return
	}

	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(product)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusOK, "product", dto.ToProductResponse(*product))
}
