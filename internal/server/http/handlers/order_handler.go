package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/server/http/dto"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /order/register.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		return
	}

	ordererID, ok := parseID(c, req.Orderer, "orderer")
	if !ok {
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		OrdererID:     ordererID,
		DateToReceive: req.DateToReceive,
		PhoneNumber:   req.PhoneNumber,
		Additional:    req.Additional,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(user)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusCreated, "order", dto.ToOrderResponse(*order, dto.AllOrderFields()))
}

// Get handles GET /order/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, c.Param("orderId"), "orderId")
	if !ok {
		return
	}

	q := c.Query("q")
	if q == "" {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter")
		return
	}
	fields := model.ParseOrderFields(q)

	order, err := h.facade.Order(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(order)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusOK, "order", dto.ToOrderResponse(*order, fields))
}

// ListByUser handles GET /user/:userId/orders.
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"), "userId")
	if !ok {
		return
	}

	q := c.Query("q")
	if q == "" {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter")
		return
	}
	fields := model.ParseOrderFields(q)

	orders, err := h.facade.OrdersByUser(c.Request.Context(), userID, fields)
	if err != nil {
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, dto.ToOrderResponse(order, fields))
	}
	respondWith(c, http.StatusOK, "orders", response)
}

// UpdateState handles PUT /order/:orderId/update.
func (h *OrderHandler) UpdateState(c *gin.Context) {
	id, ok := parseID(c, c.Param("orderId"), "orderId")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(state)")
		return
	}

	state, err := model.ToOrderState(req.State)
	if err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(state)")
		return
	}

	if err := h.facade.UpdateOrderState(c.Request.Context(), id, state); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			respond(c, http.StatusNotFound, ResultFail, "not found(order)")
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			respond(c, StatusInvalidParameters, ResultFail, "invalid state changing")
		default:
			respond(c, http.StatusInternalServerError, ResultError, "server fault")
		}
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}

// Delete handles DELETE /order/:orderId/delete.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, c.Param("orderId"), "orderId")
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(order)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}
