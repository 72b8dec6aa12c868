package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/server/http/dto"
)

// SaleInfoHandler manages per-day sale promotion endpoints.
type SaleInfoHandler struct {
	facade SaleFacade
	now    func() time.Time
}

// NewSaleInfoHandler constructs SaleInfoHandler.
func NewSaleInfoHandler(facade SaleFacade) *SaleInfoHandler {
	return &SaleInfoHandler{facade: facade, now: time.Now}
}

// Create handles POST /saleinfo/register.
func (h *SaleInfoHandler) Create(c *gin.Context) {
	var req dto.CreateSaleInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(prods)")
		return
	}

	prods, ok := parseIDs(c, req.Prods, "prods")
	if !ok {
		return
	}

	si, err := h.facade.CreateSaleInfo(c.Request.Context(), prods)
	if err != nil {
		if errors.Is(err, domainErrors.ErrConflict) {
			respond(c, http.StatusConflict, ResultFail, "today's sale info is already registered")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusCreated, "saleInfo", dto.ToSaleInfoResponse(*si))
}

// Get handles GET /saleinfo/:saleInfoId.
func (h *SaleInfoHandler) Get(c *gin.Context) {
	id, ok := parseID(c, c.Param("saleInfoId"), "saleInfoId")
	if !ok {
		return
	}
	populate := c.Query("populate") == "true"

	si, err := h.facade.SaleInfo(c.Request.Context(), id, populate)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(saleInfo)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusOK, "saleInfo", dto.ToSaleInfoResponse(*si))
}

// GetByDate handles GET /saleinfo/by-date. Defaults to today when no date
// is supplied.
func (h *SaleInfoHandler) GetByDate(c *gin.Context) {
	populate := c.Query("populate") == "true"

	pivot := h.now()
	if strDate := c.Query("date"); strDate != "" {
		parsed, err := parseDate(strDate)
		if err != nil {
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(date)")
			return
		}
		pivot = parsed
	}

	si, err := h.facade.SaleInfoByDate(c.Request.Context(), pivot, populate)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(saleInfo)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusOK, "saleInfo", dto.ToSaleInfoResponse(*si))
}

// Update handles PUT /saleinfo/:saleInfoId/update.
func (h *SaleInfoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, c.Param("saleInfoId"), "saleInfoId")
	if !ok {
		return
	}

	var req dto.UpdateSaleInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prods == nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(prods)")
		return
	}

	prods, ok := parseIDs(c, req.Prods, "prods")
	if !ok {
		return
	}

	if err := h.facade.UpdateSaleInfo(c.Request.Context(), id, prods); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(saleInfo)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}

// Delete handles DELETE /saleinfo/:saleInfoId/delete.
func (h *SaleInfoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, c.Param("saleInfoId"), "saleInfoId")
	if !ok {
		return
	}

	if err := h.facade.DeleteSaleInfo(c.Request.Context(), id); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(saleInfo)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}

// BeginTimeSale handles POST /saleinfo/timesale/begin.
func (h *SaleInfoHandler) BeginTimeSale(c *gin.Context) {
	var req dto.BeginTimeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		return
	}

	if req.Prods == nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(prods)")
		return
	}
	prods, ok := parseIDs(c, req.Prods, "prods")
	if !ok {
		return
	}

	// ratio may arrive as a JSON number or a quoted string
	ratio := strings.Trim(string(req.Ratio), `" `)

	err := h.facade.BeginTimeSale(c.Request.Context(), ratio, prods)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(ratio)")
		case errors.Is(err, domainErrors.ErrNotFound):
			respond(c, http.StatusNotFound, ResultFail, "not found")
		default:
			respond(c, http.StatusInternalServerError, ResultError, "server fault")
		}
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
