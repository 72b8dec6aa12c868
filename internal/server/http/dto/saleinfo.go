package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// CreateSaleInfoRequest is the POST /saleinfo/register payload.
type CreateSaleInfoRequest struct {
	Prods []string `json:"prods"`
}

// UpdateSaleInfoRequest is the PUT /saleinfo/:saleInfoId/update payload.
// Prods replaces the day's product list wholesale.
type UpdateSaleInfoRequest struct {
	Prods []string `json:"prods"`
}

// BeginTimeSaleRequest is the POST /saleinfo/timesale/begin payload. Ratio
// is kept raw so both numeric and string encodings are accepted.
type BeginTimeSaleRequest struct {
	Ratio json.RawMessage `json:"ratio"`
	Prods []string        `json:"prods"`
}

// TimeSaleResponse is the discount window sub-record.
type TimeSaleResponse struct {
	Started     bool              `json:"started"`
	Ratio       decimal.Decimal   `json:"ratio"`
	DateStarted *time.Time        `json:"date_started,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	Prods       []string          `json:"prods"`
	Products    []ProductResponse `json:"products,omitempty"`
}

// SaleInfoResponse carries a sale info record.
type SaleInfoResponse struct {
	ID         string            `json:"id"`
	DateSale   time.Time         `json:"date_sale"`
	ProdsToday []string          `json:"prods_today"`
	Products   []ProductResponse `json:"products,omitempty"`
	TimeSale   TimeSaleResponse  `json:"timesale"`
}

// ToSaleInfoResponse converts the domain record, including resolved products
// when they were populated.
func ToSaleInfoResponse(si model.SaleInfo) SaleInfoResponse {
	prods := make([]string, 0, len(si.ProdsToday))
	for _, id := range si.ProdsToday {
		prods = append(prods, id.String())
	}
	tsProds := make([]string, 0, len(si.TimeSale.Prods))
	for _, id := range si.TimeSale.Prods {
		tsProds = append(tsProds, id.String())
	}

	resp := SaleInfoResponse{
		ID:         si.ID.String(),
		DateSale:   si.DateSale,
		ProdsToday: prods,
		TimeSale: TimeSaleResponse{
			Started:     si.TimeSale.Started,
			Ratio:       si.TimeSale.Ratio,
			DateStarted: si.TimeSale.DateStarted,
			ExpiresAt:   si.TimeSale.ExpiresAt,
			Prods:       tsProds,
		},
	}

	for _, p := range si.Products {
		resp.Products = append(resp.Products, ToProductResponse(p))
	}
	for _, p := range si.TimeSaleProducts {
		resp.TimeSale.Products = append(resp.TimeSale.Products, ToProductResponse(p))
	}
	return resp
}
