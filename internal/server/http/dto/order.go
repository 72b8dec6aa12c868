package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// CreateOrderRequest is the POST /order/register payload.
type CreateOrderRequest struct {
	Orderer       string     `json:"orderer" binding:"required"`
	DateToReceive *time.Time `json:"date_to_receive"`
	PhoneNumber   string     `json:"phone_number"`
	Additional    string     `json:"additional"`
}

// UpdateOrderRequest is the PUT /order/:orderId/update payload.
type UpdateOrderRequest struct {
	State string `json:"state" binding:"required"`
}

// OrderItemResponse is one snapshotted line item.
type OrderItemResponse struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
}

// OrdererResponse is the resolved orderer summary.
type OrdererResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// OrderResponse carries an order with only the selected fields set. ID is
// always present.
type OrderResponse struct {
	ID            string              `json:"id"`
	DateOrdered   *time.Time          `json:"date_ordered,omitempty"`
	DateToReceive *time.Time          `json:"date_to_receive,omitempty"`
	DateReceived  *time.Time          `json:"date_received,omitempty"`
	Orderer       *OrdererResponse    `json:"orderer,omitempty"`
	Products      []OrderItemResponse `json:"products,omitempty"`
	PhoneNumber   *string             `json:"phone_number,omitempty"`
	State         *string             `json:"state,omitempty"`
	Additional    *string             `json:"additional,omitempty"`
	PriceTotal    *decimal.Decimal    `json:"price_total,omitempty"`
}

// AllOrderFields selects every optional order field.
func AllOrderFields() model.OrderFields {
	return model.OrderFields{
		DateOrdered:   true,
		DateToReceive: true,
		DateReceived:  true,
		Orderer:       true,
		Products:      true,
		PhoneNumber:   true,
		State:         true,
		Additional:    true,
		PriceTotal:    true,
	}
}

// ToOrderResponse projects an order through a field selector.
func ToOrderResponse(order model.Order, fields model.OrderFields) OrderResponse {
	resp := OrderResponse{ID: order.ID.String()}

	if fields.DateOrdered {
		dateOrdered := order.DateOrdered
		resp.DateOrdered = &dateOrdered
	}
	if fields.DateToReceive {
		dateToReceive := order.DateToReceive
		resp.DateToReceive = &dateToReceive
	}
	if fields.DateReceived {
		resp.DateReceived = order.DateReceived
	}
	if fields.Orderer && order.Orderer != nil {
		resp.Orderer = &OrdererResponse{
			ID:          order.Orderer.ID.String(),
			Email:       order.Orderer.Email,
			PhoneNumber: order.Orderer.PhoneNumber,
		}
	}
	if fields.Products {
		resp.Products = make([]OrderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			resp.Products = append(resp.Products, OrderItemResponse{
				ProductID: item.ProductID.String(),
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}
	}
	if fields.PhoneNumber {
		phone := order.PhoneNumber
		resp.PhoneNumber = &phone
	}
	if fields.State {
		state := string(order.State)
		resp.State = &state
	}
	if fields.Additional {
		additional := order.Additional
		resp.Additional = &additional
	}
	if fields.PriceTotal {
		total := order.PriceTotal
		resp.PriceTotal = &total
	}

	return resp
}
