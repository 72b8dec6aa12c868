package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
)

// OrderState describes the delivery lifecycle of a purchase order.
type OrderState string

const (
	OrderStatePending    OrderState = "pending"
	OrderStateProcessing OrderState = "processing"
	OrderStateReceiving  OrderState = "receiving"
	OrderStateReceived   OrderState = "received"
	OrderStateRejected   OrderState = "rejected"
	OrderStateCancelled  OrderState = "cancelled"
)

// transitions lists every legal state change. States absent from the map
// (received, rejected, cancelled) are terminal.
var transitions = map[OrderState]map[OrderState]struct{}{
	OrderStatePending: {
		OrderStateRejected:   {},
		OrderStateProcessing: {},
		OrderStateCancelled:  {},
	},
	OrderStateProcessing: {
		OrderStateReceiving: {},
		OrderStateReceived:  {},
	},
	OrderStateReceiving: {
		OrderStateReceived: {},
	},
}

// CanTransitionTo reports whether changing state to next is legal.
// Self-transitions and transitions out of terminal states are not.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

// ToOrderState parses a state name supplied by a caller.
func ToOrderState(s string) (OrderState, error) {
	switch state := OrderState(strings.ToLower(strings.TrimSpace(s))); state {
	case OrderStatePending, OrderStateProcessing, OrderStateReceiving,
		OrderStateReceived, OrderStateRejected, OrderStateCancelled:
		return state, nil
	default:
		return "", domainErrors.ErrInvalidParameters
	}
}

// OrderItem is a line item snapshotted from the orderer's bucket at creation
// time. Name and UnitPrice are frozen copies, later product edits do not
// affect them.
type OrderItem struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int32
}

// Order describes a purchase order placed by a user.
type Order struct {
	ID            uuid.UUID
	OrdererID     uuid.UUID
	DateOrdered   time.Time
	DateToReceive time.Time
	DateReceived  *time.Time
	Items         []OrderItem
	PhoneNumber   string
	State         OrderState
	Additional    string
	PriceTotal    decimal.Decimal

	// Orderer holds the resolved user summary when the caller asked for it.
	Orderer *UserSummary
}

// OrderFields selects which optional order fields a retrieval should return.
// ID is always returned.
type OrderFields struct {
	DateOrdered   bool
	DateToReceive bool
	DateReceived  bool
	Orderer       bool
	Products      bool
	PhoneNumber   bool
	State         bool
	Additional    bool
	PriceTotal    bool
}

// ParseOrderFields builds a selector from a comma separated list of field
// names. Unrecognized names are ignored.
func ParseOrderFields(q string) OrderFields {
	var f OrderFields
	for _, name := range strings.Split(q, ",") {
		switch strings.TrimSpace(name) {
		case "date_ordered":
			f.DateOrdered = true
		case "date_to_receive":
			f.DateToReceive = true
		case "date_received":
			f.DateReceived = true
		case "orderer":
			f.Orderer = true
		case "products":
			f.Products = true
		case "phone_number":
			f.PhoneNumber = true
		case "state":
			f.State = true
		case "additional":
			f.Additional = true
		case "price_total":
			f.PriceTotal = true
		}
	}
	return f
}
