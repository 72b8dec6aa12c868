package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products for browsing.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Product describes a sellable item.
type Product struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	Ingredients []string
	Image       string
	CreatedAt   time.Time
}
