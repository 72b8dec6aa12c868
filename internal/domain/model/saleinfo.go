package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeSale is the optional flash discount window inside a day's sale info.
// ExpiresAt is persisted so an expiry missed in memory can still be closed
// by the reconciliation sweep after a restart.
type TimeSale struct {
	Started     bool
	Ratio       decimal.Decimal
	DateStarted *time.Time
	ExpiresAt   *time.Time
	Prods       []uuid.UUID
}

// SaleInfo is the per-day promotional record. At most one exists per UTC
// calendar day.
type SaleInfo struct {
	ID         uuid.UUID
	DateSale   time.Time
	ProdsToday []uuid.UUID
	TimeSale   TimeSale

	// Resolved product references, filled only when populate was requested.
	Products         []Product
	TimeSaleProducts []Product
}

// DayBounds returns the half-open UTC day interval [from, to) containing
// pivot.
func DayBounds(pivot time.Time) (from, to time.Time) {
	p := pivot.UTC()
	from = time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, time.UTC)
	to = from.Add(24 * time.Hour)
	return from, to
}

// DayKey returns the UTC calendar date of pivot, used as the uniqueness key
// for sale info records.
func DayKey(pivot time.Time) time.Time {
	from, _ := DayBounds(pivot)
	return from
}

// NextUTCMidnight returns the instant a time sale started at now must end.
func NextUTCMidnight(now time.Time) time.Time {
	_, to := DayBounds(now)
	return to
}
