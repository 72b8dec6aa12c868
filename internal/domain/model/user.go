package model

import (
	"time"

	"github.com/google/uuid"
)

// User describes a registered customer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	PhoneNumber  string
	DeviceID     string
	AcceptPush   bool
	PushAccepted *time.Time
	CreatedAt    time.Time
}

// UserSummary is the shape returned when an order's orderer reference is
// resolved.
type UserSummary struct {
	ID          uuid.UUID
	Email       string
	PhoneNumber string
}

// BucketItem is one entry of a user's shopping bucket. Product is resolved
// when the bucket is loaded for order creation or display.
type BucketItem struct {
	ProductID uuid.UUID
	Quantity  int32
	Product   *Product
}
