package dto

import (
	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// RegisterUserRequest is the POST /user/register payload.
type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	DeviceID    string `json:"device_id"`
	AcceptPush  bool   `json:"accept_push"`
}

// AddBucketItemRequest is the POST /user/:userId/bucket/add payload.
type AddBucketItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int32  `json:"quantity" binding:"required"`
}

// UserResponse carries a registered user. The password hash never leaves
// the service.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	AcceptPush  bool   `json:"accept_push"`
}

// ToUserResponse converts the domain user.
func ToUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		AcceptPush:  u.AcceptPush,
	}
}

// BucketItemResponse is one bucket entry with its product resolved.
type BucketItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int32           `json:"quantity"`
}

// ToBucketResponse converts bucket entries.
func ToBucketResponse(items []model.BucketItem) []BucketItemResponse {
	resp := make([]BucketItemResponse, 0, len(items))
	for _, item := range items {
		var product ProductResponse
		if item.Product != nil {
			product = ToProductResponse(*item.Product)
		}
		resp = append(resp, BucketItemResponse{Product: product, Quantity: item.Quantity})
	}
	return resp
}
