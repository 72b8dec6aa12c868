package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// UserRepository describes persistence operations with users and their
// shopping buckets.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Bucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error)
	AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error
	RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearBucket(ctx context.Context, userID uuid.UUID) error
	ListPushTokens(ctx context.Context) ([]string, error)
}
