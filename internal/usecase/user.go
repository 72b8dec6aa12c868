package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

// UserUseCase manages user registration and shopping bucket contents.
type UserUseCase struct {
	users    repository.UserRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository, products repository.ProductRepository) *UserUseCase {
	return &UserUseCase{users: users, products: products, now: time.Now}
}

// RegisterUserInput carries registration parameters.
type RegisterUserInput struct {
	Email       string
	Password    string
	PhoneNumber string
	DeviceID    string
	AcceptPush  bool
}

// Register creates a user with a bcrypt password hash. Duplicate email
// surfaces as ErrConflict.
func (u *UserUseCase) Register(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domainErrors.ErrInvalidParameters)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		DeviceID:     in.DeviceID,
		AcceptPush:   in.AcceptPush,
	}
	if in.AcceptPush {
		accepted := u.now()
		user.PushAccepted = &accepted
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns a user by id.
func (u *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// Bucket returns the user's bucket with product references resolved.
func (u *UserUseCase) Bucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return u.users.Bucket(ctx, userID)
}

// AddBucketItem puts quantity of a product into the user's bucket, merging
// with an existing entry for the same product.
func (u *UserUseCase) AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domainErrors.ErrInvalidParameters)
	}
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return u.users.AddBucketItem(ctx, userID, productID, quantity)
}

// RemoveBucketItem drops a product from the user's bucket.
func (u *UserUseCase) RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error {
	return u.users.RemoveBucketItem(ctx, userID, productID)
}
