package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/server/http/dto"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

// UserHandler manages user registration and bucket endpoints.
type UserHandler struct {
	facade UserFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Register handles POST /user/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		return
	}

	user, err := h.facade.RegisterUser(c.Request.Context(), usecase.RegisterUserInput{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		DeviceID:    req.DeviceID,
		AcceptPush:  req.AcceptPush,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		case errors.Is(err, domainErrors.ErrConflict):
			respond(c, http.StatusConflict, ResultFail, "email already registered")
		default:
			respond(c, http.StatusInternalServerError, ResultError, "server fault")
		}
		return
	}

	respondWith(c, http.StatusCreated, "user", dto.ToUserResponse(*user))
}

// Bucket handles GET /user/:userId/bucket.
func (h *UserHandler) Bucket(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"), "userId")
	if !ok {
		return
	}

	items, err := h.facade.UserBucket(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(user)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respondWith(c, http.StatusOK, "bucket", dto.ToBucketResponse(items))
}

// AddBucketItem handles POST /user/:userId/bucket/add.
func (h *UserHandler) AddBucketItem(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"), "userId")
	if !ok {
		return
	}

	var req dto.AddBucketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameters")
		return
	}
	productID, ok := parseID(c, req.Product, "product")
	if !ok {
		return
	}

	if err := h.facade.AddBucketItem(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameter(quantity)")
		case errors.Is(err, domainErrors.ErrNotFound):
			respond(c, http.StatusNotFound, ResultFail, "not found")
		default:
			respond(c, http.StatusInternalServerError, ResultError, "server fault")
		}
		return
	}

	respond(c, http.StatusCreated, ResultOK, "")
}

// RemoveBucketItem handles DELETE /user/:userId/bucket/:productId.
func (h *UserHandler) RemoveBucketItem(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"), "userId")
	if !ok {
		return
	}
	productID, ok := parseID(c, c.Param("productId"), "productId")
	if !ok {
		return
	}

	if err := h.facade.RemoveBucketItem(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			respond(c, http.StatusNotFound, ResultFail, "not found(bucket item)")
			return
		}
		respond(c, http.StatusInternalServerError, ResultError, "server fault")
		return
	}

	respond(c, http.StatusOK, ResultOK, "")
}
