package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/internal/service"
)

// UserServiceInterface defines the interface for user registry business logic.
type UserServiceInterface interface {
	Create(ctx context.Context, req *model.CreateUserRequest) error
	List(ctx context.Context) ([]model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, phone string, req *model.UpdateUserRequest) error
	Delete(ctx context.Context, phone string) error
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service   UserServiceInterface
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given service and validator.
func NewUserHandler(svc UserServiceInterface, v *validator.Validate) *UserHandler {
	return &UserHandler{service: svc, validator: v}
}

// CreateUser handles POST /api/users requests to register a new user.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req model.CreateUserRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Create(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrDuplicatePhone) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "phone number already exists"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("phone_number", req.PhoneNumber).Msg("failed to create user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "user created successfully"})
}

// ListUsers handles GET /api/users requests.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:phone requests.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	phone := c.Params("phone")

	user, err := h.service.GetByPhone(c.Context(), phone)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().Err(err).Str("phone_number", phone).Msg("failed to get user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:phone requests to rewrite name and email.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	phone := c.Params("phone")

	var req model.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Update(c.Context(), phone, &req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().Err(err).Str("phone_number", phone).Msg("failed to update user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"message": "user updated successfully"})
}

// DeleteUser handles DELETE /api/users/:phone requests.
// Users that own a voucher cannot be deleted.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	phone := c.Params("phone")

	if err := h.service.Delete(c.Context(), phone); err != nil {
		if errors.Is(err, service.ErrUserHasVoucher) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "cannot delete user with an active voucher"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().Err(err).Str("phone_number", phone).Msg("failed to delete user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"message": "user deleted successfully"})
}
