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

// DistributorServiceInterface defines the directory operations needed for distributors.
type DistributorServiceInterface interface {
	CreateDistributor(ctx context.Context, req *model.CreateDistributorRequest) error
	DistributorLogin(ctx context.Context, distributorNumber, password string) (*model.Distributor, error)
	GetDistributor(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error)
}

// DistributorHandler handles HTTP requests for distributor operations.
type DistributorHandler struct {
	service   DistributorServiceInterface
	validator *validator.Validate
}

// NewDistributorHandler creates a new DistributorHandler with the given service and validator.
func NewDistributorHandler(svc DistributorServiceInterface, v *validator.Validate) *DistributorHandler {
	return &DistributorHandler{service: svc, validator: v}
}

// CreateDistributor handles POST /api/distributors requests.
func (h *DistributorHandler) CreateDistributor(c *fiber.Ctx) error {
	var req model.CreateDistributorRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.CreateDistributor(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrDuplicateDistributor) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "distributor already exists"})
		}
		log.Error().Err(err).Str("distributor_number", req.DistributorNumber).Msg("failed to create distributor")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "distributor created successfully"})
}

// Login handles POST /api/distributors/login requests.
func (h *DistributorHandler) Login(c *fiber.Ctx) error {
	var req model.DistributorLoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	distributor, err := h.service.DistributorLogin(c.Context(), req.DistributorNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		log.Error().Err(err).Str("distributor_number", req.DistributorNumber).Msg("distributor login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"message":     "login successful",
		"distributor": distributor,
	})
}

// GetDistributor handles GET /api/distributors/:distributor_number requests.
// The response includes the computed dealer roster.
func (h *DistributorHandler) GetDistributor(c *fiber.Ctx) error {
	distributorNumber := c.Params("distributor_number")

	distributor, err := h.service.GetDistributor(c.Context(), distributorNumber)
	if err != nil {
		if errors.Is(err, service.ErrDistributorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "distributor not found"})
		}
		log.Error().Err(err).Str("distributor_number", distributorNumber).Msg("failed to get distributor")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(distributor)
}
