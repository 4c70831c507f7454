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

// DealerServiceInterface defines the directory operations needed for dealers.
type DealerServiceInterface interface {
	CreateDealer(ctx context.Context, req *model.CreateDealerRequest) error
	DealerLogin(ctx context.Context, dealerNumber, password string) (*model.Dealer, error)
	GetDealer(ctx context.Context, dealerNumber string) (*model.DealerResponse, error)
}

// DealerHandler handles HTTP requests for dealer operations.
type DealerHandler struct {
	service   DealerServiceInterface
	validator *validator.Validate
}

// NewDealerHandler creates a new DealerHandler with the given service and validator.
func NewDealerHandler(svc DealerServiceInterface, v *validator.Validate) *DealerHandler {
	return &DealerHandler{service: svc, validator: v}
}

// CreateDealer handles POST /api/dealers requests.
func (h *DealerHandler) CreateDealer(c *fiber.Ctx) error {
	var req model.CreateDealerRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.CreateDealer(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrDistributorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "distributor not found"})
		}
		if errors.Is(err, service.ErrDuplicateDealer) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "dealer already exists"})
		}
		log.Error().Err(err).Str("dealer_number", req.DealerNumber).Msg("failed to create dealer")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "dealer created successfully"})
}

// Login handles POST /api/dealers/login requests.
// The response carries the dealer profile without the credential.
func (h *DealerHandler) Login(c *fiber.Ctx) error {
	var req model.DealerLoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	dealer, err := h.service.DealerLogin(c.Context(), req.DealerNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		log.Error().Err(err).Str("dealer_number", req.DealerNumber).Msg("dealer login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"dealer":  dealer,
	})
}

// GetDealer handles GET /api/dealers/:dealer_number requests.
// The response includes the computed redeemed-voucher log.
func (h *DealerHandler) GetDealer(c *fiber.Ctx) error {
	dealerNumber := c.Params("dealer_number")

	dealer, err := h.service.GetDealer(c.Context(), dealerNumber)
	if err != nil {
		if errors.Is(err, service.ErrDealerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "dealer not found"})
		}
		log.Error().Err(err).Str("dealer_number", dealerNumber).Msg("failed to get dealer")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(dealer)
}
