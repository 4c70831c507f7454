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

// VoucherServiceInterface defines the interface for voucher business logic.
type VoucherServiceInterface interface {
	Issue(ctx context.Context, userNumber string) (*model.Voucher, error)
	List(ctx context.Context) ([]model.Voucher, error)
	GetByID(ctx context.Context, id string) (*model.Voucher, error)
	Redeem(ctx context.Context, voucherID, dealerNumber string) error
}

// VoucherHandler handles HTTP requests for voucher operations.
type VoucherHandler struct {
	service   VoucherServiceInterface
	validator *validator.Validate
}

// NewVoucherHandler creates a new VoucherHandler with the given service and validator.
func NewVoucherHandler(svc VoucherServiceInterface, v *validator.Validate) *VoucherHandler {
	return &VoucherHandler{service: svc, validator: v}
}

// IssueVoucher handles POST /api/vouchers requests to issue a voucher.
func (h *VoucherHandler) IssueVoucher(c *fiber.Ctx) error {
	var req model.IssueVoucherRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	voucher, err := h.service.Issue(c.Context(), req.UserNumber)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		if errors.Is(err, service.ErrAlreadyHasVoucher) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "user already has a voucher"})
		}
		log.Error().Err(err).Str("user_number", req.UserNumber).Msg("failed to issue voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("voucher_id", voucher.ID).
		Str("user_number", voucher.OwnerPhone).
		Msg("voucher issued")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "voucher created successfully",
		"voucher": voucher,
	})
}

// ListVouchers handles GET /api/vouchers requests.
func (h *VoucherHandler) ListVouchers(c *fiber.Ctx) error {
	vouchers, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list vouchers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(vouchers)
}

// GetVoucher handles GET /api/vouchers/:id requests.
func (h *VoucherHandler) GetVoucher(c *fiber.Ctx) error {
	id := c.Params("id")

	voucher, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		}
		log.Error().Err(err).Str("voucher_id", id).Msg("failed to get voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(voucher)
}

// RedeemVoucher handles PATCH/PUT /api/vouchers/:id/redeem requests.
func (h *VoucherHandler) RedeemVoucher(c *fiber.Ctx) error {
	id := c.Params("id")

	var req model.RedeemVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Redeem(c.Context(), id, req.DealerNumber); err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		}
		if errors.Is(err, service.ErrDealerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "dealer not found"})
		}
		if errors.Is(err, service.ErrAlreadyRedeemed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "voucher already redeemed"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("voucher_id", id).
			Str("dealer_number", req.DealerNumber).
			Msg("failed to redeem voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("voucher_id", id).
		Str("dealer_number", req.DealerNumber).
		Msg("voucher redeemed successfully")

	return c.JSON(fiber.Map{"message": "voucher redeemed successfully"})
}
