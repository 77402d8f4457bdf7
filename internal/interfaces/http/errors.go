package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/internal/domain"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// errorMapping código HTTP y código de error para un sentinel de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: NoBillableItemsError también desenvuelve a ErrInsufficientBalance.
var errorMappings = []errorMapping{
	{domain.ErrDuplicateBilling, fiber.StatusConflict, "DUPLICATE_BILLING"},
	{domain.ErrAlreadyConsumed, fiber.StatusConflict, "ALREADY_CONSUMED"},
	{domain.ErrNotRegistered, fiber.StatusConflict, "NOT_REGISTERED"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE"},
	{domain.ErrNoRedistributionTarget, fiber.StatusConflict, "NO_REDISTRIBUTION_TARGET"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidOrderState, fiber.StatusUnprocessableEntity, "INVALID_ORDER_STATE"},
	{domain.ErrModalityNotFound, fiber.StatusNotFound, "MODALITY_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// writeError traduce errores de dominio a dto.ErrorResponse. Lo no reconocido es 500 y se loguea.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var noItems *domain.NoBillableItemsError
	if errors.As(err, &noItems) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_BILLABLE_ITEMS", Message: err.Error(), Details: noItems.Alerts})
	}
	var shortfall *domain.InsufficientBalanceError
	if errors.As(err, &shortfall) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BALANCE", Message: err.Error(), Details: shortfall.Details})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
