// handlers/errors.go
package handlers

import (
	"errors"
	"log"

	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps a service rejection to its HTTP response. Unknown errors
// become a generic 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrDuplicateScan),
		errors.Is(err, services.ErrNoSpins),
		errors.Is(err, services.ErrNoEligiblePrizes),
		errors.Is(err, services.ErrVoucherNotClaimed),
		errors.Is(err, services.ErrVoucherAlreadyClaimed),
		errors.Is(err, services.ErrVoucherAlreadyUsed),
		errors.Is(err, services.ErrVoucherExpired),
		errors.Is(err, services.ErrRedemptionWindowExpired),
		errors.Is(err, services.ErrInvalidBatchRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrSpinConsumed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrVoucherNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrVoucherWrongOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("❌ Unexpected service error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
