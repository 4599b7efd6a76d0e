// handlers/partner_routes.go
package handlers

import (
	"errors"

	"snapbag-reward-system/middleware"
	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPartnerRoutes(app *fiber.App, redemptionService *services.RedemptionService) {
	secured := app.Group("/partner", middleware.UserContextMiddleware())

	secured.Get("/verify-voucher/:code", func(c *fiber.Ctx) error {
		code := c.Params("code")

		verification, err := redemptionService.VerifyVoucher(code)
		if err != nil {
			// partners expect a valid flag alongside the rejection reason
			if errors.Is(err, services.ErrVoucherNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"valid": false, "message": err.Error(),
				})
			}
			if isVoucherRejection(err) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"valid": false, "message": err.Error(),
				})
			}
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"valid":         true,
			"message":       "Voucher is valid and can be redeemed",
			"voucher":       verification.Voucher,
			"prize":         verification.Prize,
			"timeRemaining": verification.TimeRemaining,
		})
	})

	secured.Post("/redeem-voucher", func(c *fiber.Ctx) error {
		partnerUserID := c.Locals("user_id").(string)

		var req struct {
			VoucherCode string `json:"voucherCode"`
		}
		if err := c.BodyParser(&req); err != nil || req.VoucherCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "voucherCode is required"})
		}

		receipt, err := redemptionService.RedeemVoucher(req.VoucherCode, partnerUserID)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"message":       "Voucher redeemed",
			"pointsAwarded": receipt.PointsAwarded,
		})
	})
}

func isVoucherRejection(err error) bool {
	return errors.Is(err, services.ErrVoucherNotClaimed) ||
		errors.Is(err, services.ErrVoucherAlreadyUsed) ||
		errors.Is(err, services.ErrVoucherExpired) ||
		errors.Is(err, services.ErrRedemptionWindowExpired)
}
