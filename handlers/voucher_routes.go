// handlers/voucher_routes.go
package handlers

import (
	"snapbag-reward-system/middleware"
	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupVoucherRoutes(app *fiber.App, voucherService *services.VoucherService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/vouchers", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		status := c.Query("status", "")

		vouchers, unclaimed, err := voucherService.ListUserVouchers(userID, status)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"vouchers":       vouchers,
			"unclaimedCount": unclaimed,
		})
	})

	secured.Post("/vouchers/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		voucherID := c.Params("id")

		if err := voucherService.Claim(voucherID, userID); err != nil {
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Voucher claimed. You have 10 minutes to show the QR code.",
		})
	})
}
