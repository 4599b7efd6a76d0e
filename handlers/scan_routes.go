// handlers/scan_routes.go
package handlers

import (
	"snapbag-reward-system/middleware"
	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupScanRoutes(app *fiber.App, scanService *services.ScanService, limiter *services.RateLimiter) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/qr/scan",
		middleware.RateLimitMiddleware(limiter, "qr_scan", 10, 60),
		func(c *fiber.Ctx) error {
			userID := c.Locals("user_id").(string)

			var req struct {
				BagID         string `json:"bagId"`
				HMACSignature string `json:"hmacSignature"`
				DeviceID      string `json:"deviceId"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
			}
			if req.BagID == "" || req.HMACSignature == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bagId and hmacSignature are required"})
			}

			result, err := scanService.ProcessScan(userID, req.BagID, req.HMACSignature, req.DeviceID, c.IP())
			if err != nil {
				return serviceError(c, err)
			}

			return c.JSON(fiber.Map{
				"success":       true,
				"pointsAwarded": result.PointsAwarded,
				"xpAwarded":     result.XPAwarded,
				"spinsAwarded":  result.SpinsAwarded,
				"qrScanId":      result.QRScanID,
			})
		})
}
