// handlers/admin_routes.go
package handlers

import (
	"snapbag-reward-system/middleware"
	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB, userService *services.UserService, batchService *services.BatchService, limiter *services.RateLimiter) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/give-spins", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"userId"`
			Spins  int    `json:"spins"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.Spins <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and a positive spins count are required"})
		}

		newCount, err := userService.GrantSpins(req.UserID, req.Spins)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(fiber.Map{
			"success":      true,
			"newSpinCount": newCount,
		})
	})

	admin.Post("/generate-batch",
		middleware.RateLimitMiddleware(limiter, "generate_batch", 5, 60),
		func(c *fiber.Ctx) error {
			var req struct {
				BatchName   string `json:"batchName"`
				Description string `json:"description"`
				Quantity    int    `json:"quantity"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
			}

			result, err := batchService.GenerateBatch(req.BatchName, req.Description, req.Quantity)
			if err != nil {
				return serviceError(c, err)
			}

			return c.JSON(fiber.Map{
				"success":   true,
				"batch":     result.Batch,
				"qrCodes":   result.Codes,
				"exportUrl": result.ExportURL,
			})
		})

	admin.Post("/seed-wheel", func(c *fiber.Ctx) error {
		prizes, err := services.SeedDefaultWheel(db)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"prizesCreated": len(prizes),
			"prizes":        prizes,
		})
	})
}
