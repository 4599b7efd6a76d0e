// handlers/wheel_routes.go
package handlers

import (
	"snapbag-reward-system/middleware"
	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWheelRoutes(app *fiber.App, spinService *services.SpinService, userService *services.UserService, limiter *services.RateLimiter) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/wheel/spin",
		middleware.RateLimitMiddleware(limiter, "wheel_spin", 30, 60),
		func(c *fiber.Ctx) error {
			userID := c.Locals("user_id").(string)

			result, err := spinService.Spin(userID)
			if err != nil {
				return serviceError(c, err)
			}

			return c.JSON(fiber.Map{
				"success":      true,
				"voucher":      result.Voucher,
				"landingAngle": result.LandingAngle,
				"prize": fiber.Map{
					"title":        result.Prize.PrizeTitle,
					"description":  result.Prize.Description,
					"conditions":   result.Prize.Conditions,
					"validityDays": result.Prize.ValidityDays,
					"expiresAt":    result.Voucher.ExpiresAt,
				},
			})
		})

	secured.Get("/wheel-prizes", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		province := ""
		if user, err := userService.GetUser(userID); err == nil && user != nil {
			province = user.Province
		}

		prizes, err := spinService.EligiblePrizes(province)
		if err != nil {
			return serviceError(c, err)
		}

		hasLocal := false
		for _, p := range prizes {
			if !p.IsNational {
				hasLocal = true
				break
			}
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"prizes":         prizes,
			"hasLocalPrizes": hasLocal,
			"userProvince":   province,
		})
	})
}
