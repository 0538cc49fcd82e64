package challenge

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/challenges", func(c *fiber.Ctx) error {
		challenges, err := svc.List(c.Context(), c.Query("athlete"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(challenges)
	})

	r.Get("/challenges_summary", func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})
}
