package analytics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/analytics_for_coach/:id", func(c *fiber.Ctx) error {
		result, err := svc.ForCoach(c.Context(), c.Params("id"))
		if errors.Is(err, ErrCoachNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})
}
