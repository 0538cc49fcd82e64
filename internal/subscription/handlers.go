package subscription

import (
	"errors"

	"github.com/zzenku/project-run/internal/auth"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/subscribe_to_coach/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req SubscribeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.AthleteID == "" {
			req.AthleteID = auth.UserID(c)
		}
		if err := svc.Subscribe(c.Context(), c.Params("id"), req); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "subscribed"})
	})

	r.Post("/rate_coach/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req RateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.AthleteID == "" {
			req.AthleteID = auth.UserID(c)
		}
		if err := svc.Rate(c.Context(), c.Params("id"), req); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "rating saved"})
	})
}

func httpError(err error) error {
	var verr *validate.Error
	switch {
	case errors.Is(err, ErrInvalidAthlete), errors.Is(err, ErrInvalidCoach),
		errors.Is(err, ErrAlreadySubscribed), errors.Is(err, ErrNotSubscribed), errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
