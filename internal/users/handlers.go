package users

import (
	"errors"

	"github.com/zzenku/project-run/internal/shared/paging"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/users", func(c *fiber.Ctx) error {
		page, paged, err := paging.FromQuery(c)
		if err != nil {
			return httpError(err)
		}
		var p *paging.Params
		if paged {
			p = &page
		}
		filter := Filter{Type: c.Query("type"), Search: c.Query("search"), Ordering: c.Query("ordering")}
		users, total, err := svc.List(c.Context(), filter, p)
		if err != nil {
			return httpError(err)
		}
		if paged {
			return c.JSON(paging.New(c, page, total, users))
		}
		return c.JSON(users)
	})

	r.Get("/users/:id", func(c *fiber.Ctx) error {
		user, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(user)
	})

	r.Get("/athlete_info/:user_id", func(c *fiber.Ctx) error {
		info, err := svc.AthleteInfo(c.Context(), c.Params("user_id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(info)
	})

	r.Put("/athlete_info/:user_id", authMiddleware, func(c *fiber.Ctx) error {
		var req AthleteInfoRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		info, err := svc.PutAthleteInfo(c.Context(), c.Params("user_id"), req)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})
}

func httpError(err error) error {
	var verr *validate.Error
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, paging.ErrInvalidPage):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, paging.ErrInvalidOrdering), errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
