package run

import (
	"errors"

	"github.com/zzenku/project-run/internal/auth"
	"github.com/zzenku/project-run/internal/shared/paging"
	"github.com/zzenku/project-run/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		page, paged, err := paging.FromQuery(c)
		if err != nil {
			return httpError(err)
		}
		filter := Filter{Status: c.Query("status"), AthleteID: c.Query("athlete"), Ordering: c.Query("ordering")}
		var p *paging.Params
		if paged {
			p = &page
		}
		runs, total, err := svc.List(c.Context(), filter, p)
		if err != nil {
			return httpError(err)
		}
		if paged {
			return c.JSON(paging.New(c, page, total, runs))
		}
		return c.JSON(runs)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.AthleteID == "" {
			req.AthleteID = auth.UserID(c)
		}
		run, err := svc.Create(c.Context(), req)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(run)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		run, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(run)
	})

	update := func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		run, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(run)
	}
	r.Put("/:id", authMiddleware, update)
	r.Patch("/:id", authMiddleware, update)

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		run, err := svc.Start(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(run)
	})

	r.Post("/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		run, err := svc.Stop(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(run)
	})
}

func httpError(err error) error {
	var verr *validate.Error
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, paging.ErrInvalidPage):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrAthleteNotFound),
		errors.Is(err, paging.ErrInvalidOrdering), errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
