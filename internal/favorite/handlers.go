package favorite

import (
	"errors"

	"backend-ecoroute/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/locations", authMiddleware, func(c *fiber.Ctx) error {
		locations, err := svc.Locations(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(locations)
	})

	r.Post("/locations", authMiddleware, func(c *fiber.Ctx) error {
		var req Location
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		loc, err := svc.CreateLocation(c.Context(), auth.UserID(c), req)
		if err != nil {
			return favoriteError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	})

	r.Put("/locations/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Location
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		loc, err := svc.UpdateLocation(c.Context(), auth.UserID(c), c.Params("id"), req)
		if err != nil {
			return favoriteError(err)
		}
		return c.JSON(loc)
	})

	r.Delete("/locations/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteLocation(c.Context(), auth.UserID(c), c.Params("id")); err != nil {
			return favoriteError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/routes", authMiddleware, func(c *fiber.Ctx) error {
		routes, err := svc.Routes(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Post("/routes", authMiddleware, func(c *fiber.Ctx) error {
		var req Route
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		route, err := svc.CreateRoute(c.Context(), auth.UserID(c), req)
		if err != nil {
			return favoriteError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(route)
	})

	r.Put("/routes/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Route
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		route, err := svc.UpdateRoute(c.Context(), auth.UserID(c), c.Params("id"), req)
		if err != nil {
			return favoriteError(err)
		}
		return c.JSON(route)
	})

	r.Delete("/routes/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteRoute(c.Context(), auth.UserID(c), c.Params("id")); err != nil {
			return favoriteError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func favoriteError(err error) error {
	var typeErr *typeError
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameRequired), errors.As(err, &typeErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
