package profile

import (
	"errors"

	"backend-ecoroute/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), auth.UserID(c))
		if err != nil {
			return profileError(err)
		}
		return c.JSON(p)
	})

	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req ProfileUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Update(c.Context(), auth.UserID(c), req)
		if err != nil {
			return profileError(err)
		}
		return c.JSON(p)
	})

	r.Get("/preferences", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Preferences(c.Context(), auth.UserID(c))
		if err != nil {
			return profileError(err)
		}
		return c.JSON(p)
	})

	r.Put("/preferences", authMiddleware, func(c *fiber.Ctx) error {
		var req PreferencesUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.UpdatePreferences(c.Context(), auth.UserID(c), req)
		if err != nil {
			return profileError(err)
		}
		return c.JSON(p)
	})

	r.Post("/avatar", authMiddleware, func(c *fiber.Ctx) error {
		var req AvatarRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		avatar, err := svc.RegisterAvatar(c.Context(), auth.UserID(c), req.FileName)
		if err != nil {
			return profileError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(avatar)
	})
}

func profileError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrFileNameRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
