package trip

import (
	"errors"

	"backend-ecoroute/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		trips, err := svc.History(c.Context(), auth.UserID(c), Filter{
			Status: c.Query("status"),
			Mode:   c.Query("mode"),
			Limit:  c.QueryInt("limit"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trips)
	})

	r.Get("/recent", authMiddleware, func(c *fiber.Ctx) error {
		trips, err := svc.Recent(c.Context(), auth.UserID(c), c.QueryInt("limit"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trips)
	})

	r.Get("/stats", authMiddleware, func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(stats)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		trip, err := svc.GetTrip(c.Context(), auth.UserID(c), c.Params("id"))
		if err != nil {
			return storeError(err)
		}
		return c.JSON(trip)
	})

	r.Put("/:id/rating", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Rating int `json:"rating"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.UpdateRating(c.Context(), auth.UserID(c), c.Params("id"), body.Rating); err != nil {
			return storeError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteTrip(c.Context(), auth.UserID(c), c.Params("id")); err != nil {
			return storeError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidRating):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
