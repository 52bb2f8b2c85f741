package navigation

import (
	"errors"

	"backend-ecoroute/internal/auth"
	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/progress"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, catalog *location.Catalog, authMiddleware fiber.Handler) {
	r.Post("/trips", authMiddleware, func(c *fiber.Ctx) error {
		var req StartRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		origin, err := catalog.Resolve(req.OriginID, req.Origin)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "origin: "+err.Error())
		}
		destination, err := catalog.Resolve(req.DestinationID, req.Destination)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "destination: "+err.Error())
		}
		trip, err := svc.Start(auth.UserID(c), origin, destination, req.Route)
		if err != nil {
			return navError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(trip)
	})

	r.Get("/trips/active", authMiddleware, func(c *fiber.Ctx) error {
		trip, err := svc.Active(auth.UserID(c))
		if err != nil {
			return navError(err)
		}
		return c.JSON(trip)
	})

	r.Get("/trips/:id", authMiddleware, func(c *fiber.Ctx) error {
		trip, err := svc.Get(auth.UserID(c), c.Params("id"))
		if err != nil {
			return navError(err)
		}
		return c.JSON(trip)
	})

	transitions := map[string]func(userID, tripID string) (progress.ActiveTrip, error){
		"pause":  svc.Pause,
		"resume": svc.Resume,
		"next":   svc.Next,
		"cancel": svc.Cancel,
	}
	for name, op := range transitions {
		op := op
		r.Post("/trips/:id/"+name, authMiddleware, func(c *fiber.Ctx) error {
			trip, err := op(auth.UserID(c), c.Params("id"))
			if err != nil {
				return navError(err)
			}
			return c.JSON(trip)
		})
	}

	r.Post("/trips/:id/skip", authMiddleware, func(c *fiber.Ctx) error {
		res, err := svc.Skip(c.Context(), auth.IdentityFrom(c), c.Params("id"))
		if err != nil {
			return navError(err)
		}
		return c.JSON(res)
	})

	r.Post("/trips/:id/complete", authMiddleware, func(c *fiber.Ctx) error {
		var req CompleteRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		res, err := svc.Complete(c.Context(), auth.IdentityFrom(c), c.Params("id"), req.Rating)
		if err != nil {
			return navError(err)
		}
		return c.JSON(res)
	})
}

func navError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, progress.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, progress.ErrNotAuthenticated):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, progress.ErrEmptyItinerary):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
