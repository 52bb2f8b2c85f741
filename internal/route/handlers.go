package route

import (
	"context"
	"errors"

	"backend-ecoroute/internal/location"

	"github.com/gofiber/fiber/v2"
)

// Planner answers a route search. *Directions is the production planner.
type Planner interface {
	Routes(ctx context.Context, origin, destination location.Location) []Itinerary
}

type SearchRequest struct {
	OriginID      string             `json:"origin_id"`
	DestinationID string             `json:"destination_id"`
	Origin        *location.Location `json:"origin"`
	Destination   *location.Location `json:"destination"`
}

type SearchResponse struct {
	Origin      location.Location `json:"origin"`
	Destination location.Location `json:"destination"`
	Routes      []Itinerary       `json:"routes"`
}

func RegisterRoutes(r fiber.Router, planner Planner, catalog *location.Catalog) {
	r.Post("/search", func(c *fiber.Ctx) error {
		var req SearchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		origin, err := resolve(catalog, req.OriginID, req.Origin, "origin")
		if err != nil {
			return err
		}
		destination, err := resolve(catalog, req.DestinationID, req.Destination, "destination")
		if err != nil {
			return err
		}
		return c.JSON(SearchResponse{
			Origin:      origin,
			Destination: destination,
			Routes:      planner.Routes(c.Context(), origin, destination),
		})
	})
}

func resolve(catalog *location.Catalog, id string, inline *location.Location, field string) (location.Location, error) {
	loc, err := catalog.Resolve(id, inline)
	switch {
	case errors.Is(err, location.ErrUnknownLocation):
		return location.Location{}, fiber.NewError(fiber.StatusBadRequest, "unknown "+field+" location")
	case err != nil:
		return location.Location{}, fiber.NewError(fiber.StatusBadRequest, field+" required")
	}
	return loc, nil
}
