package location

import (
	"strconv"

	"backend-ecoroute/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, catalog *Catalog) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(catalog.Search(c.Query("q")))
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		radius, _ := strconv.ParseFloat(c.Query("radius_m"), 64)
		if radius == 0 {
			radius = 1000
		}
		limit := c.QueryInt("limit", maxResults)
		return c.JSON(catalog.Nearby(geo.Coordinate{Lat: lat, Lng: lng}, radius, limit))
	})

	r.Get("/category/:category", func(c *fiber.Ctx) error {
		category, err := ParseCategory(c.Params("category"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(catalog.ByCategory(category))
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		loc, ok := catalog.ByID(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "location not found")
		}
		return c.JSON(loc)
	})
}
