package location

import (
	"fmt"
	"strings"

	"backend-ecoroute/internal/shared/geo"
)

type Category string

const (
	CategoryLandmark    Category = "landmark"
	CategoryTransport   Category = "transport"
	CategoryCommercial  Category = "commercial"
	CategoryResidential Category = "residential"
	CategoryEducational Category = "educational"
	CategoryMedical     Category = "medical"
	CategoryGovernment  Category = "government"
)

var categories = []Category{
	CategoryLandmark,
	CategoryTransport,
	CategoryCommercial,
	CategoryResidential,
	CategoryEducational,
	CategoryMedical,
	CategoryGovernment,
}

// ParseCategory accepts the category names case-insensitively.
// "transport-hub" is an alias for CategoryTransport.
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "transport-hub" {
		return CategoryTransport, nil
	}
	for _, c := range categories {
		if string(c) == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown location category %q", s)
}

// Location is immutable reference data. Coordinates may be nil when only
// the postal address is known.
type Location struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Region      string          `json:"region"`
	Category    Category        `json:"category"`
	Coordinates *geo.Coordinate `json:"coordinates,omitempty"`
}

// Nearby is a catalog hit with its distance from the query point.
type Nearby struct {
	Location
	DistanceMeters float64 `json:"distance_m"`
}
