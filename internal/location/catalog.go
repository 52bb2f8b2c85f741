package location

import (
	"errors"
	"math"
	"sort"
	"strings"

	"backend-ecoroute/internal/shared/geo"

	"github.com/tidwall/rtree"
)

const (
	minQueryLength = 2
	maxResults     = 10
	metersPerDeg   = 111320.0
)

// Catalog serves lookups over a fixed set of locations. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	locations []Location
	byID      map[string]int
	index     rtree.RTreeG[int]
}

func NewCatalog(locations []Location) *Catalog {
	c := &Catalog{
		locations: make([]Location, len(locations)),
		byID:      make(map[string]int, len(locations)),
	}
	copy(c.locations, locations)
	for i, loc := range c.locations {
		c.byID[loc.ID] = i
		if loc.Coordinates != nil {
			pt := [2]float64{loc.Coordinates.Lng, loc.Coordinates.Lat}
			c.index.Insert(pt, pt, i)
		}
	}
	return c
}

// Search matches query against name, address, city and region. Queries
// shorter than two characters return the head of the catalog.
func (c *Catalog) Search(query string) []Location {
	term := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(term)) < minQueryLength {
		return c.head(maxResults)
	}

	results := []Location{}
	for _, loc := range c.locations {
		if matches(loc, term) {
			results = append(results, loc)
			if len(results) == maxResults {
				break
			}
		}
	}
	return results
}

var (
	ErrUnknownLocation  = errors.New("unknown location")
	ErrLocationRequired = errors.New("location required")
)

// Resolve picks a catalog entry by id, or else accepts an inline location
// that carries at least a name, an address or coordinates.
func (c *Catalog) Resolve(id string, inline *Location) (Location, error) {
	if id != "" {
		loc, ok := c.ByID(id)
		if !ok {
			return Location{}, ErrUnknownLocation
		}
		return loc, nil
	}
	if inline == nil {
		return Location{}, ErrLocationRequired
	}
	loc := *inline
	if strings.TrimSpace(loc.Name) == "" && strings.TrimSpace(loc.Address) == "" && loc.Coordinates == nil {
		return Location{}, ErrLocationRequired
	}
	if loc.Name == "" {
		loc.Name = loc.Address
	}
	return loc, nil
}

func (c *Catalog) ByID(id string) (Location, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Location{}, false
	}
	return c.locations[i], true
}

func (c *Catalog) ByCategory(category Category) []Location {
	results := []Location{}
	for _, loc := range c.locations {
		if loc.Category == category {
			results = append(results, loc)
		}
	}
	return results
}

// Nearby returns catalog entries within radiusM of point, closest first.
func (c *Catalog) Nearby(point geo.Coordinate, radiusM float64, limit int) []Nearby {
	if radiusM <= 0 {
		return []Nearby{}
	}
	dLat := radiusM / metersPerDeg
	dLng := radiusM / (metersPerDeg * math.Max(math.Cos(point.Lat*math.Pi/180), 0.01))
	lo := [2]float64{point.Lng - dLng, point.Lat - dLat}
	hi := [2]float64{point.Lng + dLng, point.Lat + dLat}

	results := []Nearby{}
	c.index.Search(lo, hi, func(_, _ [2]float64, i int) bool {
		loc := c.locations[i]
		d := geo.DistanceMeters(point, *loc.Coordinates)
		if d <= radiusM {
			results = append(results, Nearby{Location: loc, DistanceMeters: d})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (c *Catalog) head(n int) []Location {
	if n > len(c.locations) {
		n = len(c.locations)
	}
	out := make([]Location, n)
	copy(out, c.locations[:n])
	return out
}

func matches(loc Location, term string) bool {
	return strings.Contains(strings.ToLower(loc.Name), term) ||
		strings.Contains(strings.ToLower(loc.Address), term) ||
		strings.Contains(strings.ToLower(loc.City), term) ||
		strings.Contains(strings.ToLower(loc.Region), term)
}
