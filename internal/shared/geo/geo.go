package geo

import (
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusM is the mean Earth radius used by the haversine helpers.
const EarthRadiusM = 6371000.0

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dPhi := toRadians(b.Lat - a.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusM * c
}

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceMeters(Coordinate{Lat: lat1, Lng: lng1}, Coordinate{Lat: lat2, Lng: lng2}) / 1000
}

// Offset shifts c by the given number of degrees.
func Offset(c Coordinate, dLat, dLng float64) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

// EncodePolyline encodes coords with the Google polyline algorithm,
// dropping consecutive duplicates so the encoding has no zero-length deltas.
func EncodePolyline(coords []Coordinate) string {
	points := make([][]float64, 0, len(coords))
	for i, c := range coords {
		if i > 0 && c == coords[i-1] {
			continue
		}
		points = append(points, []float64{c.Lat, c.Lng})
	}
	return string(polyline.EncodeCoords(points))
}

func DecodePolyline(encoded string) ([]Coordinate, error) {
	points, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, Coordinate{Lat: p[0], Lng: p[1]})
	}
	return coords, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
