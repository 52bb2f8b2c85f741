package route

import (
	"fmt"
	"hash/fnv"
	"math"

	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/shared/geo"
)

const (
	transitSpeedKmh = 20.0
	walkSpeedKmh    = 5.0
	walkMPerMin     = 80.0
	economicMPerMin = 300.0

	walkToStopShare      = 0.1
	maxWalkToStopM       = 400.0
	minWalkToStopMinutes = 3
	minTransitMinutes    = 10
	accessibleWalkM      = 500.0

	economicMinDistanceM = 2000.0
	economicWalkShare    = 0.3
	economicFirstWalk    = 0.4
	economicCostFactor   = 0.7
	economicCO2Factor    = 1.2
	economicExtraMinutes = 8

	walkOnlyMaxDistanceM   = 5000.0
	walkOnlyAccessibleMaxM = 2000.0

	stopOffset        = 0.002
	stationOffsetNear = 0.003
	stationOffsetFar  = 0.004
)

var (
	// San José city centre; substituted when a location has no coordinates.
	DefaultOrigin      = geo.Coordinate{Lat: 9.9336, Lng: -84.0771}
	DefaultDestination = geo.Coordinate{Lat: 9.9396, Lng: -84.0731}
)

// Estimator synthesizes itineraries from straight-line distance when no
// directions provider is available.
type Estimator struct {
	DefaultOrigin      geo.Coordinate
	DefaultDestination geo.Coordinate
}

func NewEstimator() *Estimator {
	return &Estimator{DefaultOrigin: DefaultOrigin, DefaultDestination: DefaultDestination}
}

// trip holds the figures shared by every estimated itinerary.
type trip struct {
	origin, destination location.Location
	from, to            geo.Coordinate
	meters              float64
	total               int
	km                  float64
	estimatedMinutes    int
	walkingMinutes      int
	line                uint32
}

// Estimate always returns the transit itinerary first, followed by the
// economic variant (over 2 km) and the walk-only variant (under 5 km).
func (e *Estimator) Estimate(origin, destination location.Location) []Itinerary {
	t := e.prepare(origin, destination)

	itineraries := []Itinerary{t.transit()}
	if t.meters > economicMinDistanceM {
		itineraries = append(itineraries, t.economic())
	}
	if t.meters < walkOnlyMaxDistanceM {
		itineraries = append(itineraries, t.walkOnly())
	}
	return itineraries
}

func (e *Estimator) prepare(origin, destination location.Location) trip {
	from := e.DefaultOrigin
	if origin.Coordinates != nil {
		from = *origin.Coordinates
	}
	to := e.DefaultDestination
	if destination.Coordinates != nil {
		to = *destination.Coordinates
	}

	meters := geo.DistanceMeters(from, to)
	km := meters / 1000

	h := fnv.New32a()
	_, _ = h.Write([]byte(origin.ID + "|" + origin.Name + "|" + destination.ID + "|" + destination.Name))

	return trip{
		origin:           origin,
		destination:      destination,
		from:             from,
		to:               to,
		meters:           meters,
		total:            roundInt(meters),
		km:               km,
		estimatedMinutes: roundInt(km / transitSpeedKmh * 60),
		walkingMinutes:   roundInt(km / walkSpeedKmh * 60),
		line:             h.Sum32(),
	}
}

func (t trip) transit() Itinerary {
	walkExact := math.Min(maxWalkToStopM, t.meters*walkToStopShare)
	walk := roundInt(walkExact)
	ride := t.total - 2*walk

	walkMinutes := max(minWalkToStopMinutes, roundInt(walkExact/walkMPerMin))
	rideMinutes := max(minTransitMinutes, t.estimatedMinutes-2*walkMinutes)

	boarding := geo.Offset(t.from, stopOffset, stopOffset)
	alighting := geo.Offset(t.to, -stopOffset, -stopOffset)
	line := fmt.Sprintf("%d", 10+t.line%80)

	cost := Cost(t.meters, true)
	co2 := CO2Saved(t.meters, true)

	return Itinerary{
		ID:              "estimate-transit",
		Duration:        FormatMinutes(t.estimatedMinutes),
		DurationMinutes: t.estimatedMinutes,
		Distance:        FormatKm(t.meters),
		DistanceMeters:  t.total,
		Walking:         FormatKm(float64(2 * walk)),
		WalkingMeters:   2 * walk,
		Cost:            FormatCost(cost),
		CostValue:       cost,
		CO2:             FormatCO2(co2),
		CO2Value:        co2,
		Steps: []Step{
			{
				Mode:            ModeWalk,
				Instruction:     fmt.Sprintf("Walk to the nearest bus stop from %s", t.origin.Name),
				Distance:        FormatMeters(walk),
				DistanceMeters:  walk,
				Duration:        FormatMinutes(walkMinutes),
				DurationMinutes: walkMinutes,
				Start:           t.from,
				End:             boarding,
			},
			{
				Mode:            ModeBus,
				Instruction:     fmt.Sprintf("Take bus line %s towards %s", line, towards(t.destination)),
				Distance:        FormatKm(float64(ride)),
				DistanceMeters:  ride,
				Duration:        FormatMinutes(rideMinutes),
				DurationMinutes: rideMinutes,
				Start:           boarding,
				End:             alighting,
				Transit: &TransitDetails{
					Line:      line,
					Vehicle:   "Bus",
					Departure: "in 5 min",
					Arrival:   fmt.Sprintf("+%d min", rideMinutes),
					NumStops:  max(3, int(math.Floor(t.km*2))),
				},
			},
			{
				Mode:            ModeWalk,
				Instruction:     fmt.Sprintf("Walk to %s", t.destination.Name),
				Distance:        FormatMeters(walk),
				DistanceMeters:  walk,
				Duration:        FormatMinutes(walkMinutes),
				DurationMinutes: walkMinutes,
				Start:           alighting,
				End:             t.to,
			},
		},
		Rating:      4.5,
		Accessible:  walkExact < accessibleWalkM,
		Recommended: true,
		Polyline:    geo.EncodePolyline([]geo.Coordinate{t.from, boarding, alighting, t.to}),
		Source:      SourceEstimate,
	}
}

func (t trip) economic() Itinerary {
	walkExact := t.meters * economicWalkShare
	rideExact := t.meters - walkExact
	firstExact := walkExact * economicFirstWalk
	lastExact := walkExact - firstExact

	walkTotal := roundInt(walkExact)
	first := roundInt(firstExact)
	last := walkTotal - first
	ride := t.total - walkTotal

	firstMinutes := roundInt(firstExact / walkMPerMin)
	rideMinutes := roundInt(rideExact / economicMPerMin)
	lastMinutes := roundInt(lastExact / walkMPerMin)
	minutes := t.estimatedMinutes + economicExtraMinutes

	station := geo.Offset(t.from, stationOffsetFar, stationOffsetNear)
	alighting := geo.Offset(t.to, -stationOffsetNear, -stationOffsetFar)
	line := fmt.Sprintf("%d", 20+(t.line>>8)%50)

	cost := Cost(t.meters, true) * economicCostFactor
	co2 := CO2Saved(t.meters, true) * economicCO2Factor

	return Itinerary{
		ID:              "estimate-economic",
		Duration:        FormatMinutes(minutes),
		DurationMinutes: minutes,
		Distance:        FormatKm(t.meters),
		DistanceMeters:  t.total,
		Walking:         FormatKm(walkExact),
		WalkingMeters:   walkTotal,
		Cost:            FormatCost(cost),
		CostValue:       cost,
		CO2:             FormatCO2(co2),
		CO2Value:        co2,
		Steps: []Step{
			{
				Mode:            ModeWalk,
				Instruction:     fmt.Sprintf("Walk from %s to the station", t.origin.Name),
				Distance:        FormatMeters(first),
				DistanceMeters:  first,
				Duration:        FormatMinutes(firstMinutes),
				DurationMinutes: firstMinutes,
				Start:           t.from,
				End:             station,
			},
			{
				Mode:            ModeBus,
				Instruction:     fmt.Sprintf("Bus line %s (economic route)", line),
				Distance:        FormatKm(float64(ride)),
				DistanceMeters:  ride,
				Duration:        FormatMinutes(rideMinutes),
				DurationMinutes: rideMinutes,
				Start:           station,
				End:             alighting,
				Transit: &TransitDetails{
					Line:      line,
					Vehicle:   "Bus",
					Departure: "in 8 min",
					Arrival:   fmt.Sprintf("+%d min", rideMinutes),
					NumStops:  max(5, int(math.Floor(t.km*3))),
				},
			},
			{
				Mode:            ModeWalk,
				Instruction:     fmt.Sprintf("Walk to %s", t.destination.Name),
				Distance:        FormatMeters(last),
				DistanceMeters:  last,
				Duration:        FormatMinutes(lastMinutes),
				DurationMinutes: lastMinutes,
				Start:           alighting,
				End:             t.to,
			},
		},
		Rating:      4.2,
		Accessible:  false,
		Recommended: false,
		Polyline:    geo.EncodePolyline([]geo.Coordinate{t.from, station, alighting, t.to}),
		Source:      SourceEstimate,
	}
}

func (t trip) walkOnly() Itinerary {
	co2 := CO2Saved(t.meters, false)
	return Itinerary{
		ID:              "estimate-walking",
		Duration:        FormatMinutes(t.walkingMinutes),
		DurationMinutes: t.walkingMinutes,
		Distance:        FormatKm(t.meters),
		DistanceMeters:  t.total,
		Walking:         FormatKm(t.meters),
		WalkingMeters:   t.total,
		Cost:            FormatCost(0),
		CostValue:       0,
		CO2:             FormatCO2(co2),
		CO2Value:        co2,
		Steps: []Step{
			{
				Mode:            ModeWalk,
				Instruction:     fmt.Sprintf("Walk from %s to %s", t.origin.Name, t.destination.Name),
				Distance:        FormatKm(t.meters),
				DistanceMeters:  t.total,
				Duration:        FormatMinutes(t.walkingMinutes),
				DurationMinutes: t.walkingMinutes,
				Start:           t.from,
				End:             t.to,
			},
		},
		Rating:      4.0,
		Accessible:  t.meters < walkOnlyAccessibleMaxM,
		Recommended: false,
		Polyline:    geo.EncodePolyline([]geo.Coordinate{t.from, t.to}),
		Source:      SourceEstimate,
	}
}

func towards(dest location.Location) string {
	if dest.City != "" {
		return dest.City
	}
	return dest.Name
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
