package progress

import "backend-ecoroute/internal/route"

func (t *Tracker) record(id Identity, rating int) Record {
	it := t.trip.Itinerary
	if rating < minRating || rating > maxRating {
		rating = DefaultRating
	}

	rec := Record{
		ID:              t.trip.ID,
		UserID:          id.UserID,
		Origin:          t.trip.Origin,
		Destination:     t.trip.Destination,
		Status:          StatusCompleted,
		StartTime:       t.trip.StartedAt,
		DurationMinutes: (t.trip.ElapsedSeconds + 59) / 60,
		DistanceKm:      parsed(route.ParseKm, it.Distance, float64(it.DistanceMeters)/1000),
		Cost:            parsed(route.ParseCost, it.Cost, it.CostValue),
		CO2Saved:        parsed(route.ParseCO2, it.CO2, it.CO2Value),
		Rating:          rating,
		RouteData: RouteData{
			ItineraryID: it.ID,
			Steps:       it.Steps,
			Modes:       it.Modes(),
		},
	}
	if t.trip.EndedAt != nil {
		rec.EndTime = *t.trip.EndedAt
	}
	if t.trip.OriginLocation != nil {
		rec.OriginCoordinates = t.trip.OriginLocation.Coordinates
	}
	if t.trip.DestinationLocation != nil {
		rec.DestinationCoordinates = t.trip.DestinationLocation.Coordinates
	}
	return rec
}

// parsed reads a display figure back into a number, using fallback when the
// display string is empty or unreadable.
func parsed(parse func(string) (float64, error), display string, fallback float64) float64 {
	if display == "" {
		return fallback
	}
	v, err := parse(display)
	if err != nil {
		return fallback
	}
	return v
}
