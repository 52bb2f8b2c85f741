package trip

import (
	"errors"
	"time"

	"backend-ecoroute/internal/progress"
)

var (
	ErrNotFound      = errors.New("trip not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

const (
	defaultHistoryLimit = 50
	defaultRecentLimit  = 10
	maxLimit            = 200
)

// Trip is a persisted trip as stored in the trips table.
type Trip struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	Origin          string             `json:"origin"`
	Destination     string             `json:"destination"`
	OriginLat       *float64           `json:"origin_lat,omitempty"`
	OriginLng       *float64           `json:"origin_lng,omitempty"`
	DestinationLat  *float64           `json:"destination_lat,omitempty"`
	DestinationLng  *float64           `json:"destination_lng,omitempty"`
	Status          string             `json:"status"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
	DurationMinutes int                `json:"duration_minutes"`
	DistanceKm      float64            `json:"distance_km"`
	Cost            float64            `json:"cost"`
	CO2Saved        float64            `json:"co2_saved"`
	Rating          *int               `json:"rating,omitempty"`
	RouteData       progress.RouteData `json:"route_data"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Filter narrows History. Zero values mean no constraint.
type Filter struct {
	Status string
	Mode   string
	Limit  int
}

type Stats struct {
	TotalTrips       int     `json:"total_trips"`
	TotalTimeMinutes int     `json:"total_time_minutes"`
	TotalTime        string  `json:"total_time"`
	TotalCO2Saved    float64 `json:"total_co2_saved"`
	TotalMoney       float64 `json:"total_money"`
}
