package progress

import (
	"time"

	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/route"
	"backend-ecoroute/internal/shared/geo"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Identity is the authenticated caller at commit time. The zero value is an
// anonymous session.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// ActiveTrip is a point-in-time view of a tracked trip.
type ActiveTrip struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	Origin               string             `json:"origin"`
	Destination          string             `json:"destination"`
	OriginLocation       *location.Location `json:"origin_location,omitempty"`
	DestinationLocation  *location.Location `json:"destination_location,omitempty"`
	Itinerary            route.Itinerary    `json:"route"`
	StartedAt            time.Time          `json:"started_at"`
	EndedAt              *time.Time         `json:"ended_at,omitempty"`
	Status               Status             `json:"status"`
	Paused               bool               `json:"paused"`
	ElapsedSeconds       int                `json:"elapsed_seconds"`
	TimeRemainingSeconds int                `json:"time_remaining_seconds"`
	TotalSeconds         int                `json:"total_seconds"`
	CurrentStep          int                `json:"current_step"`
	ProgressPercent      float64            `json:"progress_percent"`
}

// RouteData is the step blob stored with a persisted trip.
type RouteData struct {
	ItineraryID string       `json:"itinerary_id"`
	Steps       []route.Step `json:"steps"`
	Modes       []route.Mode `json:"modes"`
}

// Record is the persisted shape of a finished trip.
type Record struct {
	ID                     string          `json:"id"`
	UserID                 string          `json:"user_id"`
	Origin                 string          `json:"origin"`
	Destination            string          `json:"destination"`
	OriginCoordinates      *geo.Coordinate `json:"origin_coordinates,omitempty"`
	DestinationCoordinates *geo.Coordinate `json:"destination_coordinates,omitempty"`
	Status                 Status          `json:"status"`
	StartTime              time.Time       `json:"start_time"`
	EndTime                time.Time       `json:"end_time"`
	DurationMinutes        int             `json:"duration_minutes"`
	DistanceKm             float64         `json:"distance_km"`
	Cost                   float64         `json:"cost"`
	CO2Saved               float64         `json:"co2_saved"`
	Rating                 int             `json:"rating"`
	RouteData              RouteData       `json:"route_data"`
}
