package navigation

import (
	"errors"

	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/progress"
	"backend-ecoroute/internal/route"
)

var (
	ErrNotFound      = errors.New("active trip not found")
	ErrAlreadyActive = errors.New("user already has an active trip")
)

type StartRequest struct {
	OriginID      string             `json:"origin_id"`
	DestinationID string             `json:"destination_id"`
	Origin        *location.Location `json:"origin"`
	Destination   *location.Location `json:"destination"`
	Route         route.Itinerary    `json:"route"`
}

type CompleteRequest struct {
	Rating int `json:"rating"`
}

// Result is returned by the completing operations. Warning is set when the
// trip finished but its record could not be stored.
type Result struct {
	Trip    progress.ActiveTrip `json:"trip"`
	Record  *progress.Record    `json:"record,omitempty"`
	Warning string              `json:"warning,omitempty"`
}
