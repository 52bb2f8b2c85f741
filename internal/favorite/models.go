package favorite

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("favorite not found")
	ErrNameRequired = errors.New("name required")
)

type LocationType string

const (
	LocationHome  LocationType = "home"
	LocationWork  LocationType = "work"
	LocationOther LocationType = "other"
)

// ParseLocationType maps an empty value to other.
func ParseLocationType(s string) (LocationType, error) {
	switch v := LocationType(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return LocationOther, nil
	case LocationHome, LocationWork, LocationOther:
		return v, nil
	}
	return "", &typeError{value: s}
}

type typeError struct{ value string }

func (e *typeError) Error() string {
	return fmt.Sprintf("unknown favorite location type %q", e.value)
}

type Location struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	Type      LocationType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Route struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	Name                 string          `json:"name"`
	Origin               string          `json:"origin"`
	Destination          string          `json:"destination"`
	EstimatedTimeMinutes *int            `json:"estimated_time_minutes,omitempty"`
	NextDepartureInfo    string          `json:"next_departure_info,omitempty"`
	RouteData            json.RawMessage `json:"route_data,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
