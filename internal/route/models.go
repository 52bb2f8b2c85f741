package route

import (
	"fmt"
	"strings"

	"backend-ecoroute/internal/shared/geo"
)

// Mode is the closed set of transport modes a step can use.
type Mode string

const (
	ModeWalk    Mode = "walk"
	ModeBus     Mode = "bus"
	ModeMetro   Mode = "metro"
	ModeTrain   Mode = "train"
	ModeBike    Mode = "bike"
	ModeTransit Mode = "transit"
)

var modes = []Mode{ModeWalk, ModeBus, ModeMetro, ModeTrain, ModeBike, ModeTransit}

func ParseMode(s string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range modes {
		if string(m) == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

// IsTransit reports whether m is scheduled public transport.
func (m Mode) IsTransit() bool {
	switch m {
	case ModeBus, ModeMetro, ModeTrain, ModeTransit:
		return true
	}
	return false
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, err := ParseMode(string(m)); err != nil {
		return nil, err
	}
	return []byte(m), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type TransitDetails struct {
	Line      string `json:"line"`
	Vehicle   string `json:"vehicle"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	NumStops  int    `json:"num_stops"`
}

type Step struct {
	Mode            Mode            `json:"type"`
	Instruction     string          `json:"instruction"`
	Distance        string          `json:"distance"`
	DistanceMeters  int             `json:"distance_m"`
	Duration        string          `json:"duration"`
	DurationMinutes int             `json:"duration_minutes"`
	Start           geo.Coordinate  `json:"start_location"`
	End             geo.Coordinate  `json:"end_location"`
	Transit         *TransitDetails `json:"transit_details,omitempty"`
}

// Source records where an itinerary came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceEstimate Source = "estimate"
)

// Itinerary is one candidate plan. Steps are in travel order and are never
// reordered; at most one itinerary per result batch is Recommended.
type Itinerary struct {
	ID              string  `json:"id"`
	Duration        string  `json:"duration"`
	DurationMinutes int     `json:"duration_minutes"`
	Distance        string  `json:"distance"`
	DistanceMeters  int     `json:"distance_m"`
	Walking         string  `json:"walking"`
	WalkingMeters   int     `json:"walking_m"`
	Cost            string  `json:"cost"`
	CostValue       float64 `json:"cost_value"`
	CO2             string  `json:"co2"`
	CO2Value        float64 `json:"co2_value"`
	Steps           []Step  `json:"steps"`
	Rating          float64 `json:"rating"`
	Accessible      bool    `json:"accessibility"`
	Recommended     bool    `json:"recommended"`
	Polyline        string  `json:"polyline,omitempty"`
	Source          Source  `json:"source"`
}

// Modes returns the distinct step modes in travel order.
func (it Itinerary) Modes() []Mode {
	seen := map[Mode]bool{}
	out := []Mode{}
	for _, s := range it.Steps {
		if !seen[s.Mode] {
			seen[s.Mode] = true
			out = append(out, s.Mode)
		}
	}
	return out
}

// UsesTransit reports whether any step is a transit leg.
func (it Itinerary) UsesTransit() bool {
	for _, s := range it.Steps {
		if s.Mode.IsTransit() {
			return true
		}
	}
	return false
}
