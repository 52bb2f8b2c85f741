package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/shared/geo"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"
	DefaultRegion  = "cr"
	DefaultTimeout = 5 * time.Second

	directionsPath = "/maps/api/directions/json"
	transitModes   = "bus|rail|subway|train"
)

// ErrProviderUnavailable covers every way the live provider can fail. It is
// never returned from Routes; the estimator answers instead.
var ErrProviderUnavailable = errors.New("directions provider unavailable")

// Observer receives one observation per Routes call.
type Observer interface {
	ObserveDirections(source string, elapsed time.Duration)
}

type Options struct {
	APIKey     string
	BaseURL    string
	Region     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      Cache
	CacheTTL   time.Duration
	Metrics    Observer
}

// Directions plans itineraries with the live provider when configured and
// falls back to the Estimator otherwise.
type Directions struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	region    string
	timeout   time.Duration
	cache     Cache
	cacheTTL  time.Duration
	metrics   Observer
	estimator *Estimator
}

func NewDirections(opts Options, estimator *Estimator) *Directions {
	if estimator == nil {
		estimator = NewEstimator()
	}
	d := &Directions{
		client:    opts.HTTPClient,
		apiKey:    strings.TrimSpace(opts.APIKey),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		region:    opts.Region,
		timeout:   opts.Timeout,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		metrics:   opts.Metrics,
		estimator: estimator,
	}
	if d.client == nil {
		d.client = &http.Client{}
	}
	if d.baseURL == "" {
		d.baseURL = DefaultBaseURL
	}
	if d.region == "" {
		d.region = DefaultRegion
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	return d
}

// Configured reports whether a provider key is set.
func (d *Directions) Configured() bool {
	return d.apiKey != ""
}

// Routes never fails: provider errors are logged and answered by the estimator.
func (d *Directions) Routes(ctx context.Context, origin, destination location.Location) []Itinerary {
	start := time.Now()
	key := cacheKey(origin, destination)

	if d.Configured() && d.cache != nil {
		if cached, ok := d.cache.Get(ctx, key); ok && len(cached) > 0 {
			d.observe("cache", start)
			return cached
		}
	}

	itineraries, err := d.live(ctx, origin, destination)
	if err != nil {
		if d.Configured() {
			log.Printf("directions: using estimate for %q -> %q: %v", origin.Name, destination.Name, err)
		}
		d.observe("fallback", start)
		return d.estimator.Estimate(origin, destination)
	}

	if d.cache != nil {
		d.cache.Set(ctx, key, itineraries, d.cacheTTL)
	}
	d.observe("provider", start)
	return itineraries
}

func (d *Directions) live(ctx context.Context, origin, destination location.Location) ([]Itinerary, error) {
	if !d.Configured() {
		return nil, fmt.Errorf("%w: no api key", ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	transit, err := d.request(ctx, origin, destination, url.Values{
		"mode":                       {"transit"},
		"transit_mode":               {transitModes},
		"transit_routing_preference": {"fewer_transfers"},
		"alternatives":               {"true"},
		"region":                     {d.region},
	})
	if err != nil {
		return nil, err
	}
	walking, err := d.request(ctx, origin, destination, url.Values{"mode": {"walking"}})
	if err != nil {
		return nil, err
	}

	itineraries := normalizeTransit(transit)
	if w, ok := normalizeWalking(walking); ok {
		itineraries = append(itineraries, w)
	}
	if len(itineraries) == 0 {
		return nil, fmt.Errorf("%w: no usable routes", ErrProviderUnavailable)
	}
	return itineraries, nil
}

func (d *Directions) request(ctx context.Context, origin, destination location.Location, params url.Values) (*directionsResponse, error) {
	params.Set("origin", endpoint(origin))
	params.Set("destination", endpoint(destination))
	params.Set("key", d.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+directionsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrProviderUnavailable, resp.StatusCode)
	}
	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProviderUnavailable, err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("%w: status %s %s", ErrProviderUnavailable, body.Status, body.ErrorMessage)
	}
	return &body, nil
}

func (d *Directions) observe(source string, start time.Time) {
	if d.metrics != nil {
		d.metrics.ObserveDirections(source, time.Since(start))
	}
}

// endpoint prefers coordinates and falls back to the free-text address.
func endpoint(loc location.Location) string {
	if loc.Coordinates != nil {
		return fmt.Sprintf("%.6f,%.6f", loc.Coordinates.Lat, loc.Coordinates.Lng)
	}
	if loc.Address != "" {
		return strings.TrimSpace(loc.Address + ", " + loc.City)
	}
	return loc.Name
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

func normalizeTransit(resp *directionsResponse) []Itinerary {
	itineraries := []Itinerary{}
	for index, r := range resp.Routes {
		if len(r.Legs) == 0 {
			continue
		}
		leg := r.Legs[0]

		walkingMeters := 0
		hasTransit := false
		steps := make([]Step, 0, len(leg.Steps))
		for _, ps := range leg.Steps {
			step := convertStep(ps)
			if ps.TravelMode == "WALKING" {
				walkingMeters += step.DistanceMeters
			} else {
				hasTransit = true
			}
			steps = append(steps, step)
		}

		meters := leg.Distance.Value
		cost := Cost(meters, hasTransit)
		co2 := CO2Saved(meters, hasTransit)

		itineraries = append(itineraries, Itinerary{
			ID:              fmt.Sprintf("transit-%d", index),
			Duration:        leg.Duration.Text,
			DurationMinutes: roundInt(leg.Duration.Value / 60),
			Distance:        leg.Distance.Text,
			DistanceMeters:  roundInt(meters),
			Walking:         FormatKm(float64(walkingMeters)),
			WalkingMeters:   walkingMeters,
			Cost:            FormatCost(cost),
			CostValue:       cost,
			CO2:             FormatCO2(co2),
			CO2Value:        co2,
			Steps:           steps,
			Rating:          4.5 - float64(index)*0.3,
			Accessible:      walkingMeters < 1000,
			Recommended:     index == 0,
			Polyline:        r.OverviewPolyline.Points,
			Source:          SourceProvider,
		})
	}
	return itineraries
}

func normalizeWalking(resp *directionsResponse) (Itinerary, bool) {
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return Itinerary{}, false
	}
	r := resp.Routes[0]
	leg := r.Legs[0]

	steps := make([]Step, 0, len(leg.Steps))
	for _, ps := range leg.Steps {
		step := convertStep(ps)
		step.Mode = ModeWalk
		step.Transit = nil
		steps = append(steps, step)
	}

	meters := leg.Distance.Value
	co2 := CO2Saved(meters, false)
	return Itinerary{
		ID:              "walking",
		Duration:        leg.Duration.Text,
		DurationMinutes: roundInt(leg.Duration.Value / 60),
		Distance:        leg.Distance.Text,
		DistanceMeters:  roundInt(meters),
		Walking:         leg.Distance.Text,
		WalkingMeters:   roundInt(meters),
		Cost:            FormatCost(0),
		CostValue:       0,
		CO2:             FormatCO2(co2),
		CO2Value:        co2,
		Steps:           steps,
		Rating:          4.0,
		Accessible:      meters < walkOnlyAccessibleMaxM,
		Recommended:     false,
		Polyline:        r.OverviewPolyline.Points,
		Source:          SourceProvider,
	}, true
}

func convertStep(ps providerStep) Step {
	step := Step{
		Mode:            ModeWalk,
		Instruction:     strings.TrimSpace(htmlTags.ReplaceAllString(ps.HTMLInstructions, "")),
		Distance:        ps.Distance.Text,
		DistanceMeters:  roundInt(ps.Distance.Value),
		Duration:        ps.Duration.Text,
		DurationMinutes: roundInt(ps.Duration.Value / 60),
		Start:           geo.Coordinate{Lat: ps.StartLocation.Lat, Lng: ps.StartLocation.Lng},
		End:             geo.Coordinate{Lat: ps.EndLocation.Lat, Lng: ps.EndLocation.Lng},
	}
	if ps.TravelMode != "WALKING" && ps.TransitDetails != nil {
		step.Mode = MapVehicleType(ps.TransitDetails.Line.Vehicle.Type)
	}
	if td := ps.TransitDetails; td != nil {
		line := td.Line.ShortName
		if line == "" {
			line = td.Line.Name
		}
		step.Transit = &TransitDetails{
			Line:      line,
			Vehicle:   td.Line.Vehicle.Name,
			Departure: td.DepartureTime.Text,
			Arrival:   td.ArrivalTime.Text,
			NumStops:  td.NumStops,
		}
	}
	return step
}

// MapVehicleType maps a provider vehicle type onto Mode. Unknown vehicles
// are generic transit; an empty type is a walk.
func MapVehicleType(vehicleType string) Mode {
	if vehicleType == "" {
		return ModeWalk
	}
	t := strings.ToLower(vehicleType)
	switch {
	case strings.Contains(t, "bus"):
		return ModeBus
	case strings.Contains(t, "metro"), strings.Contains(t, "subway"):
		return ModeMetro
	case strings.Contains(t, "train"), strings.Contains(t, "rail"):
		return ModeTrain
	case strings.Contains(t, "walk"):
		return ModeWalk
	}
	return ModeTransit
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type providerStep struct {
	TravelMode       string                  `json:"travel_mode"`
	HTMLInstructions string                  `json:"html_instructions"`
	Distance         textValue               `json:"distance"`
	Duration         textValue               `json:"duration"`
	StartLocation    latLng                  `json:"start_location"`
	EndLocation      latLng                  `json:"end_location"`
	TransitDetails   *providerTransitDetails `json:"transit_details"`
}

type providerTransitDetails struct {
	Line struct {
		Name      string `json:"name"`
		ShortName string `json:"short_name"`
		Vehicle   struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"vehicle"`
	} `json:"line"`
	DepartureTime struct {
		Text string `json:"text"`
	} `json:"departure_time"`
	ArrivalTime struct {
		Text string `json:"text"`
	} `json:"arrival_time"`
	NumStops int `json:"num_stops"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance textValue      `json:"distance"`
			Duration textValue      `json:"duration"`
			Steps    []providerStep `json:"steps"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}
