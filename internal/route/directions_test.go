package route

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/shared/geo"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const transitBody = `{
  "status": "OK",
  "routes": [
    {
      "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"},
      "legs": [{
        "distance": {"text": "4.2 km", "value": 4200},
        "duration": {"text": "21 mins", "value": 1260},
        "steps": [
          {
            "travel_mode": "WALKING",
            "html_instructions": "Walk to <b>Parada Central</b>",
            "distance": {"text": "0.3 km", "value": 300},
            "duration": {"text": "4 mins", "value": 240},
            "start_location": {"lat": 9.93, "lng": -84.08},
            "end_location": {"lat": 9.932, "lng": -84.079}
          },
          {
            "travel_mode": "TRANSIT",
            "html_instructions": "Bus towards Heredia",
            "distance": {"text": "3.6 km", "value": 3600},
            "duration": {"text": "14 mins", "value": 840},
            "start_location": {"lat": 9.932, "lng": -84.079},
            "end_location": {"lat": 9.96, "lng": -84.1},
            "transit_details": {
              "line": {"name": "San José - Heredia", "short_name": "400", "vehicle": {"name": "Bus", "type": "BUS"}},
              "departure_time": {"text": "10:05"},
              "arrival_time": {"text": "10:19"},
              "num_stops": 7
            }
          },
          {
            "travel_mode": "WALKING",
            "html_instructions": "Walk to <div style=\"x\">destination</div>",
            "distance": {"text": "0.3 km", "value": 300},
            "duration": {"text": "3 mins", "value": 180},
            "start_location": {"lat": 9.96, "lng": -84.1},
            "end_location": {"lat": 9.998, "lng": -84.117}
          }
        ]
      }]
    },
    {
      "overview_polyline": {"points": "_ulLnnqC"},
      "legs": [{
        "distance": {"text": "5.0 km", "value": 5000},
        "duration": {"text": "30 mins", "value": 1800},
        "steps": [
          {
            "travel_mode": "TRANSIT",
            "html_instructions": "Train towards Heredia",
            "distance": {"text": "5.0 km", "value": 5000},
            "duration": {"text": "30 mins", "value": 1800},
            "start_location": {"lat": 9.93, "lng": -84.08},
            "end_location": {"lat": 9.998, "lng": -84.117},
            "transit_details": {
              "line": {"name": "Tren Heredia", "vehicle": {"name": "Train", "type": "HEAVY_RAIL"}},
              "num_stops": 4
            }
          }
        ]
      }]
    }
  ]
}`

const walkingBody = `{
  "status": "OK",
  "routes": [{
    "overview_polyline": {"points": "_p~iF~ps|U"},
    "legs": [{
      "distance": {"text": "4.1 km", "value": 4100},
      "duration": {"text": "52 mins", "value": 3120},
      "steps": [{
        "travel_mode": "WALKING",
        "html_instructions": "Head <b>north</b>",
        "distance": {"text": "4.1 km", "value": 4100},
        "duration": {"text": "52 mins", "value": 3120},
        "start_location": {"lat": 9.93, "lng": -84.08},
        "end_location": {"lat": 9.998, "lng": -84.117}
      }]
    }]
  }]
}`

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	queries []string
	delay   time.Duration
	status  int
	transit string
	walking string
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, r.URL.RawQuery)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.URL.Path != directionsPath {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("mode") == "walking" {
		_, _ = w.Write([]byte(f.walking))
		return
	}
	_, _ = w.Write([]byte(f.transit))
}

type recordingObserver struct {
	mu      sync.Mutex
	sources []string
}

func (r *recordingObserver) ObserveDirections(source string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func testEndpoints() (location.Location, location.Location) {
	return location.Location{ID: "loc-1", Name: "Teatro Nacional", City: "San José", Coordinates: &geo.Coordinate{Lat: 9.9334, Lng: -84.0768}},
		location.Location{ID: "loc-9", Name: "Universidad Nacional", City: "Heredia", Coordinates: &geo.Coordinate{Lat: 9.9981, Lng: -84.1166}}
}

func newProvider(t *testing.T, f *fakeProvider) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

func TestDirectionsNormalizesProviderRoutes(t *testing.T) {
	provider := &fakeProvider{transit: transitBody, walking: walkingBody}
	srv := newProvider(t, provider)
	observer := &recordingObserver{}

	d := NewDirections(Options{APIKey: "key", BaseURL: srv.URL, Metrics: observer}, nil)
	origin, destination := testEndpoints()
	routes := d.Routes(context.Background(), origin, destination)

	if len(routes) != 3 {
		t.Fatalf("expected 2 transit + 1 walking route, got %d", len(routes))
	}
	first := routes[0]
	if first.Source != SourceProvider || !first.Recommended || first.Rating != 4.5 {
		t.Fatalf("unexpected first route: %+v", first)
	}
	if first.WalkingMeters != 600 || !first.Accessible {
		t.Fatalf("walking meters %d accessible %v", first.WalkingMeters, first.Accessible)
	}
	if first.DistanceMeters != 4200 || first.DurationMinutes != 21 {
		t.Fatalf("unexpected totals: %d m %d min", first.DistanceMeters, first.DurationMinutes)
	}
	if first.Cost != "$1.02" {
		t.Fatalf("unexpected cost %s", first.Cost)
	}
	if first.Steps[0].Instruction != "Walk to Parada Central" || first.Steps[2].Instruction != "Walk to destination" {
		t.Fatalf("html not stripped: %q / %q", first.Steps[0].Instruction, first.Steps[2].Instruction)
	}
	bus := first.Steps[1]
	if bus.Mode != ModeBus || bus.Transit == nil || bus.Transit.Line != "400" || bus.Transit.NumStops != 7 {
		t.Fatalf("unexpected bus step: %+v", bus)
	}

	second := routes[1]
	if second.Recommended || second.Rating != 4.2 || second.Steps[0].Mode != ModeTrain {
		t.Fatalf("unexpected second route: %+v", second)
	}
	if second.Steps[0].Transit.Line != "Tren Heredia" {
		t.Fatalf("expected line name fallback, got %q", second.Steps[0].Transit.Line)
	}

	walk := routes[2]
	if walk.ID != "walking" || walk.CostValue != 0 || walk.Accessible || walk.Rating != 4.0 {
		t.Fatalf("unexpected walking route: %+v", walk)
	}
	if walk.Steps[0].Instruction != "Head north" {
		t.Fatalf("unexpected walking instruction %q", walk.Steps[0].Instruction)
	}

	if len(provider.queries) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(provider.queries))
	}
	q := provider.queries[0]
	for _, want := range []string{"mode=transit", "alternatives=true", "region=cr", "transit_routing_preference=fewer_transfers", "origin=9.933400%2C-84.076800"} {
		if !strings.Contains(q, want) {
			t.Fatalf("transit query %q missing %q", q, want)
		}
	}
	if len(observer.sources) != 1 || observer.sources[0] != "provider" {
		t.Fatalf("unexpected observations %v", observer.sources)
	}
}

func TestDirectionsFallsBack(t *testing.T) {
	cases := []struct {
		name     string
		provider *fakeProvider
		timeout  time.Duration
	}{
		{"server error", &fakeProvider{status: http.StatusInternalServerError}, 0},
		{"malformed body", &fakeProvider{transit: `{"status":`, walking: walkingBody}, 0},
		{"status not ok", &fakeProvider{transit: `{"status":"REQUEST_DENIED","error_message":"bad key"}`, walking: walkingBody}, 0},
		{"no routes", &fakeProvider{transit: `{"status":"OK","routes":[]}`, walking: `{"status":"OK","routes":[]}`}, 0},
		{"timeout", &fakeProvider{transit: transitBody, walking: walkingBody, delay: 200 * time.Millisecond}, 20 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newProvider(t, tc.provider)
			observer := &recordingObserver{}
			d := NewDirections(Options{APIKey: "key", BaseURL: srv.URL, Timeout: tc.timeout, Metrics: observer}, nil)

			origin, destination := testEndpoints()
			routes := d.Routes(context.Background(), origin, destination)
			if len(routes) == 0 {
				t.Fatalf("fallback must never be empty")
			}
			for _, r := range routes {
				if r.Source != SourceEstimate {
					t.Fatalf("expected estimate source, got %s", r.Source)
				}
			}
			if observer.sources[0] != "fallback" {
				t.Fatalf("unexpected observation %v", observer.sources)
			}
		})
	}
}

func TestDirectionsWithoutKeyNeverCallsProvider(t *testing.T) {
	provider := &fakeProvider{transit: transitBody, walking: walkingBody}
	srv := newProvider(t, provider)

	d := NewDirections(Options{BaseURL: srv.URL}, nil)
	if d.Configured() {
		t.Fatalf("expected unconfigured adapter")
	}
	origin, destination := testEndpoints()
	routes := d.Routes(context.Background(), origin, destination)
	if len(routes) == 0 || routes[0].ID != "estimate-transit" {
		t.Fatalf("expected estimator routes")
	}
	if provider.calls != 0 {
		t.Fatalf("provider called %d times", provider.calls)
	}
}

func TestDirectionsCachesLiveResults(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	provider := &fakeProvider{transit: transitBody, walking: walkingBody}
	srv := newProvider(t, provider)
	observer := &recordingObserver{}
	d := NewDirections(Options{
		APIKey:   "key",
		BaseURL:  srv.URL,
		Cache:    NewRedisCache(rdb),
		CacheTTL: time.Minute,
		Metrics:  observer,
	}, nil)

	origin, destination := testEndpoints()
	first := d.Routes(context.Background(), origin, destination)
	second := d.Routes(context.Background(), origin, destination)

	if provider.calls != 2 {
		t.Fatalf("expected one provider round trip (2 calls), got %d", provider.calls)
	}
	if len(first) != len(second) || second[0].Steps[1].Transit.Line != "400" {
		t.Fatalf("cached routes differ")
	}
	if observer.sources[1] != "cache" {
		t.Fatalf("expected cache hit, got %v", observer.sources)
	}

	key := cacheKey(origin, destination)
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestDirectionsDoesNotCacheFallback(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	srv := newProvider(t, &fakeProvider{status: http.StatusBadGateway})
	d := NewDirections(Options{APIKey: "key", BaseURL: srv.URL, Cache: NewRedisCache(rdb)}, nil)

	origin, destination := testEndpoints()
	d.Routes(context.Background(), origin, destination)

	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("fallback results cached: %v", keys)
	}
}

func TestMapVehicleType(t *testing.T) {
	cases := map[string]Mode{
		"BUS":            ModeBus,
		"INTERCITY_BUS":  ModeBus,
		"SUBWAY":         ModeMetro,
		"METRO_RAIL":     ModeMetro,
		"HEAVY_RAIL":     ModeTrain,
		"COMMUTER_TRAIN": ModeTrain,
		"FERRY":          ModeTransit,
		"":               ModeWalk,
	}
	for in, want := range cases {
		if got := MapVehicleType(in); got != want {
			t.Fatalf("MapVehicleType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEndpointFallsBackToAddress(t *testing.T) {
	loc := location.Location{Name: "Mall", Address: "Calle 5", City: "Escazú"}
	if got := endpoint(loc); got != "Calle 5, Escazú" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if got := endpoint(location.Location{Name: "Only name"}); got != "Only name" {
		t.Fatalf("unexpected endpoint %q", got)
	}
}
