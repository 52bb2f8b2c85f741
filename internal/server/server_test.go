package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend-ecoroute/internal/auth"
	"backend-ecoroute/internal/config"
	"backend-ecoroute/internal/navigation"
	"backend-ecoroute/internal/progress"
	"backend-ecoroute/internal/publisher"
	"backend-ecoroute/internal/route"

	"github.com/golang-jwt/jwt/v5"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0", TickInterval: time.Hour}, nil, nil)
	t.Cleanup(s.Close)
	return s
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func doJSON(t *testing.T, s *Server, method, path, authz string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("metrics status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ecoroute_active_trips") {
		t.Fatalf("expected ecoroute metrics in output")
	}
}

func TestSearchThenNavigate(t *testing.T) {
	s := newTestServer(t)
	if s.Directions.Configured() {
		t.Fatalf("directions should not be configured without an api key")
	}

	var search route.SearchResponse
	status := doJSON(t, s, http.MethodPost, "/routes/search", "", route.SearchRequest{OriginID: "loc-1", DestinationID: "loc-3"}, &search)
	if status != http.StatusOK || len(search.Routes) == 0 {
		t.Fatalf("search status %d, %d routes", status, len(search.Routes))
	}
	if search.Routes[0].Source != route.SourceEstimate {
		t.Fatalf("expected estimated routes, got %s", search.Routes[0].Source)
	}

	status = doJSON(t, s, http.MethodPost, "/navigation/trips", "", navigation.StartRequest{OriginID: "loc-1", DestinationID: "loc-3", Route: search.Routes[0]}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	authz := bearer(t, "user-1")
	var trip progress.ActiveTrip
	status = doJSON(t, s, http.MethodPost, "/navigation/trips", authz, navigation.StartRequest{OriginID: "loc-1", DestinationID: "loc-3", Route: search.Routes[0]}, &trip)
	if status != http.StatusCreated {
		t.Fatalf("start status: %d", status)
	}

	var res navigation.Result
	status = doJSON(t, s, http.MethodPost, "/navigation/trips/"+trip.ID+"/skip", authz, nil, &res)
	if status != http.StatusOK {
		t.Fatalf("skip status: %d", status)
	}
	if res.Trip.Status != progress.StatusCompleted || res.Warning != "" {
		t.Fatalf("unexpected skip result: %+v", res)
	}
}

func TestNATSConnectFailureIsTolerated(t *testing.T) {
	old := connectNATS
	connectNATS = func(string, bool, publisher.PublisherMetrics) (*publisher.NATSPublisher, error) {
		return nil, errors.New("no servers available")
	}
	defer func() { connectNATS = old }()

	s := NewServer(config.Config{JWTSecret: "secret", NATSURL: "nats://127.0.0.1:1"}, nil, nil)
	defer s.Close()
	if s.Events != nil {
		t.Fatalf("expected events disabled")
	}
}
