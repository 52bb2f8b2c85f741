package route

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-ecoroute/internal/location"

	"github.com/gofiber/fiber/v2"
)

func newRouteApp() *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewDirections(Options{}, nil), location.NewCatalog(location.DefaultLocations))
	return app
}

func postSearch(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/routes/search", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("search request: %v", err)
	}
	return resp
}

func TestSearchByCatalogIDs(t *testing.T) {
	resp := postSearch(t, newRouteApp(), SearchRequest{OriginID: "loc-1", DestinationID: "loc-2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status: %d", resp.StatusCode)
	}
	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Origin.ID != "loc-1" || out.Destination.ID != "loc-2" {
		t.Fatalf("unexpected endpoints %s -> %s", out.Origin.ID, out.Destination.ID)
	}
	if len(out.Routes) == 0 || !out.Routes[0].Recommended {
		t.Fatalf("expected recommended first route")
	}
}

func TestSearchInlineLocation(t *testing.T) {
	resp := postSearch(t, newRouteApp(), map[string]any{
		"origin_id":   "loc-1",
		"destination": map[string]any{"address": "Avenida Central 100", "city": "San José"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status: %d", resp.StatusCode)
	}
	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Destination.Name != "Avenida Central 100" {
		t.Fatalf("expected address as name, got %q", out.Destination.Name)
	}
}

func TestSearchBadRequests(t *testing.T) {
	app := newRouteApp()
	cases := []any{
		map[string]any{"destination_id": "loc-2"},
		map[string]any{"origin_id": "loc-1", "destination_id": "missing"},
		map[string]any{"origin_id": "loc-1", "destination": map[string]any{}},
	}
	for i, body := range cases {
		if resp := postSearch(t, app, body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: expected bad request, got %d", i, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/routes/search", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for malformed body")
	}
}
