package trip

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestTripHandlersHistoryStatsGet(t *testing.T) {
	mock := newMock(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/trips"), NewService(mock), asUser("user-1"))

	mock.ExpectQuery(`FROM trips WHERE user_id=\$1 AND status=\$2`).
		WithArgs("user-1", "completed", 20).
		WillReturnRows(tripRow(t, pgxmock.NewRows(tripRowColumns), "trip-1"))
	req := httptest.NewRequest(http.MethodGet, "/trips/?status=completed&limit=20", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("history status: %v", err)
	}
	var trips []Trip
	if err := json.NewDecoder(resp.Body).Decode(&trips); err != nil || len(trips) != 1 {
		t.Fatalf("decode history: %v", err)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "minutes", "co2", "cost"}).AddRow(1, 18, 0.2, 0.9))
	req = httptest.NewRequest(http.MethodGet, "/trips/stats", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status: %v", err)
	}
	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil || stats.TotalTime != "0h 18m" {
		t.Fatalf("decode stats: %v %+v", err, stats)
	}

	mock.ExpectQuery(`status=\$2`).
		WithArgs("user-1", "completed", 3).
		WillReturnRows(pgxmock.NewRows(tripRowColumns))
	req = httptest.NewRequest(http.MethodGet, "/trips/recent?limit=3", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("recent status: %v", err)
	}

	mock.ExpectQuery(`FROM trips WHERE id=\$1 AND user_id=\$2`).
		WithArgs("trip-1", "user-1").
		WillReturnRows(tripRow(t, pgxmock.NewRows(tripRowColumns), "trip-1"))
	req = httptest.NewRequest(http.MethodGet, "/trips/trip-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripHandlersRatingDelete(t *testing.T) {
	mock := newMock(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/trips"), NewService(mock), asUser("user-1"))

	mock.ExpectExec(`UPDATE trips SET rating`).
		WithArgs("trip-1", "user-1", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	body, _ := json.Marshal(map[string]int{"rating": 4})
	req := httptest.NewRequest(http.MethodPut, "/trips/trip-1/rating", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("rating status: %v", err)
	}

	body, _ = json.Marshal(map[string]int{"rating": 0})
	req = httptest.NewRequest(http.MethodPut, "/trips/trip-1/rating", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for rating 0")
	}

	mock.ExpectExec(`DELETE FROM trips`).
		WithArgs("trip-9", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	req = httptest.NewRequest(http.MethodDelete, "/trips/trip-9", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}

	mock.ExpectExec(`DELETE FROM trips`).
		WithArgs("trip-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	req = httptest.NewRequest(http.MethodDelete, "/trips/trip-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v", err)
	}
}
