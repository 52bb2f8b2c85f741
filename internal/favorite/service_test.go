package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

var (
	locationRowColumns = []string{"id", "user_id", "name", "address", "latitude", "longitude", "type", "created_at", "updated_at"}
	routeRowColumns    = []string{"id", "user_id", "name", "origin", "destination", "estimated_time_minutes", "next_departure_info", "route_data", "created_at", "updated_at"}
)

func ptr[T any](v T) *T { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestFavoriteLocationCRUD(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO favorite_locations`).
		WithArgs(pgxmock.AnyArg(), "user-1", "Casa", "Barrio Escalante", ptr(9.935), ptr(-84.06), "home").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	loc, err := svc.CreateLocation(context.Background(), "user-1", Location{
		Name:      "Casa",
		Address:   "Barrio Escalante",
		Latitude:  ptr(9.935),
		Longitude: ptr(-84.06),
		Type:      "Home",
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if loc.ID == "" || loc.Type != LocationHome || loc.UserID != "user-1" {
		t.Fatalf("unexpected location: %+v", loc)
	}

	mock.ExpectQuery(`SELECT id, user_id, name, COALESCE\(address,''\)`).
		WithArgs(loc.ID, "user-1").
		WillReturnRows(pgxmock.NewRows(locationRowColumns).
			AddRow(loc.ID, "user-1", "Casa", "Barrio Escalante", ptr(9.935), ptr(-84.06), "home", now, now))
	mock.ExpectQuery(`UPDATE favorite_locations`).
		WithArgs(loc.ID, "user-1", "Casa nueva", "Barrio Escalante", pgxmock.AnyArg(), pgxmock.AnyArg(), "home").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now.Add(time.Minute)))

	updated, err := svc.UpdateLocation(context.Background(), "user-1", loc.ID, Location{Name: "Casa nueva"})
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if updated.Name != "Casa nueva" || updated.Address != "Barrio Escalante" || *updated.Latitude != 9.935 {
		t.Fatalf("patch not applied: %+v", updated)
	}

	mock.ExpectQuery(`SELECT id, user_id, name, COALESCE\(address,''\)`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(locationRowColumns).
			AddRow(loc.ID, "user-1", "Casa nueva", "Barrio Escalante", ptr(9.935), ptr(-84.06), "home", now, now).
			AddRow("loc-b", "user-1", "Oficina", "", (*float64)(nil), (*float64)(nil), "work", now, now))

	list, err := svc.Locations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list locations: %v", err)
	}
	if len(list) != 2 || list[1].Type != LocationWork || list[1].Latitude != nil {
		t.Fatalf("unexpected locations: %+v", list)
	}

	mock.ExpectExec(`DELETE FROM favorite_locations`).
		WithArgs(loc.ID, "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.DeleteLocation(context.Background(), "user-1", loc.ID); err != nil {
		t.Fatalf("delete location: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFavoriteLocationValidation(t *testing.T) {
	svc := NewService(newMock(t))

	if _, err := svc.CreateLocation(context.Background(), "user-1", Location{Name: " "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateLocation(context.Background(), "user-1", Location{Name: "Gym", Type: "gym"}); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestFavoriteLocationNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`SELECT id, user_id, name`).
		WithArgs("missing", "user-1").
		WillReturnError(pgx.ErrNoRows)
	if _, err := svc.UpdateLocation(context.Background(), "user-1", "missing", Location{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(`DELETE FROM favorite_locations`).
		WithArgs("missing", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := svc.DeleteLocation(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFavoriteRouteCRUD(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)
	now := time.Now()
	data := json.RawMessage(`{"itinerary_id":"estimate-transit"}`)

	mock.ExpectQuery(`INSERT INTO favorite_routes`).
		WithArgs(pgxmock.AnyArg(), "user-1", "Al trabajo", "Parque Central", "Teatro Nacional", ptr(9), "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	r, err := svc.CreateRoute(context.Background(), "user-1", Route{
		Name:                 "Al trabajo",
		Origin:               "Parque Central",
		Destination:          "Teatro Nacional",
		EstimatedTimeMinutes: ptr(9),
		RouteData:            data,
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	mock.ExpectQuery(`SELECT id, user_id, name, origin, destination`).
		WithArgs(r.ID, "user-1").
		WillReturnRows(pgxmock.NewRows(routeRowColumns).
			AddRow(r.ID, "user-1", "Al trabajo", "Parque Central", "Teatro Nacional", ptr(9), "", []byte(data), now, now))
	mock.ExpectQuery(`UPDATE favorite_routes`).
		WithArgs(r.ID, "user-1", "Al trabajo", "Parque Central", "Teatro Nacional", ptr(9), "Bus 12 in 4 min", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	updated, err := svc.UpdateRoute(context.Background(), "user-1", r.ID, Route{NextDepartureInfo: "Bus 12 in 4 min"})
	if err != nil {
		t.Fatalf("update route: %v", err)
	}
	if updated.NextDepartureInfo != "Bus 12 in 4 min" || string(updated.RouteData) != string(data) {
		t.Fatalf("unexpected route: %+v", updated)
	}

	mock.ExpectQuery(`SELECT id, user_id, name, origin, destination`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(routeRowColumns).
			AddRow(r.ID, "user-1", "Al trabajo", "Parque Central", "Teatro Nacional", (*int)(nil), "", []byte(nil), now, now))
	routes, err := svc.Routes(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 1 || routes[0].RouteData != nil || routes[0].EstimatedTimeMinutes != nil {
		t.Fatalf("unexpected routes: %+v", routes)
	}

	mock.ExpectExec(`DELETE FROM favorite_routes`).
		WithArgs(r.ID, "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.DeleteRoute(context.Background(), "user-1", r.ID); err != nil {
		t.Fatalf("delete route: %v", err)
	}

	if _, err := svc.CreateRoute(context.Background(), "user-1", Route{}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}
