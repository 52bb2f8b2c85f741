package favorite

import (
	"context"
	"errors"
	"strings"

	"backend-ecoroute/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	locationColumns = `id, user_id, name, COALESCE(address,''), latitude, longitude, type, created_at, updated_at`
	routeColumns    = `id, user_id, name, origin, destination, estimated_time_minutes, COALESCE(next_departure_info,''), route_data, created_at, updated_at`
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Locations(ctx context.Context, userID string) ([]Location, error) {
	rows, err := s.db.Query(ctx, `SELECT `+locationColumns+` FROM favorite_locations WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (s *Service) GetLocation(ctx context.Context, userID, id string) (Location, error) {
	row := s.db.QueryRow(ctx, `SELECT `+locationColumns+` FROM favorite_locations WHERE id=$1 AND user_id=$2`, id, userID)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	return loc, err
}

func (s *Service) CreateLocation(ctx context.Context, userID string, input Location) (Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Location{}, ErrNameRequired
	}
	typ, err := ParseLocationType(string(input.Type))
	if err != nil {
		return Location{}, err
	}
	input.ID = uuid.NewString()
	input.UserID = userID
	input.Type = typ

	row := s.db.QueryRow(ctx, `
		INSERT INTO favorite_locations (id, user_id, name, address, latitude, longitude, type)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, input.ID, input.UserID, input.Name, input.Address, input.Latitude, input.Longitude, string(input.Type))
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Location{}, err
	}
	return input, nil
}

// UpdateLocation applies the non-empty fields of patch.
func (s *Service) UpdateLocation(ctx context.Context, userID, id string, patch Location) (Location, error) {
	loc, err := s.GetLocation(ctx, userID, id)
	if err != nil {
		return Location{}, err
	}
	if patch.Name != "" {
		loc.Name = patch.Name
	}
	if patch.Address != "" {
		loc.Address = patch.Address
	}
	if patch.Latitude != nil {
		loc.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		loc.Longitude = patch.Longitude
	}
	if patch.Type != "" {
		if loc.Type, err = ParseLocationType(string(patch.Type)); err != nil {
			return Location{}, err
		}
	}

	row := s.db.QueryRow(ctx, `
		UPDATE favorite_locations
		SET name=$3, address=$4, latitude=$5, longitude=$6, type=$7, updated_at=now()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at
	`, loc.ID, userID, loc.Name, loc.Address, loc.Latitude, loc.Longitude, string(loc.Type))
	if err := row.Scan(&loc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, ErrNotFound
		}
		return Location{}, err
	}
	return loc, nil
}

func (s *Service) DeleteLocation(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM favorite_locations WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Routes(ctx context.Context, userID string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `SELECT `+routeColumns+` FROM favorite_routes WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []Route{}
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

func (s *Service) GetRoute(ctx context.Context, userID, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM favorite_routes WHERE id=$1 AND user_id=$2`, id, userID)
	r, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Route{}, ErrNotFound
	}
	return r, err
}

func (s *Service) CreateRoute(ctx context.Context, userID string, input Route) (Route, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Route{}, ErrNameRequired
	}
	input.ID = uuid.NewString()
	input.UserID = userID

	row := s.db.QueryRow(ctx, `
		INSERT INTO favorite_routes (id, user_id, name, origin, destination, estimated_time_minutes, next_departure_info, route_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, input.ID, input.UserID, input.Name, input.Origin, input.Destination,
		input.EstimatedTimeMinutes, input.NextDepartureInfo, rawJSON(input.RouteData))
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Route{}, err
	}
	return input, nil
}

func (s *Service) UpdateRoute(ctx context.Context, userID, id string, patch Route) (Route, error) {
	r, err := s.GetRoute(ctx, userID, id)
	if err != nil {
		return Route{}, err
	}
	if patch.Name != "" {
		r.Name = patch.Name
	}
	if patch.Origin != "" {
		r.Origin = patch.Origin
	}
	if patch.Destination != "" {
		r.Destination = patch.Destination
	}
	if patch.EstimatedTimeMinutes != nil {
		r.EstimatedTimeMinutes = patch.EstimatedTimeMinutes
	}
	if patch.NextDepartureInfo != "" {
		r.NextDepartureInfo = patch.NextDepartureInfo
	}
	if len(patch.RouteData) > 0 {
		r.RouteData = patch.RouteData
	}

	row := s.db.QueryRow(ctx, `
		UPDATE favorite_routes
		SET name=$3, origin=$4, destination=$5, estimated_time_minutes=$6, next_departure_info=$7, route_data=$8, updated_at=now()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at
	`, r.ID, userID, r.Name, r.Origin, r.Destination, r.EstimatedTimeMinutes, r.NextDepartureInfo, rawJSON(r.RouteData))
	if err := row.Scan(&r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Route{}, ErrNotFound
		}
		return Route{}, err
	}
	return r, nil
}

func (s *Service) DeleteRoute(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM favorite_routes WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLocation(row pgx.Row) (Location, error) {
	var loc Location
	var typ string
	err := row.Scan(&loc.ID, &loc.UserID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude, &typ, &loc.CreatedAt, &loc.UpdatedAt)
	loc.Type = LocationType(typ)
	return loc, err
}

func scanRoute(row pgx.Row) (Route, error) {
	var r Route
	var data []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Origin, &r.Destination, &r.EstimatedTimeMinutes, &r.NextDepartureInfo, &data, &r.CreatedAt, &r.UpdatedAt)
	if len(data) > 0 {
		r.RouteData = data
	}
	return r, err
}

// rawJSON keeps an absent blob as SQL NULL.
func rawJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
