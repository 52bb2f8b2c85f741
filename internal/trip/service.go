package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"backend-ecoroute/internal/db"
	"backend-ecoroute/internal/progress"

	"github.com/jackc/pgx/v5"
)

const tripColumns = `id, user_id, origin, destination, origin_lat, origin_lng, destination_lat, destination_lng,
		status, start_time, end_time, duration_minutes, distance_km, cost, co2_saved, rating, route_data, created_at`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// SaveTrip writes a finished trip. It satisfies progress.Store.
func (s *Service) SaveTrip(ctx context.Context, rec progress.Record) error {
	routeData, err := json.Marshal(rec.RouteData)
	if err != nil {
		return fmt.Errorf("encode route data: %w", err)
	}
	var oLat, oLng, dLat, dLng *float64
	if c := rec.OriginCoordinates; c != nil {
		oLat, oLng = &c.Lat, &c.Lng
	}
	if c := rec.DestinationCoordinates; c != nil {
		dLat, dLng = &c.Lat, &c.Lng
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (id, user_id, origin, destination, origin_lat, origin_lng, destination_lat, destination_lng,
			status, start_time, end_time, duration_minutes, distance_km, cost, co2_saved, rating, route_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, rec.ID, rec.UserID, rec.Origin, rec.Destination, oLat, oLng, dLat, dLng,
		string(rec.Status), rec.StartTime, timePtr(rec.EndTime), rec.DurationMinutes,
		rec.DistanceKm, rec.Cost, rec.CO2Saved, rec.Rating, routeData)
	return err
}

func (s *Service) GetTrip(ctx context.Context, userID, id string) (Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1 AND user_id=$2`, id, userID)
	trip, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	return trip, err
}

// History lists a user's trips, newest first.
func (s *Service) History(ctx context.Context, userID string, f Filter) ([]Trip, error) {
	where := []string{"user_id=$1"}
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.Mode != "" {
		args = append(args, f.Mode)
		where = append(where, fmt.Sprintf("jsonb_exists(route_data->'modes', $%d)", len(args)))
	}
	args = append(args, clampLimit(f.Limit, defaultHistoryLimit))

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM trips WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, tripColumns, strings.Join(where, " AND "), len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// Recent returns the latest completed trips.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Trip, error) {
	return s.History(ctx, userID, Filter{Status: string(progress.StatusCompleted), Limit: clampLimit(limit, defaultRecentLimit)})
}

// Stats aggregates completed trips only.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_minutes),0), COALESCE(SUM(co2_saved),0), COALESCE(SUM(cost),0)
		FROM trips WHERE user_id=$1 AND status='completed'
	`, userID)
	if err := row.Scan(&st.TotalTrips, &st.TotalTimeMinutes, &st.TotalCO2Saved, &st.TotalMoney); err != nil {
		return Stats{}, err
	}
	st.TotalTime = FormatTotalTime(st.TotalTimeMinutes)
	st.TotalCO2Saved = round(st.TotalCO2Saved, 1)
	st.TotalMoney = round(st.TotalMoney, 2)
	return st, nil
}

func (s *Service) UpdateRating(ctx context.Context, userID, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	tag, err := s.db.Exec(ctx, `UPDATE trips SET rating=$3 WHERE id=$1 AND user_id=$2`, id, userID, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteTrip(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FormatTotalTime renders minutes as "Xh Ym".
func FormatTotalTime(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func scanTrip(row pgx.Row) (Trip, error) {
	var t Trip
	var routeData []byte
	if err := row.Scan(&t.ID, &t.UserID, &t.Origin, &t.Destination, &t.OriginLat, &t.OriginLng, &t.DestinationLat, &t.DestinationLng,
		&t.Status, &t.StartTime, &t.EndTime, &t.DurationMinutes, &t.DistanceKm, &t.Cost, &t.CO2Saved, &t.Rating, &routeData, &t.CreatedAt); err != nil {
		return Trip{}, err
	}
	if len(routeData) > 0 {
		if err := json.Unmarshal(routeData, &t.RouteData); err != nil {
			return Trip{}, fmt.Errorf("decode route data for trip %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
