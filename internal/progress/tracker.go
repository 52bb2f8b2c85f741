package progress

import (
	"context"

	"backend-ecoroute/internal/clock"
	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/route"
)

const (
	DefaultRating = 5
	minRating     = 1
	maxRating     = 5
)

// Store is the durable destination for completed trips.
type Store interface {
	SaveTrip(ctx context.Context, rec Record) error
}

// Tracker drives one trip through its itinerary. It is not safe for
// concurrent use; the owner serializes calls.
type Tracker struct {
	trip       ActiveTrip
	cumulative []int
	clock      clock.Clock
}

// Start begins tracking itinerary for userID. Missing locations are allowed;
// only their display names are then known.
func Start(id, userID string, origin, destination location.Location, itinerary route.Itinerary, c clock.Clock) (*Tracker, error) {
	if len(itinerary.Steps) == 0 {
		return nil, ErrEmptyItinerary
	}
	if c == nil {
		c = clock.RealClock{}
	}

	t := &Tracker{
		trip: ActiveTrip{
			ID:          id,
			UserID:      userID,
			Origin:      origin.Name,
			Destination: destination.Name,
			Itinerary:   itinerary,
			StartedAt:   c.Now(),
			Status:      StatusActive,
		},
		cumulative: stepBoundaries(itinerary),
		clock:      c,
	}
	if origin.ID != "" || origin.Coordinates != nil {
		o := origin
		t.trip.OriginLocation = &o
	}
	if destination.ID != "" || destination.Coordinates != nil {
		d := destination
		t.trip.DestinationLocation = &d
	}
	t.trip.TotalSeconds = t.cumulative[len(t.cumulative)-1]
	t.refresh()
	return t, nil
}

// stepBoundaries returns the cumulative end second of every step. When the
// steps carry no durations the itinerary total is spread evenly.
func stepBoundaries(it route.Itinerary) []int {
	n := len(it.Steps)
	out := make([]int, n)
	sum := 0
	for i, s := range it.Steps {
		sum += max(0, s.DurationMinutes) * 60
		out[i] = sum
	}
	if sum == 0 && it.DurationMinutes > 0 {
		total := it.DurationMinutes * 60
		for i := range out {
			out[i] = total * (i + 1) / n
		}
	}
	return out
}

func (t *Tracker) ID() string     { return t.trip.ID }
func (t *Tracker) UserID() string { return t.trip.UserID }
func (t *Tracker) Status() Status { return t.trip.Status }

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() ActiveTrip {
	s := t.trip
	if t.trip.EndedAt != nil {
		ended := *t.trip.EndedAt
		s.EndedAt = &ended
	}
	return s
}

func (t *Tracker) lastStep() int {
	return len(t.cumulative) - 1
}

// Tick advances the timer by one second. It reports whether anything moved.
func (t *Tracker) Tick() bool {
	if t.trip.Status != StatusActive || t.trip.Paused {
		return false
	}
	t.trip.ElapsedSeconds++
	t.refresh()
	return true
}

func (t *Tracker) Pause() error {
	if t.trip.Status.Terminal() {
		return ErrInvalidTransition
	}
	t.trip.Paused = true
	return nil
}

func (t *Tracker) Resume() error {
	if t.trip.Status.Terminal() {
		return ErrInvalidTransition
	}
	t.trip.Paused = false
	return nil
}

// AdvanceToNextStep moves the timer to the start of the next step, so the
// entered step keeps its full duration.
func (t *Tracker) AdvanceToNextStep() error {
	if t.trip.Status.Terminal() || t.trip.CurrentStep >= t.lastStep() {
		return ErrInvalidTransition
	}
	t.trip.ElapsedSeconds = max(t.trip.ElapsedSeconds, t.cumulative[t.trip.CurrentStep])
	t.refresh()
	return nil
}

// SkipToEnd jumps to the end of the itinerary. Complete is valid afterwards.
func (t *Tracker) SkipToEnd() error {
	if t.trip.Status.Terminal() {
		return ErrInvalidTransition
	}
	t.trip.ElapsedSeconds = max(t.trip.ElapsedSeconds, t.trip.TotalSeconds)
	t.refresh()
	t.trip.CurrentStep = t.lastStep()
	return nil
}

// Complete finishes the trip and hands the record to store. An anonymous
// identity leaves the trip untouched and writes nothing. A store failure is
// returned as a *PersistenceError but the trip stays completed.
func (t *Tracker) Complete(ctx context.Context, id Identity, store Store, rating int) (Record, error) {
	if t.trip.Status != StatusActive || t.trip.CurrentStep != t.lastStep() {
		return Record{}, ErrInvalidTransition
	}
	if !id.Authenticated() {
		return Record{}, ErrNotAuthenticated
	}

	now := t.clock.Now()
	t.trip.Status = StatusCompleted
	t.trip.Paused = false
	t.trip.EndedAt = &now
	if t.trip.UserID == "" {
		t.trip.UserID = id.UserID
	}

	rec := t.record(id, rating)
	if store == nil {
		return rec, nil
	}
	if err := store.SaveTrip(ctx, rec); err != nil {
		return rec, &PersistenceError{TripID: rec.ID, Err: err}
	}
	return rec, nil
}

func (t *Tracker) Cancel() error {
	if t.trip.Status.Terminal() {
		return ErrInvalidTransition
	}
	now := t.clock.Now()
	t.trip.Status = StatusCancelled
	t.trip.Paused = false
	t.trip.EndedAt = &now
	return nil
}

func (t *Tracker) refresh() {
	elapsed := t.trip.ElapsedSeconds
	t.trip.TimeRemainingSeconds = max(0, t.trip.TotalSeconds-elapsed)

	step := t.lastStep()
	for i, end := range t.cumulative {
		if end > elapsed {
			step = i
			break
		}
	}
	if step > t.trip.CurrentStep {
		t.trip.CurrentStep = step
	}

	if t.trip.TotalSeconds > 0 {
		t.trip.ProgressPercent = min(100, float64(elapsed)*100/float64(t.trip.TotalSeconds))
	} else {
		t.trip.ProgressPercent = 100
	}
}
