package progress

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid trip state transition")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrPersistence       = errors.New("trip persistence failed")
	ErrEmptyItinerary    = errors.New("itinerary has no steps")
)

// PersistenceError is returned by Complete when the store rejects the record.
// The trip is completed regardless.
type PersistenceError struct {
	TripID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return "persist trip " + e.TripID + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
