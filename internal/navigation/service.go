package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"backend-ecoroute/internal/clock"
	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/progress"
	"backend-ecoroute/internal/publisher"
	"backend-ecoroute/internal/route"

	"github.com/google/uuid"
)

const DefaultTickInterval = time.Second

const persistenceWarning = "trip completed but could not be saved"

type Broadcaster interface {
	Broadcast(tripID string, payload []byte)
}

type EventPublisher interface {
	PublishTripEvent(msg publisher.TripEvent) error
}

type Metrics interface {
	TripStarted()
	TripCompleted()
	TripCancelled()
	PersistenceFailed()
	TickObserve(d time.Duration)
}

type Options struct {
	Store        progress.Store
	Hub          Broadcaster
	Events       EventPublisher
	Metrics      Metrics
	Clock        clock.Clock
	TickInterval time.Duration
}

// session owns one tracker. mu serializes the ticker with request handlers.
type session struct {
	mu       sync.Mutex
	tracker  *progress.Tracker
	stop     chan struct{}
	stopOnce sync.Once
}

func (s *session) halt() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Service hosts the trips currently being navigated, at most one per user.
type Service struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*session
	byUser   map[string]string

	wg sync.WaitGroup
}

func NewService(opts Options) *Service {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	return &Service{
		opts:     opts,
		sessions: map[string]*session{},
		byUser:   map[string]string{},
	}
}

func (s *Service) Start(userID string, origin, destination location.Location, itinerary route.Itinerary) (progress.ActiveTrip, error) {
	if userID == "" {
		return progress.ActiveTrip{}, progress.ErrNotAuthenticated
	}

	s.mu.Lock()
	if _, ok := s.byUser[userID]; ok {
		s.mu.Unlock()
		return progress.ActiveTrip{}, ErrAlreadyActive
	}
	tracker, err := progress.Start(uuid.NewString(), userID, origin, destination, itinerary, s.opts.Clock)
	if err != nil {
		s.mu.Unlock()
		return progress.ActiveTrip{}, err
	}
	sess := &session{tracker: tracker, stop: make(chan struct{})}
	s.sessions[tracker.ID()] = sess
	s.byUser[userID] = tracker.ID()
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(sess)

	snap := tracker.Snapshot()
	s.opts.Metrics.TripStarted()
	s.broadcast(snap)
	s.publish(publisher.EventStarted, snap)
	log.Printf("trip %s started for user %s", snap.ID, userID)
	return snap, nil
}

// Active returns the trip userID is currently navigating.
func (s *Service) Active(userID string) (progress.ActiveTrip, error) {
	s.mu.RLock()
	tripID, ok := s.byUser[userID]
	s.mu.RUnlock()
	if !ok {
		return progress.ActiveTrip{}, ErrNotFound
	}
	return s.Get(userID, tripID)
}

func (s *Service) Get(userID, tripID string) (progress.ActiveTrip, error) {
	sess, err := s.lookup(userID, tripID)
	if err != nil {
		return progress.ActiveTrip{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.tracker.Snapshot(), nil
}

func (s *Service) Pause(userID, tripID string) (progress.ActiveTrip, error) {
	return s.mutate(userID, tripID, (*progress.Tracker).Pause)
}

func (s *Service) Resume(userID, tripID string) (progress.ActiveTrip, error) {
	return s.mutate(userID, tripID, (*progress.Tracker).Resume)
}

func (s *Service) Next(userID, tripID string) (progress.ActiveTrip, error) {
	return s.mutate(userID, tripID, (*progress.Tracker).AdvanceToNextStep)
}

func (s *Service) Cancel(userID, tripID string) (progress.ActiveTrip, error) {
	sess, err := s.lookup(userID, tripID)
	if err != nil {
		return progress.ActiveTrip{}, err
	}

	sess.mu.Lock()
	if err := sess.tracker.Cancel(); err != nil {
		sess.mu.Unlock()
		return progress.ActiveTrip{}, err
	}
	sess.halt()
	snap := sess.tracker.Snapshot()
	sess.mu.Unlock()

	s.remove(snap.ID, snap.UserID)
	s.opts.Metrics.TripCancelled()
	s.broadcast(snap)
	s.publish(publisher.EventCancelled, snap)
	log.Printf("trip %s cancelled", snap.ID)
	return snap, nil
}

// Complete finishes the trip at its last step and stores the record. A
// persistence failure still completes the trip and is reported as a warning.
func (s *Service) Complete(ctx context.Context, identity progress.Identity, tripID string, rating int) (Result, error) {
	return s.finish(ctx, identity, tripID, rating, false)
}

// Skip jumps to the end of the itinerary and completes with the default rating.
func (s *Service) Skip(ctx context.Context, identity progress.Identity, tripID string) (Result, error) {
	return s.finish(ctx, identity, tripID, progress.DefaultRating, true)
}

func (s *Service) finish(ctx context.Context, identity progress.Identity, tripID string, rating int, skip bool) (Result, error) {
	if !identity.Authenticated() {
		return Result{}, progress.ErrNotAuthenticated
	}
	sess, err := s.lookup(identity.UserID, tripID)
	if err != nil {
		return Result{}, err
	}

	sess.mu.Lock()
	if skip {
		if err := sess.tracker.SkipToEnd(); err != nil {
			sess.mu.Unlock()
			return Result{}, err
		}
	}
	rec, err := sess.tracker.Complete(ctx, identity, s.opts.Store, rating)
	if err != nil && !errors.Is(err, progress.ErrPersistence) {
		snap := sess.tracker.Snapshot()
		sess.mu.Unlock()
		if skip {
			s.broadcast(snap)
		}
		return Result{}, err
	}
	sess.halt()
	snap := sess.tracker.Snapshot()
	sess.mu.Unlock()

	res := Result{Trip: snap, Record: &rec}
	if err != nil {
		log.Printf("trip %s: %v", snap.ID, err)
		s.opts.Metrics.PersistenceFailed()
		res.Warning = persistenceWarning
	}

	s.remove(snap.ID, snap.UserID)
	s.opts.Metrics.TripCompleted()
	s.broadcast(snap)
	s.publish(publisher.EventCompleted, snap)
	log.Printf("trip %s completed", snap.ID)
	return res, nil
}

// Snapshot serves the stream endpoint's initial message.
func (s *Service) Snapshot(tripID string) ([]byte, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[tripID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	snap := sess.tracker.Snapshot()
	sess.mu.Unlock()
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Close stops every ticker. Trips still in progress are dropped.
func (s *Service) Close() {
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.halt()
		delete(s.sessions, id)
	}
	s.byUser = map[string]string{}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) mutate(userID, tripID string, op func(*progress.Tracker) error) (progress.ActiveTrip, error) {
	sess, err := s.lookup(userID, tripID)
	if err != nil {
		return progress.ActiveTrip{}, err
	}
	sess.mu.Lock()
	err = op(sess.tracker)
	snap := sess.tracker.Snapshot()
	sess.mu.Unlock()
	if err != nil {
		return progress.ActiveTrip{}, err
	}
	s.broadcast(snap)
	return snap, nil
}

// lookup hides trips owned by someone else behind ErrNotFound.
func (s *Service) lookup(userID, tripID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[tripID]
	s.mu.RUnlock()
	if !ok || sess.tracker.UserID() != userID {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Service) remove(tripID, userID string) {
	s.mu.Lock()
	delete(s.sessions, tripID)
	if s.byUser[userID] == tripID {
		delete(s.byUser, userID)
	}
	s.mu.Unlock()
}

func (s *Service) run(sess *session) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-sess.stop:
			return
		case <-ticker.C:
			s.tick(sess)
		}
	}
}

func (s *Service) tick(sess *session) {
	start := time.Now()
	sess.mu.Lock()
	moved := sess.tracker.Tick()
	snap := sess.tracker.Snapshot()
	sess.mu.Unlock()
	if !moved {
		return
	}
	s.broadcast(snap)
	s.opts.Metrics.TickObserve(time.Since(start))
}

func (s *Service) broadcast(snap progress.ActiveTrip) {
	if s.opts.Hub == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("trip %s: encode snapshot: %v", snap.ID, err)
		return
	}
	s.opts.Hub.Broadcast(snap.ID, payload)
}

func (s *Service) publish(event string, snap progress.ActiveTrip) {
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.PublishTripEvent(publisher.TripEvent{
		Event:            event,
		TripID:           snap.ID,
		UserID:           snap.UserID,
		Status:           string(snap.Status),
		CurrentStepIndex: snap.CurrentStep,
		ElapsedSeconds:   snap.ElapsedSeconds,
		ProgressPercent:  snap.ProgressPercent,
		Timestamp:        s.opts.Clock.Now(),
	})
	if err != nil {
		log.Printf("trip %s: publish %s: %v", snap.ID, event, err)
	}
}

type nopMetrics struct{}

func (nopMetrics) TripStarted()                {}
func (nopMetrics) TripCompleted()              {}
func (nopMetrics) TripCancelled()              {}
func (nopMetrics) PersistenceFailed()          {}
func (nopMetrics) TickObserve(_ time.Duration) {}
