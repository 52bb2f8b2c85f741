package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const SubjectPrefix = "ecoroute.trips"

// Trip lifecycle events.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

type NATSPublisher struct {
	nc          conn
	logSubjects bool
	metrics     PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url string, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("backend-ecoroute"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return newPublisher(nc, logSubjects, m), nil
}

func newPublisher(nc conn, logSubjects bool, m PublisherMetrics) *NATSPublisher {
	return &NATSPublisher{nc: nc, logSubjects: logSubjects, metrics: m}
}

func (p *NATSPublisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		log.Printf("nats drain: %v", err)
	}
	p.nc.Close()
}

type TripEvent struct {
	Event            string    `json:"event"`
	TripID           string    `json:"tripId"`
	UserID           string    `json:"userId"`
	Status           string    `json:"status"`
	CurrentStepIndex int       `json:"currentStepIndex"`
	ElapsedSeconds   int       `json:"elapsedSeconds"`
	ProgressPercent  float64   `json:"progressPercent"`
	Timestamp        time.Time `json:"timestamp"`
}

// Subject returns ecoroute.trips.<event>.<user>.
func Subject(event, userID string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, subjectToken(event), subjectToken(userID))
}

// PublishTripEvent is a no-op on a nil publisher so callers can run without NATS.
func (p *NATSPublisher) PublishTripEvent(msg TripEvent) error {
	if p == nil || p.nc == nil {
		return nil
	}
	subject := Subject(msg.Event, msg.UserID)
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
