package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	ActiveTrips prometheus.Gauge

	TripsStarted   prometheus.Counter
	TripsCompleted prometheus.Counter
	TripsCancelled prometheus.Counter

	PersistenceFailures prometheus.Counter

	DirectionsDuration *prometheus.HistogramVec // source label: provider|fallback|cache
	TickDuration       prometheus.Histogram

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	TickInterval prometheus.Gauge // seconds
}

func NewCollector(tickInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ecoroute_active_trips",
			Help: "Number of trips currently being navigated.",
		}),
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_trips_started_total",
			Help: "Total trips started.",
		}),
		TripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_trips_completed_total",
			Help: "Total trips completed.",
		}),
		TripsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_trips_cancelled_total",
			Help: "Total trips cancelled.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_trip_persistence_failures_total",
			Help: "Completed trips that could not be written to the store.",
		}),
		DirectionsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecoroute_directions_duration_seconds",
			Help:    "Time to produce itineraries, by source.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"source"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecoroute_tick_duration_seconds",
			Help:    "Duration of a navigation tick including broadcast.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoroute_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ecoroute_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecoroute_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ecoroute_tick_interval_seconds",
			Help: "Navigation tick interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.ActiveTrips,
		c.TripsStarted, c.TripsCompleted, c.TripsCancelled,
		c.PersistenceFailures,
		c.DirectionsDuration, c.TickDuration,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.TickInterval,
	)

	c.TickInterval.Set(tickInterval.Seconds())

	return c
}

// ObserveDirections records how long a route search took and where the
// itineraries came from.
func (c *Collector) ObserveDirections(source string, elapsed time.Duration) {
	c.DirectionsDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (c *Collector) NATSPublishedInc()              { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()             { c.NATSPublishErrs.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }
func (c *Collector) NATSSetConnected(b bool) {
	if b {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

func (c *Collector) TripStarted() {
	c.TripsStarted.Inc()
	c.ActiveTrips.Inc()
}

func (c *Collector) TripCompleted() {
	c.TripsCompleted.Inc()
	c.ActiveTrips.Dec()
}

func (c *Collector) TripCancelled() {
	c.TripsCancelled.Inc()
	c.ActiveTrips.Dec()
}

func (c *Collector) PersistenceFailed()          { c.PersistenceFailures.Inc() }
func (c *Collector) TickObserve(d time.Duration) { c.TickDuration.Observe(d.Seconds()) }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
