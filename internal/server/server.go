package server

import (
	"log"
	"sync"

	"backend-ecoroute/internal/auth"
	"backend-ecoroute/internal/config"
	"backend-ecoroute/internal/db"
	"backend-ecoroute/internal/favorite"
	"backend-ecoroute/internal/location"
	"backend-ecoroute/internal/metrics"
	"backend-ecoroute/internal/navigation"
	"backend-ecoroute/internal/profile"
	"backend-ecoroute/internal/publisher"
	"backend-ecoroute/internal/route"
	"backend-ecoroute/internal/stream"
	"backend-ecoroute/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var connectNATS = publisher.NewNATSPublisher

type Server struct {
	App        *fiber.App
	Cfg        config.Config
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Stream     *stream.Hub
	Metrics    *metrics.Collector
	Events     *publisher.NATSPublisher
	Catalog    *location.Catalog
	Directions *route.Directions
	Navigation *navigation.Service

	closeOnce sync.Once
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient),
		Metrics: metrics.NewCollector(cfg.TickInterval),
		Catalog: location.NewCatalog(location.DefaultLocations),
	}

	if cfg.NATSURL != "" {
		events, err := connectNATS(cfg.NATSURL, cfg.LogNATSSubjects, s.Metrics)
		if err != nil {
			log.Printf("nats connection failed, trip events disabled: %v", err)
		} else {
			s.Events = events
		}
	}

	s.Directions = route.NewDirections(route.Options{
		APIKey:   cfg.MapsAPIKey,
		BaseURL:  cfg.MapsBaseURL,
		Region:   cfg.MapsRegion,
		Timeout:  cfg.MapsTimeout,
		Cache:    route.NewRedisCache(redisClient),
		CacheTTL: cfg.RouteCacheTTL,
		Metrics:  s.Metrics,
	}, route.NewEstimator())
	if !s.Directions.Configured() {
		log.Printf("MAPS_API_KEY not set, route search uses the local estimator")
	}

	registerRoutes(s)
	return s
}

// querier keeps a missing pool a nil interface.
func (s *Server) querier() db.Querier {
	if s.DB == nil {
		return nil
	}
	return s.DB
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(s.Metrics.Handler()))

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	trips := trip.NewService(s.querier())

	navOpts := navigation.Options{
		Hub:          s.Stream,
		Metrics:      s.Metrics,
		TickInterval: s.Cfg.TickInterval,
	}
	if s.DB != nil {
		navOpts.Store = trips
	}
	if s.Events != nil {
		navOpts.Events = s.Events
	}
	s.Navigation = navigation.NewService(navOpts)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.querier()))
	location.RegisterRoutes(s.App.Group("/locations"), s.Catalog)
	route.RegisterRoutes(s.App.Group("/routes"), s.Directions, s.Catalog)
	navigation.RegisterRoutes(s.App.Group("/navigation"), s.Navigation, s.Catalog, jwtMiddleware)
	trip.RegisterRoutes(s.App.Group("/trips"), trips, jwtMiddleware)
	favorite.RegisterRoutes(s.App.Group("/favorites"), favorite.NewService(s.querier()), jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/profile"), profile.NewService(s.querier(), s.Cfg.StorageBaseURL), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, s.Navigation.Snapshot)
}

// Close stops the background work the server owns. The caller closes the
// database and redis clients it passed in. Safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.Navigation.Close()
		if err := s.Stream.Close(); err != nil {
			log.Printf("stream hub close: %v", err)
		}
		s.Events.Close()
	})
}
