package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/config"
	"github.com/ehr/hms/internal/directory"
	"github.com/ehr/hms/internal/domain/medicalrecord"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/domain/staff"
	"github.com/ehr/hms/internal/platform/cache"
	"github.com/ehr/hms/internal/platform/db"
	"github.com/ehr/hms/internal/platform/events"
	"github.com/ehr/hms/internal/platform/metrics"
	"github.com/ehr/hms/internal/platform/middleware"
	"github.com/ehr/hms/internal/platform/tracing"
)

const version = "0.1.0"

type services struct {
	staff    *staff.Service
	patients *patient.Service
	records  *medicalrecord.Service
	actions  *patient.Actions
}

func newServices(q db.Querier, c cache.Cache, pub events.Publisher, m *metrics.Collector, logger zerolog.Logger) *services {
	staffRepo := staff.NewRepo(q)
	records := medicalrecord.NewService(medicalrecord.NewRepo(q))
	patients := patient.NewService(patient.NewRepo(q), staff.NewAnyStaff(staffRepo), records, pub, m, logger)
	return &services{
		staff:    staff.NewService(staffRepo, c, pub, m, logger),
		patients: patients,
		records:  records,
		actions:  patient.NewActions(patients, logger),
	}
}

// newRouter wires middleware, health and metrics endpoints, and every domain
// handler under /api/v1.
func newRouter(cfg *config.Config, svcs *services, m *metrics.Collector, gatherer prometheus.Gatherer, dbHealth echo.HandlerFunc, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics(m))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if dbHealth != nil {
		e.GET("/health/db", dbHealth)
	}
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))

	apiV1 := e.Group("/api/v1")
	patient.NewHandler(svcs.patients, svcs.actions).RegisterRoutes(apiV1)
	medicalrecord.NewHandler(svcs.records).RegisterRoutes(apiV1)
	directory.NewHandler(svcs.staff, svcs.staff).RegisterRoutes(apiV1)
	staff.NewHandler(svcs.staff).RegisterRoutes(apiV1)

	return e
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func runServer() error {
	logger := newLogger(os.Stdout, os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))

	ctx := context.Background()
	cfg, pool, err := connect(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	tp, err := tracing.Init(ctx, tracing.Options{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.ServiceName,
		SampleRate:  cfg.OTelSampleRate,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	var facetCache cache.Cache = cache.Nop{}
	if cfg.CacheEnabled() {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, directory facets will not be cached")
		} else {
			defer rdb.Close()
			facetCache = cache.NewRedis(rdb, cfg.ServiceName, cfg.DirectoryCacheTTL, logger)
			logger.Info().Msg("connected to redis")
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.EventsEnabled() {
		rmq, err := events.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsQueue, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("rabbitmq unavailable, domain events will be dropped")
		} else {
			defer rmq.Close()
			publisher = rmq
			logger.Info().Str("queue", cfg.EventsQueue).Msg("connected to rabbitmq")
		}
	}

	reg := newRegistry()
	m := metrics.NewCollector(reg, "hms")
	svcs := newServices(pool, facetCache, publisher, m, logger)
	e := newRouter(cfg, svcs, m, reg, db.HealthHandler(pool), logger)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracer shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
