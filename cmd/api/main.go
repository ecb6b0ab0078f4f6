package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/ris-ingest/internal/config"
	"github.com/jwalitptl/ris-ingest/internal/handler"
	ingesthttp "github.com/jwalitptl/ris-ingest/internal/handler/ingest"
	"github.com/jwalitptl/ris-ingest/internal/mapper"
	"github.com/jwalitptl/ris-ingest/internal/repository"
	"github.com/jwalitptl/ris-ingest/internal/repository/postgres"
	"github.com/jwalitptl/ris-ingest/internal/repository/postgrest"
	"github.com/jwalitptl/ris-ingest/internal/router"
	ingestsvc "github.com/jwalitptl/ris-ingest/internal/service/ingest"
	"github.com/jwalitptl/ris-ingest/pkg/logger"
	"github.com/jwalitptl/ris-ingest/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	mx := metrics.New(prometheus.DefaultRegisterer, "ris")

	store, ready, err := buildStore(cfg, mx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize record store")
	}

	registry := buildProfileRegistry(cfg.HL7)
	svc := ingestsvc.NewService(store, mapper.New(registry), mx, ingestsvc.Config{
		ExistenceCacheTTL: cfg.Store.ExistenceCacheTTL,
	})

	h := handler.NewHandler(ready)
	ingestHandler := ingesthttp.NewHandler(svc)

	r := router.New(router.Config{
		RateLimit:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:    cfg.RateLimit.Burst,
		Timeout:      cfg.Server.RequestTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, h, ingestHandler)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store_backend", cfg.Store.Backend).
			Msg("starting HL7 ingest gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// buildStore wires the configured backend and wraps it with metrics. The
// readiness probe is backend-specific.
func buildStore(cfg *config.Config, mx *metrics.Metrics) (repository.RecordStore, handler.ReadyFunc, error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.NewDB(postgres.Config{
			Host:     cfg.Store.Postgres.Host,
			Port:     cfg.Store.Postgres.Port,
			User:     cfg.Store.Postgres.User,
			Password: cfg.Store.Postgres.Password,
			Name:     cfg.Store.Postgres.Name,
			SSLMode:  cfg.Store.Postgres.SSLMode,
		})
		if err != nil {
			return nil, nil, err
		}
		return repository.NewInstrumentedStore(postgres.NewStore(db), mx), db.Ping, nil

	case "postgrest":
		store := postgrest.New(postgrest.Config{
			BaseURL:  cfg.Store.PostgREST.BaseURL,
			APIKey:   cfg.Store.PostgREST.APIKey,
			Timeout:  cfg.Store.PostgREST.Timeout,
			RetryMax: cfg.Store.PostgREST.RetryMax,
		})
		// The REST store has no cheap ping; readiness means we are up.
		return repository.NewInstrumentedStore(store, mx), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildProfileRegistry(cfg config.HL7Config) *mapper.Registry {
	fallback := profileFromConfig("default", cfg.DefaultProfile)

	overrides := make(map[string]mapper.Profile, len(cfg.Profiles))
	for sender, pc := range cfg.Profiles {
		overrides[sender] = profileFromConfig(sender, pc)
	}
	return mapper.NewRegistry(fallback, overrides)
}

// profileFromConfig fills unset profile fields from the built-in default
// layout so a config override only has to name what differs.
func profileFromConfig(name string, pc config.ProfileConfig) mapper.Profile {
	p := mapper.DefaultProfile()
	p.Name = name
	if len(pc.AccessionFields) > 0 {
		p.AccessionFields = pc.AccessionFields
	}
	if pc.ExamField > 0 {
		p.ExamField = pc.ExamField
	}
	if pc.PriorityField > 0 {
		p.PriorityField = pc.PriorityField
	}
	if pc.StartField > 0 {
		p.StartField = pc.StartField
	}
	if pc.DefaultModality != "" {
		p.DefaultModality = pc.DefaultModality
	}
	return p
}
