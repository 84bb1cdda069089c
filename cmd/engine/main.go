package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"service-admission/internal/config"
	"service-admission/internal/domain/engine"
	"service-admission/internal/infrastructure"
	"service-admission/internal/infrastructure/diff"
	"service-admission/internal/infrastructure/registry"
	"service-admission/internal/interfaces"
	"service-admission/internal/interfaces/httpapi"
	"service-admission/internal/obs"
	"service-admission/internal/usecase"
	"service-admission/internal/usecase/runengine"
)

func main() {
	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed := registry.DefaultSeed()
	if cfg.RegistrySeedPath != "" {
		extra, err := registry.LoadSeed(cfg.RegistrySeedPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load registry seed")
		}
		seed = seed.Merge(extra)
	}

	var (
		regs   interfaces.Registries
		health httpapi.Pinger
	)
	switch cfg.RegistryBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		client := redis.NewClient(opts)
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		r := &registry.Redis{Client: client, Logger: logger}
		if err := r.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
		if cfg.RegistrySeedPath != "" {
			if err := r.Load(ctx, seed); err != nil {
				logger.Fatal().Err(err).Msg("seed redis registry")
			}
		}
		regs = interfaces.Registries{Shareholders: r, Members: r, Events: r}
		health = r
	default:
		mem, err := registry.NewMemory(seed)
		if err != nil {
			logger.Fatal().Err(err).Msg("build memory registry")
		}
		regs = interfaces.Registries{Shareholders: mem, Members: mem, Events: mem}
	}

	var policy engine.Policy
	if cfg.RulesDir != "" {
		pack, err := infrastructure.NewFileRuleLoader(cfg.RulesDir).Load(ctx, cfg.RulesVersion)
		if err != nil {
			logger.Fatal().Err(err).Msg("load rule pack")
		}
		p, err := infrastructure.NewJsonLogicPolicy(*pack, infrastructure.NewJsonLogicExecutor(), logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("compile rule pack")
		}
		logger.Info().Str("version", p.Version()).Msg("rule pack loaded")
		policy = p
	}

	metrics := obs.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	admission := usecase.NewAdmissionService(interfaces.NewEngine(cfg.Prices(), regs, policy), logger, metrics)

	e := httpapi.New(&httpapi.Server{
		Admission: admission,
		Reprice:   &runengine.UseCase{Admission: admission, Differ: &diff.Differ{}},
		Logger:    logger,
		Metrics:   metrics,
		Health:    health,
	})

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("registry", cfg.RegistryBackend).
			Int64("base_price", int64(cfg.BasePrice)).
			Msg("admission api listening")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdown(e.Shutdown, logger)
}

func shutdown(fn func(context.Context) error, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
