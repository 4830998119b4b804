// Command api serves the movie and TV show catalog.
//
// @title                      Movies Catalog API
// @version                    1.0
// @description                Account signup with OTP verification and a shared catalog of movies and TV shows.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anu235shka/movies-task/internal/api"
	"github.com/anu235shka/movies-task/internal/core/service"
	"github.com/anu235shka/movies-task/internal/infrastructure/config"
	redisstore "github.com/anu235shka/movies-task/internal/infrastructure/db/redis"
	"github.com/anu235shka/movies-task/internal/infrastructure/http/handlers"
	"github.com/anu235shka/movies-task/internal/infrastructure/notify"
	"github.com/anu235shka/movies-task/internal/infrastructure/queue"
	"github.com/anu235shka/movies-task/internal/infrastructure/security"
	"github.com/anu235shka/movies-task/pkg/logger"

	_ "github.com/anu235shka/movies-task/docs"
)

const readinessPingTimeout = 2 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "movies-api",
		Env:     cfg.Env,
	})

	st, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer st.close()

	cache, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}()

	tokens, err := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notify.NewLoggerNotifier(logger.Component("notify")), logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))

	authService := service.NewAuthService(
		st.users,
		service.NewBcryptHasher(cfg.BcryptCost),
		service.NewOTPGenerator(),
		dispatcher,
		tokens,
		logger.Component("auth"),
	)
	entryService := service.NewEntryService(
		st.entries,
		security.NewTextSanitizer(),
		security.NewPosterGuard(cfg.PosterProbe, 0),
		logger.Component("entries"),
	)

	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Entries:     entryService,
		Tokens:      tokens,
		Idempotency: redisstore.NewIdempotencyStore(cache, cfg.IdempotencyTTL),
		Checks: []handlers.Check{
			st.check,
			{Name: "redis", Ping: func(ctx context.Context) error {
				return redisstore.Ping(ctx, cache, readinessPingTimeout)
			}},
		},
		Log: logger.Component("http"),
	})

	srvErrCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server starting")
		srvErrCh <- e.Start(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	dispatcher.Close()

	log.Info().Msg("server exited cleanly")
}
