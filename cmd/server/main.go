package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bqhai199x/auth-service/internal/api"
	"github.com/bqhai199x/auth-service/internal/core/ports"
	"github.com/bqhai199x/auth-service/internal/core/service"
	"github.com/bqhai199x/auth-service/internal/infrastructure/config"
	mongodb "github.com/bqhai199x/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/bqhai199x/auth-service/internal/infrastructure/db/redis"
	"github.com/bqhai199x/auth-service/internal/infrastructure/ratelimit"
	"github.com/bqhai199x/auth-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Token service ---
	tokens, err := service.NewJWTTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service configuration")
	}

	// --- Credential store ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}

	// --- Rate limiter backend ---
	var limiter ports.RateLimiter
	var rdb *redis.Client
	switch cfg.RateLimit.Backend {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection")
		}
		defer func() {
			_ = rdb.Close()
		}()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	}

	// --- Services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, tokens, limiter, log)
	userService := service.NewUserService(userRepo, hasher, log)

	e := api.NewRouter(api.Deps{
		AuthService:  authService,
		UserService:  userService,
		CookieMaxAge: tokens.TTL(),
		CookieSecure: cfg.Production(),
		Mongo:        db,
		Redis:        rdb,
		Log:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
