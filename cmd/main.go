package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djelite/matchengine/internal/adapters/http/api"
	"github.com/djelite/matchengine/internal/adapters/matchcache"
	"github.com/djelite/matchengine/internal/adapters/profilestore"
	app "github.com/djelite/matchengine/internal/app"
	"github.com/djelite/matchengine/internal/config"
	"github.com/djelite/matchengine/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	redisPingTimeout  = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open profile store", logger.Error(err))
		return
	}
	defer closeStore()

	cache, closeCache, err := buildCache(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open match cache", logger.Error(err))
		return
	}
	defer closeCache()

	engine := app.New(store, cache,
		app.WithLogger(log),
		app.WithCacheTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		app.WithCandidateLimit(cfg.CandidateLimit),
		app.WithFallbackLimit(cfg.FallbackLimit),
		app.WithOverfetchFactor(cfg.OverfetchFactor),
		app.WithScoreWorkers(cfg.ScoreWorkers),
		app.WithStoreTimeout(time.Duration(cfg.StoreTimeoutMS)*time.Millisecond),
		app.WithStoreRateLimit(cfg.StoreRateLimit, cfg.StoreRateBurst),
	)

	mux := http.NewServeMux()
	apiServer := api.NewServer(engine, engine, cfg.MaxMatchLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP shutdown failed", logger.Error(err))
	}
}

func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (profilestore.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn(ctx, "no database_url configured, using in-memory profile store")
		return profilestore.NewMemoryStore(), func() {}, nil
	}

	store, err := profilestore.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "using postgres profile store")
	return store, func() { _ = store.Close() }, nil
}

func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) (matchcache.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		cache := matchcache.NewMemoryCache()
		log.Info(ctx, "using in-memory match cache")
		return cache, cache.Close, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	log.Info(ctx, "using redis match cache", logger.String("addr", cfg.RedisAddr))
	return matchcache.NewRedisCache(rdb), func() { _ = rdb.Close() }, nil
}
