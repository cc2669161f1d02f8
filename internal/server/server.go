// Package server boots the application: config, log sinks, database,
// cache, storage, routes, templates, and the HTTP listener with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopgo-app/shopgo/app/routes"
	"github.com/shopgo-app/shopgo/config"
	"github.com/shopgo-app/shopgo/pkg/cache"
	"github.com/shopgo-app/shopgo/pkg/database"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/middleware"
	"github.com/shopgo-app/shopgo/pkg/orm"
	"github.com/shopgo-app/shopgo/pkg/reqid"
	"github.com/shopgo-app/shopgo/pkg/response"
	"github.com/shopgo-app/shopgo/pkg/router"
	"github.com/shopgo-app/shopgo/pkg/session"
	"github.com/shopgo-app/shopgo/pkg/storage"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
		err := logger.EnableMongo(uri,
			config.Get("LOG_MONGO_DB", "shopgo"),
			config.Get("LOG_MONGO_COLLECTION", "logs"))
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Redis being down degrades caching and sessions; it does not stop the app.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable", "error", err)
	}
	orm.CacheStore = cacheAdapter{}

	storage.Connect()

	r := buildRouter()

	if err := view.Boot(config.Get("VIEWS_DIR", "app/views/templates"), r); err != nil {
		return fmt.Errorf("boot views: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("shopgo listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func buildRouter() *router.Router {
	r := router.New()

	sessOpts := session.DefaultOptions()
	sessOpts.Secure = config.AppEnv() == "production" || config.AppEnv() == "prod"

	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		metrics.Middleware(),
		session.Middleware(sessOpts),
	)

	routes.RegisterWeb(r)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "", healthz)

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}

// cacheAdapter plugs the Redis cache into the orm query cache.
type cacheAdapter struct{}

func (cacheAdapter) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }

func (cacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
