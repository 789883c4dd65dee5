// Package server boots the application: config, database, cache, storage,
// queue workers, the scheduler, the websocket hub, and finally the HTTP
// listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shashiranjanraj/campuseats/app/events"
	"github.com/shashiranjanraj/campuseats/app/jobs"
	"github.com/shashiranjanraj/campuseats/app/routes"
	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/cache"
	"github.com/shashiranjanraj/campuseats/pkg/database"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
	"github.com/shashiranjanraj/campuseats/pkg/metrics"
	"github.com/shashiranjanraj/campuseats/pkg/middleware"
	"github.com/shashiranjanraj/campuseats/pkg/migration"
	"github.com/shashiranjanraj/campuseats/pkg/queue"
	"github.com/shashiranjanraj/campuseats/pkg/reqid"
	"github.com/shashiranjanraj/campuseats/pkg/router"
	"github.com/shashiranjanraj/campuseats/pkg/schedule"
	"github.com/shashiranjanraj/campuseats/pkg/session"
	"github.com/shashiranjanraj/campuseats/pkg/storage"
	"github.com/shashiranjanraj/campuseats/pkg/ws"

	"github.com/shashiranjanraj/campuseats/app/services"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	var mongoSink *logger.MongoHandler
	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
		mh, err := logger.AttachMongoSink(uri,
			config.Get("LOG_MONGO_DB", "campuseats"),
			config.Get("LOG_MONGO_COLLECTION", "logs"))
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			mongoSink = mh
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	// Redis is optional: sessions fall back to memory, the ORM cache
	// degrades to plain queries, and the queue runs on the in-process driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without redis", "error", err)
	}

	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)
	jobs.RegisterAll()
	workers := queueWorkers()
	queue.StartWorkers(ctx, workers)
	logger.Info("queue workers started", "count", workers)

	hub := ws.NewHub()
	go hub.Run()
	events.Register(hub)

	registerScheduledTasks()
	go schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           buildHandler(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("campuseats listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if mongoSink != nil {
		mongoSink.Close()
	}
	return err
}

// buildHandler assembles the middleware stack and mounts every route.
//
// Stack, outermost to innermost:
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. Session            — load/create session cookie via Redis
//  6. CORS
//  7. Rate limiter
func buildHandler(hub *ws.Hub) http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	routes.RegisterAPI(r, routes.Deps{Hub: hub})

	return r.Handler()
}

// registerScheduledTasks wires the recurring maintenance tasks.
func registerScheduledTasks() {
	subs := services.NewSubscriptionService()
	schedule.Daily().At("00:05").Name("subscriptions:expire").WithoutOverlapping().Run(func() {
		subs.ExpireOverdue()
	})
}

func queueWorkers() int {
	if n, err := strconv.Atoi(config.Get("QUEUE_WORKERS", "4")); err == nil && n > 0 {
		return n
	}
	return 4
}
