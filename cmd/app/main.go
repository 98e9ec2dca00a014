package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"monitoreo-service/internal/config"
	calAgenda "monitoreo-service/internal/http-server/handlers/calendar/agenda"
	calMonth "monitoreo-service/internal/http-server/handlers/calendar/month"
	eventCreate "monitoreo-service/internal/http-server/handlers/events/create"
	eventDelete "monitoreo-service/internal/http-server/handlers/events/delete"
	eventGet "monitoreo-service/internal/http-server/handlers/events/get"
	eventUpdate "monitoreo-service/internal/http-server/handlers/events/update"
	instCreate "monitoreo-service/internal/http-server/handlers/instances/create"
	instComplete "monitoreo-service/internal/http-server/handlers/instances/complete"
	instGet "monitoreo-service/internal/http-server/handlers/instances/get"
	instSave "monitoreo-service/internal/http-server/handlers/instances/save"
	institutionCreate "monitoreo-service/internal/http-server/handlers/institutions/create"
	institutionDelete "monitoreo-service/internal/http-server/handlers/institutions/delete"
	institutionGet "monitoreo-service/internal/http-server/handlers/institutions/get"
	institutionUpdate "monitoreo-service/internal/http-server/handlers/institutions/update"
	profileGet "monitoreo-service/internal/http-server/handlers/profiles/get"
	tplClose "monitoreo-service/internal/http-server/handlers/templates/close"
	tplCreate "monitoreo-service/internal/http-server/handlers/templates/create"
	tplDelete "monitoreo-service/internal/http-server/handlers/templates/delete"
	tplGet "monitoreo-service/internal/http-server/handlers/templates/get"
	tplPublish "monitoreo-service/internal/http-server/handlers/templates/publish"
	tplUpdate "monitoreo-service/internal/http-server/handlers/templates/update"
	"monitoreo-service/internal/identity"
	"monitoreo-service/internal/lock"
	svc "monitoreo-service/internal/service"
	"monitoreo-service/internal/storage/postgres"
	slogpretty "monitoreo-service/pkg/handlers/slogPretty"
	"monitoreo-service/pkg/middleware/mwLogger"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id, X-User-Role")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)
	router.Use(identity.FromHeaders)

	// Templates
	router.Post("/templates", tplCreate.New(log, service))
	router.Get("/templates", tplGet.New(log, service))
	router.Get("/templates/{id}", tplGet.New(log, service))
	router.Put("/templates/{id}", tplUpdate.New(log, service))
	router.Post("/templates/{id}/publish", tplPublish.New(log, service))
	router.Post("/templates/{id}/close", tplClose.New(log, service))
	router.Delete("/templates/{id}", tplDelete.New(log, service))

	// Instances
	router.Post("/instances", instCreate.New(log, service))
	router.Get("/instances", instGet.New(log, service))
	router.Get("/instances/{id}", instGet.New(log, service))
	router.Put("/instances/{id}", instSave.New(log, service))
	router.Post("/instances/{id}/complete", instComplete.New(log, service))

	// Events
	router.Post("/events", eventCreate.New(log, service))
	router.Get("/events", eventGet.New(log, service))
	router.Get("/events/{id}", eventGet.New(log, service))
	router.Put("/events/{id}", eventUpdate.New(log, service))
	router.Delete("/events/{id}", eventDelete.New(log, service))

	// Institutions
	router.Post("/institutions", institutionCreate.New(log, service))
	router.Get("/institutions", institutionGet.New(log, service))
	router.Get("/institutions/{id}", institutionGet.New(log, service))
	router.Put("/institutions/{id}", institutionUpdate.New(log, service))
	router.Delete("/institutions/{id}", institutionDelete.New(log, service))

	// Calendar
	router.Get("/calendar/month", calMonth.New(log, service))
	router.Get("/calendar/agenda", calAgenda.New(log, service))

	// Profiles
	router.Get("/profiles", profileGet.New(log, service))
	router.Get("/profiles/{id}", profileGet.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
