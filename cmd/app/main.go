package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"timetable-service/internal/config"
	curriculumCreate "timetable-service/internal/http-server/handlers/curricula/create"
	curriculumDelete "timetable-service/internal/http-server/handlers/curricula/delete"
	curriculumGet "timetable-service/internal/http-server/handlers/curricula/get"
	curriculumRecalc "timetable-service/internal/http-server/handlers/curricula/recalculate"
	curriculumUpdate "timetable-service/internal/http-server/handlers/curricula/update"
	groupCreate "timetable-service/internal/http-server/handlers/groups/create"
	groupDelete "timetable-service/internal/http-server/handlers/groups/delete"
	groupGet "timetable-service/internal/http-server/handlers/groups/get"
	slotCreate "timetable-service/internal/http-server/handlers/slots/create"
	slotDelete "timetable-service/internal/http-server/handlers/slots/delete"
	slotEdit "timetable-service/internal/http-server/handlers/slots/edit"
	slotGet "timetable-service/internal/http-server/handlers/slots/get"
	slotSwap "timetable-service/internal/http-server/handlers/slots/swap"
	teacherCreate "timetable-service/internal/http-server/handlers/teachers/create"
	teacherDelete "timetable-service/internal/http-server/handlers/teachers/delete"
	teacherGet "timetable-service/internal/http-server/handlers/teachers/get"
	yearApply "timetable-service/internal/http-server/handlers/year/apply"
	"timetable-service/internal/lock"
	"timetable-service/internal/metrics"
	svc "timetable-service/internal/service"
	"timetable-service/internal/storage/postgres"
	slogpretty "timetable-service/pkg/handlers/slogPretty"
	"timetable-service/pkg/middleware/mwLogger"
	"timetable-service/pkg/middleware/mwMetrics"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
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

	if err := storage.ApplyMigrations(cfg.MigrationsPath); err != nil {
		log.Error("Failed to apply migrations", sl.Err(err))
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
	router.Use(mwMetrics.New(metrics.APIRequestDuration))
	router.Use(CORS)

	// Groups
	router.Post("/groups", groupCreate.New(log, service))
	router.Get("/groups", groupGet.New(log, service))
	router.Get("/groups/{id}", groupGet.New(log, service))
	router.Delete("/groups/{id}", groupDelete.New(log, service))

	// Teachers
	router.Post("/teachers", teacherCreate.New(log, service))
	router.Get("/teachers", teacherGet.New(log, service))
	router.Get("/teachers/{id}", teacherGet.New(log, service))
	router.Delete("/teachers/{id}", teacherDelete.New(log, service))

	// Curricula
	router.Post("/curricula", curriculumCreate.New(log, service))
	router.Get("/curricula", curriculumGet.New(log, service))
	router.Get("/curricula/{id}", curriculumGet.New(log, service))
	router.Put("/curricula/{id}", curriculumUpdate.New(log, service))
	router.Delete("/curricula/{id}", curriculumDelete.New(log, service))
	router.Post("/curricula/{id}/recalculate", curriculumRecalc.New(log, service))

	// Schedule slots
	router.Post("/slots", slotCreate.New(log, service))
	router.Get("/slots", slotGet.New(log, service))
	router.Get("/slots/{id}", slotGet.New(log, service))
	router.Put("/slots/{id}", slotEdit.New(log, service))
	router.Delete("/slots/{id}", slotDelete.New(log, service))
	router.Post("/slots/swap", slotSwap.New(log, service))

	// Year transition
	router.Post("/year_transition", yearApply.New(log, service))

	router.Handle("/metrics", promhttp.Handler())

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

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	} else {
		log.Debug("Storage is nil, nothing to close")
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
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
