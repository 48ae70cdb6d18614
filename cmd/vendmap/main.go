package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campus-maps/vendmap/internal/config"
	dbRedis "github.com/campus-maps/vendmap/internal/db/redis"
	logpkg "github.com/campus-maps/vendmap/internal/logger"
	"github.com/campus-maps/vendmap/internal/metrics"
	machinerepo "github.com/campus-maps/vendmap/internal/repository/machine"
	searchrepo "github.com/campus-maps/vendmap/internal/repository/search"
	chiTransport "github.com/campus-maps/vendmap/internal/transport/chi"
	openaiTransport "github.com/campus-maps/vendmap/internal/transport/openai"
	"github.com/campus-maps/vendmap/internal/transport/ors"
	directionsuc "github.com/campus-maps/vendmap/internal/usecase/directions"
	interpretuc "github.com/campus-maps/vendmap/internal/usecase/interpret"
	searchuc "github.com/campus-maps/vendmap/internal/usecase/search"
	"github.com/campus-maps/vendmap/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vendmap API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// The read path assumes the index exists; create it here so a fresh
	// deployment serves empty results instead of errors.
	if err := machinerepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix).EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure machine index", zap.Error(err))
	}

	searchRepo := searchrepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix).
		WithTimeout(time.Duration(cfg.Database.SearchTimeoutSec) * time.Second)
	searchSvc := searchuc.New(searchRepo, cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize)

	directionsSvc := directionsuc.New(ors.New(&ors.Config{
		BaseURL: cfg.Directions.BaseURL,
		APIKey:  cfg.Directions.APIKey,
		Timeout: time.Duration(cfg.Directions.TimeoutSec) * time.Second,
		Logger:  logger,
	}))

	interpretSvc := interpretuc.New(openaiTransport.NewInterpreter(&openaiTransport.Config{
		APIKey:  cfg.Interpret.APIKey,
		BaseURL: cfg.Interpret.BaseURL,
		Model:   cfg.Interpret.Model,
		Logger:  logger,
	}))

	server := chiTransport.NewServer(searchSvc, directionsSvc, interpretSvc, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
