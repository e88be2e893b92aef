// Package main is the entry point for the Travenion API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"

	"travenion/internal/config"
	"travenion/internal/geocode"
	"travenion/internal/handler"
	"travenion/internal/middleware"
	"travenion/internal/repo"
	"travenion/internal/service"
	"travenion/internal/storage"
	"travenion/internal/token"
	"travenion/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog with a JSON handler writes machine-readable output suitable
	// for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// Apply pending migrations at boot from the embedded SQL files, so a
	// deployment is never running against a stale schema.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Object storage ---------------------------------------------------
	store, err := storage.NewMinIOStore(context.Background(), storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		slog.Error("failed to connect to object storage", "error", err)
		os.Exit(1)
	}
	slog.Info("object storage connected", "bucket", cfg.MinIOBucket)

	// --- Geocoding --------------------------------------------------------
	// nil Geocoder disables address lookup; attractions keep null coordinates.
	var geocoder geocode.Geocoder
	if cfg.GeocoderBaseURL != "" {
		geocoder = geocode.NewClient(cfg.GeocoderBaseURL)
	}

	// --- Repos and services ----------------------------------------------
	issuer := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	users := repo.NewUserRepo(pool)
	plans := repo.NewPlanRepo(pool)
	shares := repo.NewShareRepo(pool)
	days := repo.NewDayRepo(pool)
	attractions := repo.NewAttractionRepo(pool)
	files := repo.NewFileRepo(pool)

	planService := service.NewPlanService(plans, shares, users, files, store)
	srv := handler.NewServer(
		service.NewAuthService(users, issuer),
		planService,
		service.NewPublicService(plans, days, attractions),
		service.NewDayService(planService, days),
		service.NewAttractionService(planService, days, attractions, geocoder),
		service.NewFileService(planService, files, store),
		service.NewExportService(planService, days, attractions),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID -> RealIP -> Logger ->
	// Recoverer -> CORS. RequestID generates a unique trace ID per request,
	// RealIP sets r.RemoteAddr from X-Forwarded-For (safe behind a proxy),
	// SlogLogger writes one structured JSON log line per request, and
	// Recoverer turns panics into HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	r.Mount("/", srv.Routes(issuer, cfg.MaxUploadBytes))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending migrations using the embedded SQL files.
// goose needs a database/sql connection, separate from the pgx pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	if len(results) > 0 {
		slog.Info("migrations applied", "count", len(results))
	}
	return nil
}
