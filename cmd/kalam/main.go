// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/fauzinoor/kalam/internal/auth"
	"github.com/fauzinoor/kalam/internal/cache"
	"github.com/fauzinoor/kalam/internal/config"
	"github.com/fauzinoor/kalam/internal/events"
	"github.com/fauzinoor/kalam/internal/handler/api"
	"github.com/fauzinoor/kalam/internal/imaging"
	"github.com/fauzinoor/kalam/internal/logging"
	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/scheduler"
	"github.com/fauzinoor/kalam/internal/service"
	"github.com/fauzinoor/kalam/internal/storage"
	"github.com/fauzinoor/kalam/internal/store"
	"github.com/fauzinoor/kalam/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	versionInfo := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	baseHandler, logCloser, err := logging.NewHandler(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	logger := slog.New(baseHandler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbCfg := store.DefaultDBConfig()
	dbCfg.Dialect = store.Dialect(cfg.DBDialect)
	dbCfg.Path = cfg.DBPath
	dbCfg.URL = cfg.DatabaseURL
	dbCfg.MaxOpenConns = cfg.DBMaxOpenConns
	slog.Info("initializing database", "dialect", dbCfg.Dialect)
	db, err := store.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db, dbCfg.Dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewStore(db, dbCfg.Dialect)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	logger = slog.New(logging.NewEventLogHandler(baseHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Cache
	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.DefaultTTL = cfg.CacheTTL
	cacheCfg.MaxSize = cfg.CacheMaxSize
	appCache, backend := cache.New(cacheCfg, logger)
	defer func() { _ = appCache.Close() }()

	checks := map[string]api.Pinger{"database": db}
	if rc, ok := appCache.(*cache.RedisCache); ok {
		checks["redis"] = api.PingFunc(rc.Ping)
	}
	slog.Info("cache ready", "backend", backend)

	// Object storage
	var (
		objects storage.Storage
		local   *storage.LocalStorage
	)
	if cfg.UseS3() {
		objects, err = storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		}, logger)
		if err != nil {
			return fmt.Errorf("initializing S3 storage: %w", err)
		}
	} else {
		local, err = storage.NewLocalStorage(cfg.UploadsDir, cfg.UploadsURL)
		if err != nil {
			return fmt.Errorf("initializing local storage: %w", err)
		}
		objects = local
		slog.Info("local storage initialized", "dir", cfg.UploadsDir)
	}

	// Domain events
	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.UseNATS() {
		np, err := events.NewNATSPublisher(ctx, cfg.NATSURL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, logging events instead", "error", err)
		} else {
			publisher = np
		}
	}
	defer func() { _ = publisher.Close() }()
	dispatcher := events.NewDispatcher(publisher, logger, events.DefaultConfig())
	dispatcher.Start()
	defer dispatcher.Stop()

	// Identity
	verifier, err := auth.NewVerifier(ctx, auth.Options{
		JWKSURL:  cfg.JWKSURL,
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing token verifier: %w", err)
	}
	if cfg.OwnerID == "" {
		logger.Warn("KALAM_OWNER_ID is not set: every signed-in user can use the admin API", "category", "auth")
	}

	// Services
	media := service.NewMediaService(imaging.NewProcessor(cfg.MaxUploadBytes, cfg.ImageMaxDimension), objects, logger)
	menus := service.NewMenuService(st, appCache, cfg.CacheTTL, logger)
	posts := service.NewPostService(st, dispatcher, logger)
	comments := service.NewCommentService(st, dispatcher, logger)

	sched := scheduler.New(scheduler.Config{
		Posts:                    posts,
		Menus:                    menus,
		Comments:                 comments,
		Events:                   st,
		RejectedCommentRetention: cfg.RejectedCommentRetention,
		EventLogRetention:        cfg.EventLogRetention,
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(api.Deps{
		Menus:          menus,
		Posts:          posts,
		Ebooks:         service.NewEbookService(st, media, dispatcher, logger),
		Portfolios:     service.NewPortfolioService(st, media, logger),
		Comments:       comments,
		Profiles:       service.NewProfileService(st, media, cfg.OwnerID, logger),
		Media:          media,
		Events:         st,
		Jobs:           sched.Registry(),
		Health:         api.NewHealthChecker(versionInfo.Version, checks),
		Cache:          appCache,
		CacheBackend:   backend,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})
	limiter := middleware.NewRateLimiter(cfg.CommentRatePerMinute, cfg.CommentRateBurst, logger)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	headers := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	headers.ExcludePaths = []string{cfg.UploadsURL + "/"}
	r.Use(middleware.SecurityHeaders(headers))

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	r.Get("/healthz", apiHandler.Health)
	r.Mount("/api/v1", apiHandler.Routes(verifier, cfg.OwnerID, limiter))

	if local != nil {
		prefix := strings.TrimSuffix(cfg.UploadsURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(local.BasePath()))))
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
