// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-i18ntabs/internal/admin"
	"github.com/olegiv/ocms-i18ntabs/internal/cache"
	"github.com/olegiv/ocms-i18ntabs/internal/config"
	"github.com/olegiv/ocms-i18ntabs/internal/demo"
	"github.com/olegiv/ocms-i18ntabs/internal/locale"
	"github.com/olegiv/ocms-i18ntabs/internal/logging"
	"github.com/olegiv/ocms-i18ntabs/internal/middleware"
	"github.com/olegiv/ocms-i18ntabs/internal/render"
	"github.com/olegiv/ocms-i18ntabs/internal/scheduler"
	"github.com/olegiv/ocms-i18ntabs/internal/session"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
	"github.com/olegiv/ocms-i18ntabs/internal/version"
	"github.com/olegiv/ocms-i18ntabs/web"
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
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "i18ntabs - translation tabs for the content admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_DB_PATH         SQLite database path (default: ./data/i18ntabs.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_LOCALES_FILE    YAML or TOML locale settings (default: built-in)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_REDIS_URL       Redis URL for the translation cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  I18NTABS_DEMO_MODE       Reset and reseed the demo database daily\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The demo database is dropped before it is opened.
	if cfg.DemoMode {
		if _, err := demo.ResetIfNeeded(cfg.DBPath, dbDir); err != nil {
			return fmt.Errorf("demo reset: %w", err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Warnings and errors also go to the events table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	settings := locale.DefaultSettings()
	if cfg.LocalesFile != "" {
		settings, err = locale.LoadSettings(cfg.LocalesFile)
		if err != nil {
			return fmt.Errorf("loading locales: %w", err)
		}
	}
	registry, err := locale.New(settings)
	if err != nil {
		return fmt.Errorf("configuring locales: %w", err)
	}
	slog.Info("locales configured", "languages", registry.Codes(), "default", registry.Default())

	c, backend := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("error closing cache", "backend", backend, "error", err)
		}
	}()
	translations := cache.NewTranslationCache(c, cfg.CacheTTL)

	st := store.NewStore(db, registry, translations, logger)

	ctx := context.Background()
	if cfg.DoSeed || cfg.DemoMode {
		if err := demo.Seed(ctx, st, logger); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	adminHandler := admin.NewHandler(admin.Config{
		Store:          st,
		Registry:       registry,
		Renderer:       renderer,
		Sessions:       sessionManager,
		Logger:         logger,
		PreviewLimiter: middleware.NewRateLimiter(cfg.PreviewRate, cfg.PreviewBurst),
		RevisionsShown: cfg.RevisionKeep,
	})
	for _, m := range demo.Admins() {
		if err := adminHandler.Register(m); err != nil {
			return fmt.Errorf("registering %s admin: %w", m.Schema.Name, err)
		}
	}

	sched := scheduler.New(st, scheduler.Config{
		Schedule:        cfg.PruneSchedule,
		RevisionKeep:    cfg.RevisionKeep,
		EventsRetention: cfg.EventsRetention,
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin/", http.StatusFound)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.EditLocale(registry))
		r.Mount("/", adminHandler.Routes())
	})

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "cache", backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
