// cmd/web/main.go
//
// Themable – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (.env → conf/global.yaml → THEMABLE_ env vars).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Build the themed resolver over the content root and activate the
//     configured theme.  An empty or unknown theme aborts startup.
//
//  4. Build the page engine on top of the resolver; purge its cache on
//     every theme switch.
//
//  5. Assemble the router:
//
//     • recover / request-id / request log     – always
//     • HTTPS redirect                         – when http.force_https
//     • security headers (HSTS)                – outside development
//     • /metrics                               – Prometheus
//     • /admin/theme                           – theme switching API
//     • /wwwroot/*                             – static assets
//     • /*                                     – themed pages
//
//  6. Serve until SIGINT / SIGTERM, then shut down and close the resolver.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/themable/internal/admin"
	"github.com/yanizio/themable/internal/config"
	"github.com/yanizio/themable/internal/logger"
	"github.com/yanizio/themable/internal/middleware"
	"github.com/yanizio/themable/internal/pages"
	"github.com/yanizio/themable/internal/server"
	"github.com/yanizio/themable/internal/theme"
	"github.com/yanizio/themable/internal/view"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(logger.Options{
		Dir:   filepath.Join(cfg.Paths.Root, "logs"),
		Tee:   runningInTTY(),
		Debug: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Themed resolver ─────────────────────────────────────────────
	//
	files, themes, err := theme.New(cfg.Paths.ContentRoot, logOut)
	if err != nil {
		logOut.Fatalf("theme resolver: %v", err)
	}
	defer func() { _ = files.Close() }()

	if err := themes.ChangeTheme(cfg.Theme); err != nil {
		logOut.Fatalf("activate theme %q: %v", cfg.Theme, err)
	}

	//
	// ── 2.  Page engine ─────────────────────────────────────────────────
	//
	views := view.New(files, themes, cfg.View.CacheSize, logOut)
	themes.OnChange(func(_, _ string) { views.Purge() })

	pageHandler := &pages.Handler{Views: views, Log: logOut}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(logOut))
	r.Use(middleware.Recover(logOut, cfg.IsDevelopment(), pageHandler.ErrorPage()))
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}
	if !cfg.IsDevelopment() {
		r.Use(middleware.Security)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/admin/theme", (&admin.Component{Themes: themes, Log: logOut}).Routes())

	static := http.Dir(filepath.Join(cfg.Paths.ContentRoot, "wwwroot"))
	r.Handle("/wwwroot/*", http.StripPrefix("/wwwroot/", http.FileServer(static)))

	r.Get("/*", pageHandler.ServeHTTP)

	//
	// ── 4.  Serve until signalled ───────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr, "theme", themes.CurrentThemeName())
	if err := server.Run(ctx, server.New(cfg.HTTP, r)); err != nil {
		logOut.Errorw("http server", "err", err)
		return
	}
	logOut.Infow("shutdown complete")
}
