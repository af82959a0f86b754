package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/clipcontrol/internal/auth"
	"github.com/inamate/clipcontrol/internal/config"
	"github.com/inamate/clipcontrol/internal/export"
	mw "github.com/inamate/clipcontrol/internal/middleware"
	"github.com/inamate/clipcontrol/internal/session"
)

const bcryptCost = 12

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.HostKey, bcryptCost)
	if err != nil {
		slog.Error("create auth service", "error", err)
		os.Exit(1)
	}
	authHandler := auth.NewHandler(authService)

	hub := session.NewHub(
		session.WithHubLogger(logger),
		session.WithMaxWidgets(cfg.MaxWidgets),
	)
	go hub.Run()

	origins := cfg.Origins()
	sessionHandler := session.NewHandler(hub, cfg.Layout, mw.OriginHosts(origins))
	exportHandler := export.NewHandler(cfg.FfmpegPath)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Auth routes (public)
	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	// Export plan (public, pure computation)
	r.HandleFunc("/export/crop", exportHandler.Crop).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/widgets", sessionHandler.List).Methods("GET")
	api.HandleFunc("/widgets/{widgetId}", sessionHandler.Get).Methods("GET")

	// WebSocket endpoint, token via query parameter
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authService.AuthMiddleware)
	ws.HandleFunc("/widget", sessionHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "layoutFile", cfg.LayoutFile)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
