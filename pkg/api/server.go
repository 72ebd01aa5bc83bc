// Package api Bodyfile REST API
//
// @title           Bodyfile REST API
// @version         1.0.0
// @description     REST API for parsing, formatting and cataloguing bodyfile v3 records.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

const (
	metricsUpdateInterval = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// NewRouter builds the HTTP handler for server. Metrics are registered with
// and served from registry.
func NewRouter(server *Server, registry *prometheus.Registry) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if server.config.APIKey != "" {
			r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))
		}

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Codec
		r.Post("/parse", metrics.InstrumentHandler("POST", "/api/v1/parse", server.handleParse))
		r.Post("/format", metrics.InstrumentHandler("POST", "/api/v1/format", server.handleFormat))

		// Catalog
		r.Post("/records", metrics.InstrumentHandler("POST", "/api/v1/records", server.handleCreateRecords))
		r.Get("/records", metrics.InstrumentHandler("GET", "/api/v1/records", server.handleListRecords))
		r.Get("/records/{id}", metrics.InstrumentHandler("GET", "/api/v1/records/{id}", server.handleGetRecord))
		r.Put("/records/{id}", metrics.InstrumentHandler("PUT", "/api/v1/records/{id}", server.handleUpdateRecord))
		r.Delete("/records/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/records/{id}", server.handleDeleteRecord))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			server.logger.Error("failed to generate swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, store IRecordStore, config ServerConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)
	server := NewServer(store, config, NewMetrics(registry), logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Bind, config.Port),
		Handler:           NewRouter(server, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	updaterCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start background metrics updater
	go server.startMetricsUpdater(updaterCtx, metricsUpdateInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting bodyfile REST API server", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down bodyfile REST API server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
