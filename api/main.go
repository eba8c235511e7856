package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"bargainer/internal/aggregator"
	"bargainer/internal/config"
	"bargainer/internal/logger"
	"bargainer/internal/provider"
	"bargainer/internal/ratelimit"
	"bargainer/internal/tools"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadServer()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	sources, err := config.LoadSources()
	if err != nil {
		log.Error("load sources", slog.Any("err", err))
		os.Exit(1)
	}

	limiter := ratelimit.NewLimiter(cfg.RateWindow)
	agg := aggregator.New(log, cfg.ProviderTimeout)
	registerProviders(log, agg, limiter, sources)

	if len(agg.Providers()) == 0 {
		log.Warn("no providers registered; every aggregation will be empty")
	}

	srv := &server{log: log, tools: tools.New(agg, log), providers: agg.Providers()}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/tools", srv.handleCatalog)
	r.Post("/tools/{tool}", srv.handleToolCall)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.Any("providers", agg.Providers()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

func registerProviders(log *slog.Logger, agg *aggregator.Aggregator, limiter *ratelimit.Limiter, sources []config.SourceEntry) {
	for _, entry := range sources {
		if !entry.Enabled {
			continue
		}
		switch entry.Kind {
		case config.KindAPI:
			agg.Add(provider.NewAPI(entry.Source, limiter, log))
		case config.KindKeyedAPI:
			agg.Add(provider.NewKeyedAPI(entry.Source, entry.APIKey, limiter, log))
		case config.KindScrape:
			agg.Add(provider.NewScrape(entry.Source, limiter, log))
		default:
			log.Warn("skipping source with unknown kind",
				slog.String("source", entry.Name),
				slog.String("kind", string(entry.Kind)),
			)
		}
	}
}

type server struct {
	log       *slog.Logger
	tools     *tools.Handler
	providers []string
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": len(s.providers),
	})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools":          tools.Catalog(),
		"sources":        s.providers,
		"categories":     config.Categories,
		"popular_stores": config.PopularStores,
	})
}

func (s *server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool")

	args, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Error: " + err.Error()})
		return
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	result, err := s.tools.Dispatch(r.Context(), name, args)
	if err != nil {
		// Tool failures stay structured results, never transport faults.
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
