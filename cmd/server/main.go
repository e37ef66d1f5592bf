package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/handlers"
	mw "sehatin/internal/middleware"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	baseURL := os.Getenv("UPSTREAM_BASE_URL")
	if baseURL == "" {
		logger.Fatal("UPSTREAM_BASE_URL is required")
	}
	port := mustGetenv("PORT", "8080")
	statePath := mustGetenv("STATE_DB", "sehatin.db")

	timeout := 10 * time.Second
	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		} else {
			logger.Warn("invalid UPSTREAM_TIMEOUT, using default", zap.String("value", raw))
		}
	}

	api := upstream.New(baseURL, timeout)

	sessions, err := session.Open(statePath)
	if err != nil {
		logger.Fatal("failed to open state db", zap.Error(err))
	}
	defer sessions.Close()

	// Daily aggregates must not survive across days; the short TTL backstops
	// the explicit invalidation done by the mutation handlers.
	store := cache.New(5 * time.Minute)

	stateHandler := handlers.NewAppStateHandler(api, store, logger)
	dashboardHandler := handlers.NewDashboardHandler(api, store, logger)
	checkinHandler := handlers.NewCheckinHandler(api, store, logger)
	profileHandler := handlers.NewProfileHandler(api, store, logger)
	statsHandler := handlers.NewStatsHandler(api, store, logger)
	chatHandler := handlers.NewChatHandler(api, store, sessions, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/app", func(app chi.Router) {
		app.Use(mw.RequireToken)
		app.Get("/state", stateHandler.Get)
		app.Get("/dashboard", dashboardHandler.Get)
		app.Post("/checkin", checkinHandler.Post)
		app.Put("/profile", profileHandler.Update)
		app.Get("/weights", statsHandler.ListWeights)
		app.Get("/stats/weight", statsHandler.WeightChart)
		app.Get("/stats/calories", statsHandler.CalorieChart)
		app.Get("/chat/messages", chatHandler.Messages)
		app.Post("/chat/messages", chatHandler.Send)
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port), zap.String("upstream", baseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
