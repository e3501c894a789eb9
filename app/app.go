// Package app wires configuration, the database, the HTTP router and
// every module together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vidhyasarthi/vidhyasarthi-api/app/middleware"
	quizservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/application"
	quizhandlers "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/handlers"
	rankingservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/application"
	rankinghandlers "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/handlers"
	userservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/application"
	userhandlers "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/handlers"
	"github.com/vidhyasarthi/vidhyasarthi-api/config"
	"github.com/vidhyasarthi/vidhyasarthi-api/db/bundb"
	"github.com/vidhyasarthi/vidhyasarthi-api/internal/genai"
	"github.com/vidhyasarthi/vidhyasarthi-api/pkg/jwt"
)

// App is the assembled application.
type App struct {
	Config *config.Config
	Router chi.Router
	Logger *slog.Logger

	db *bundb.DBService
}

// NewApp builds the application from configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL)
	auth := middleware.Auth(tokens)

	generator := genai.NewClient(cfg.Gemini.APIKey, genai.WithModel(cfg.Gemini.Model))

	db := dbService.GetDB()
	rankingSvc := rankingservice.NewService(db, dbService.Attempts, dbService.Scores, dbService.Users, logger)
	quizSvc := quizservice.NewService(db, dbService.Quizzes, generator, logger)
	userSvc := userservice.NewService(db, dbService.Users, dbService.Scores, tokens, logger)

	rankingH := rankinghandlers.NewHandlers(rankingSvc, logger)
	quizH := quizhandlers.NewHandlers(quizSvc, logger)
	userH := userhandlers.NewHandlers(userSvc, logger)

	metrics := middleware.NewRequestMetrics(prometheus.DefaultRegisterer)
	limiter := middleware.NewIPRateLimiter(rate.Limit(100.0/60.0), 20)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	r.Use(middleware.RateLimit(limiter))
	r.Use(metrics.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/userProfile", userH.Routes(auth))
		r.Mount("/userscore", rankingH.ScoreRoutes(auth))
		r.Mount("/history", rankingH.HistoryRoutes(auth))
		r.Mount("/quiz", quizH.Routes(auth))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return &App{
		Config: cfg,
		Router: r,
		Logger: logger,
		db:     dbService,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.db.GetDB().Close()
}
