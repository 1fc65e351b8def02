package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/talx-hub/points-ledger/internal/api/middlewares"
	"github.com/talx-hub/points-ledger/internal/service/config"
)

type CustomRouter struct {
	router *chi.Mux
	logger *slog.Logger
	cfg    *config.Config
}

func New(cfg *config.Config, log *slog.Logger) *CustomRouter {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		log = slog.Default()
	}
	router := &CustomRouter{
		router: chi.NewRouter(),
		logger: log,
		cfg:    cfg,
	}

	return router
}

type LedgerHandler interface {
	Adjust(w http.ResponseWriter, r *http.Request)
	UploadBatch(w http.ResponseWriter, r *http.Request)
}

type HistoryHandler interface {
	Recent(w http.ResponseWriter, r *http.Request)
	Totals(w http.ResponseWriter, r *http.Request)
	Users(w http.ResponseWriter, r *http.Request)
	Batches(w http.ResponseWriter, r *http.Request)
	Entries(w http.ResponseWriter, r *http.Request)
}

type FeedHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type Handler interface {
	LedgerHandler
	HistoryHandler
	FeedHandler
	HealthHandler
}

func (cr *CustomRouter) SetRouter(h Handler) {
	cr.router.Use(middleware.RequestID)
	cr.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(cr.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	cr.router.Use(middleware.Recoverer)
	cr.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cr.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	cr.router.Route("/api/admin", func(r chi.Router) {
		r.Use(middlewares.Authentication([]byte(cr.cfg.SecretKey), cr.logger))

		r.With(middleware.AllowContentType("application/json")).
			Post("/users/{id}/adjust", h.Adjust)
		r.With(middleware.AllowContentType("text/csv", "text/plain")).
			Post("/batches", h.UploadBatch)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.AdminOnly)
			r.Get("/batches", h.Batches)
			r.Get("/users", h.Users)
			r.Get("/users/{id}/entries", h.Entries)
			r.Get("/redemptions", h.Recent)
			r.Get("/totals", h.Totals)
			r.Get("/feed", h.Stream)
		})
	})
	cr.router.Get("/ping", h.Ping)

	cr.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)
	})
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
