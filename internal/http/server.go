package httpapi

import (
	"net/http"

	"popup-backend-go/internal/config"
	"popup-backend-go/internal/models"
	"popup-backend-go/internal/services"
	"popup-backend-go/internal/updates"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	Config  config.Config
	Repo    services.Repository
	Survey  *services.Survey
	Errors  *services.ServerLogger
	Feed    *services.LogFeed
	Updates *updates.Storage
}

func NewServer(cfg config.Config, repo services.Repository, feed *services.LogFeed, store *updates.Storage) *Server {
	return &Server{
		Config:  cfg,
		Repo:    repo,
		Survey:  services.NewSurvey(repo, feed, cfg.LogViewLimit),
		Errors:  services.NewServerLogger(repo, feed),
		Feed:    feed,
		Updates: store,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(s.Recoverer)
	r.Use(middleware.CleanPath)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	s.surveyRoutes(r, models.Production)
	r.Get("/server_logs_view", s.LogsView(models.Production, models.TableServerLogs))
	r.Route("/demo", func(demo chi.Router) {
		s.surveyRoutes(demo, models.Demo)
	})

	r.Post("/upload", s.Upload)
	r.Get("/control", s.Control)
	r.Get("/logs", s.LogsPage)
	r.Get("/my-app-updates/*", s.DownloadUpdate)
	r.Get("/media/*", s.Media)
	r.Get("/ws/logs", s.LogsSocket)

	r.Get("/healthz", s.Healthz)
	r.Get("/readyz", s.Readyz)
	return r
}

func (s *Server) surveyRoutes(r chi.Router, ns models.Namespace) {
	r.Get("/", s.Prompt(ns))
	r.Post("/register_customer", s.RegisterCustomer(ns))
	r.Post("/record_data", s.RecordAnswer(ns))
	r.Post("/logs/record_data", s.RecordDelivery(ns))
	r.Get("/popup_logs_check", s.PopupLogsCheck(ns))
	r.Get("/logs_view", s.LogsView(ns, services.LogTableFor(ns)))
}
