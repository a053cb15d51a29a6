package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"taskify/internal/api/handler"
	"taskify/internal/api/middleware"
	"taskify/internal/app/service"
	"taskify/internal/common"
)

type RouterConfig struct {
	Version              string
	RequestTimeout       time.Duration
	SlowRequestThreshold time.Duration
}

func NewRouter(
	cfg RouterConfig,
	authService *service.AuthService,
	taskService *service.TaskService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.ResponseMeta(cfg.SlowRequestThreshold))
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithAppError(w, r, common.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	healthHandler := handler.NewHealthHandler(cfg.Version)
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	authHandler := handler.NewAuthHandler(authService, taskService)
	taskHandler := handler.NewTaskHandler(taskService)
	authenticate := middleware.Authenticator(authService)

	r.Route("/auth", func(auth chi.Router) {
		authHandler.RegisterRoutes(auth)
		auth.Group(func(protected chi.Router) {
			protected.Use(authenticate)
			authHandler.RegisterProtectedRoutes(protected)
		})
	})

	r.Route("/tasks", func(tasks chi.Router) {
		tasks.Use(authenticate)
		taskHandler.RegisterRoutes(tasks)
	})

	return r
}
