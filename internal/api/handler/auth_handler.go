package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskify/internal/api/middleware"
	"taskify/internal/app/service"
	"taskify/internal/common"
)

type AuthHandler struct {
	authService *service.AuthService
	taskService *service.TaskService
}

func NewAuthHandler(authService *service.AuthService, taskService *service.TaskService) *AuthHandler {
	return &AuthHandler{authService: authService, taskService: taskService}
}

// RegisterRoutes mounts the public endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// RegisterProtectedRoutes mounts the endpoints that need an authenticated caller.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Get("/me/tasks", h.myTasks)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

// login accepts the OAuth2 password form (username, password) and, for
// convenience, the same fields as a JSON object.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			common.RespondWithAppError(w, r, common.NewValidationError("body", "invalid form body"))
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := decodeJSON(w, r, &req, false); err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, r, common.ErrUnauthorized)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) myTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, r, common.ErrUnauthorized)
		return
	}
	tasks, total, err := h.taskService.ListTasks(r.Context(), user.ID, service.ListTasksRequest{Limit: service.MaxPageSize})
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	writeTaskList(w, tasks, total)
}
