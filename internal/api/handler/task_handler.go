package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskify/internal/api/middleware"
	"taskify/internal/app/service"
	"taskify/internal/common"
	"taskify/internal/domain/model"
)

const TotalCountHeader = "X-Total-Count"

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listTasks)
	r.Post("/", h.createTask)
	r.Get("/{id}", h.getTask)
	r.Put("/{id}", h.updateTask)
	r.Delete("/{id}", h.deleteTask)
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, r, common.ErrUnauthorized)
		return
	}
	var req service.CreateTaskRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, r, common.ErrUnauthorized)
		return
	}
	req, err := parseListQuery(r)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}

	tasks, total, err := h.taskService.ListTasks(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	writeTaskList(w, tasks, total)
}

func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(r.Context(), user, taskID)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}
	var req service.UpdateTaskRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), user, taskID, req)
	if err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(r.Context(), user, taskID); err != nil {
		common.RespondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// taskScope returns the caller id and the task id from the path. An id that
// is not a UUID cannot name any task and is answered with 404.
func taskScope(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, r, common.ErrUnauthorized)
		return "", "", false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithAppError(w, r, common.ErrNotFound)
		return "", "", false
	}
	return user.ID, id.String(), true
}

func parseListQuery(r *http.Request) (service.ListTasksRequest, error) {
	q := r.URL.Query()
	req := service.ListTasksRequest{Limit: service.DefaultPageSize}
	var fields []common.FieldError

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields = append(fields, common.FieldError{Field: "skip", Message: "must be an integer"})
		}
		req.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields = append(fields, common.FieldError{Field: "limit", Message: "must be an integer"})
		}
		req.Limit = n
	}
	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fields = append(fields, common.FieldError{Field: "completed", Message: "must be a boolean"})
		}
		req.Completed = &b
	}
	if len(fields) > 0 {
		return req, &common.ValidationError{Fields: fields}
	}
	return req, nil
}

func writeTaskList(w http.ResponseWriter, tasks []model.Task, total int) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	common.RespondWithJSON(w, http.StatusOK, tasks)
}
