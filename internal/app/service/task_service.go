package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskify/internal/common"
	"taskify/internal/domain/model"
	"taskify/internal/domain/repository"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, validate: newValidator(), now: time.Now}
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

// UpdateTaskRequest is a partial update; omitted fields keep their value.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   *bool   `json:"completed"`
}

type ListTasksRequest struct {
	Skip      int   `json:"skip" validate:"min=0"`
	Limit     int   `json:"limit" validate:"min=1"`
	Completed *bool `json:"completed"`
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, req CreateTaskRequest) (*model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = normalizeDescription(req.Description)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.Description != nil && *req.Description == "" {
		req.Description = nil
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns one page of the owner's tasks in insertion order together
// with the owner's total matching count. A limit above MaxPageSize is clamped.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, req ListTasksRequest) ([]model.Task, int, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, 0, err
	}
	if req.Limit > MaxPageSize {
		req.Limit = MaxPageSize
	}

	tasks, total, err := s.taskRepo.List(ctx, ownerID, model.TaskFilter{
		Limit:     req.Limit,
		Offset:    req.Skip,
		Completed: req.Completed,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, wrapTaskErr("failed to get task", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, req UpdateTaskRequest) (*model.Task, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	req.Description = normalizeDescription(req.Description)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	patch := model.TaskPatch{Title: req.Title, Description: req.Description, Completed: req.Completed}
	if patch.IsEmpty() {
		return nil, common.NewValidationError("body", "at least one of title, description or completed must be provided")
	}

	task, err := s.taskRepo.Update(ctx, ownerID, taskID, patch, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, wrapTaskErr("failed to update task", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		return wrapTaskErr("failed to delete task", err)
	}
	return nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	return &trimmed
}

func wrapTaskErr(msg string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
