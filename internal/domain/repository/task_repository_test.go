package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskify/internal/common"
	"taskify/internal/domain/model"
	"taskify/internal/platform/database/dbtest"
)

type taskFixture struct {
	db    *sql.DB
	users UserRepository
	tasks TaskRepository
	clock time.Time
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	db := dbtest.Open(t)
	return &taskFixture{
		db:    db,
		users: NewSQLUserRepository(db),
		tasks: NewSQLTaskRepository(db),
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *taskFixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := newUser(username, username+"@x.com")
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *taskFixture) task(t *testing.T, ownerID, title string, description *string) *model.Task {
	t.Helper()
	f.clock = f.clock.Add(time.Second)
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   f.clock,
		UpdatedAt:   f.clock,
	}
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTaskRepositoryListOrderAndPagination(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")

	var ids []string
	for _, title := range []string{"one", "two", "three", "four"} {
		ids = append(ids, f.task(t, alice.ID, title, nil).ID)
	}

	all, total, err := f.tasks.List(ctx, alice.ID, model.TaskFilter{Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 4 || len(all) != 4 {
		t.Fatalf("total = %d, len = %d, want 4", total, len(all))
	}
	for i, task := range all {
		if task.ID != ids[i] {
			t.Fatalf("position %d = %s, want %s (insertion order)", i, task.ID, ids[i])
		}
	}

	page, total, err := f.tasks.List(ctx, alice.ID, model.TaskFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if total != 4 || len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[3] {
		t.Fatalf("unexpected page: total=%d %+v", total, page)
	}

	past, _, err := f.tasks.List(ctx, alice.ID, model.TaskFilter{Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if past == nil || len(past) != 0 {
		t.Fatalf("past end = %#v, want empty slice", past)
	}
}

func TestTaskRepositoryCompletedFilter(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")

	done := f.task(t, alice.ID, "done", nil)
	f.task(t, alice.ID, "open", nil)
	if _, err := f.tasks.Update(ctx, alice.ID, done.ID, model.TaskPatch{Completed: boolPtr(true)}, f.clock); err != nil {
		t.Fatalf("complete: %v", err)
	}

	tasks, total, err := f.tasks.List(ctx, alice.ID, model.TaskFilter{Limit: 10, Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(tasks) != 1 || tasks[0].ID != done.ID || !tasks[0].Completed {
		t.Fatalf("completed filter: total=%d %+v", total, tasks)
	}

	tasks, total, err = f.tasks.List(ctx, alice.ID, model.TaskFilter{Limit: 10, Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(tasks) != 1 || tasks[0].Title != "open" {
		t.Fatalf("pending filter: total=%d %+v", total, tasks)
	}
}

func TestTaskRepositoryOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	task := f.task(t, alice.ID, "alice's task", strPtr("private"))

	if _, err := f.tasks.FindByID(ctx, bob.ID, task.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("bob get: err = %v, want ErrNotFound", err)
	}
	if _, err := f.tasks.FindByID(ctx, bob.ID, uuid.NewString()); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("bob get missing: err = %v, want ErrNotFound", err)
	}
	if _, err := f.tasks.Update(ctx, bob.ID, task.ID, model.TaskPatch{Title: strPtr("hijacked")}, f.clock); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("bob update: err = %v, want ErrNotFound", err)
	}
	if err := f.tasks.Delete(ctx, bob.ID, task.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("bob delete: err = %v, want ErrNotFound", err)
	}
	bobs, total, err := f.tasks.List(ctx, bob.ID, model.TaskFilter{Limit: 100})
	if err != nil {
		t.Fatalf("bob list: %v", err)
	}
	if total != 0 || len(bobs) != 0 {
		t.Fatalf("bob sees %d tasks", len(bobs))
	}

	got, err := f.tasks.FindByID(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("alice get: %v", err)
	}
	if got.Title != "alice's task" || got.Description == nil || *got.Description != "private" {
		t.Fatalf("alice's task was modified: %+v", got)
	}
}

func TestTaskRepositoryPartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	task := f.task(t, alice.ID, "buy milk", strPtr("two litres"))

	later := f.clock.Add(time.Hour)
	got, err := f.tasks.Update(ctx, alice.ID, task.ID, model.TaskPatch{Completed: boolPtr(true)}, later)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Completed {
		t.Fatal("completed not set")
	}
	if got.Title != "buy milk" || got.Description == nil || *got.Description != "two litres" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	got, err = f.tasks.Update(ctx, alice.ID, task.ID, model.TaskPatch{Title: strPtr("buy oat milk")}, later)
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if got.Title != "buy oat milk" || !got.Completed || *got.Description != "two litres" {
		t.Fatalf("title update: %+v", got)
	}

	got, err = f.tasks.Update(ctx, alice.ID, task.ID, model.TaskPatch{Description: strPtr("")}, later)
	if err != nil {
		t.Fatalf("clear description: %v", err)
	}
	if got.Description != nil {
		t.Fatalf("description = %q, want nil", *got.Description)
	}
	if got.Title != "buy oat milk" {
		t.Fatalf("title changed: %q", got.Title)
	}
}

func TestTaskRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	task := f.task(t, alice.ID, "temporary", nil)

	if err := f.tasks.Delete(ctx, alice.ID, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.tasks.FindByID(ctx, alice.ID, task.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := f.tasks.Delete(ctx, alice.ID, task.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}
