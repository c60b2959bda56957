package db

import (
	"context"
	"errors"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestCreateUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	user, err := database.CreateUser(ctx, 42, "Alice", "+79991234567")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != 42 || user.Name != "Alice" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := database.CreateUser(ctx, 42, "Alice", "+79991234567"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := database.GetUser(ctx, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateTaskReusesTags(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if _, err := database.CreateUser(ctx, 1, "Alice", "+79991234567"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	first, err := database.CreateTask(ctx, 1, "Write tests", []string{"work", "urgent", "work"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	// Duplicate candidate names collapse at commit.
	if len(first.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(first.Tags))
	}

	if _, err := database.CreateTask(ctx, 1, "Review PR", []string{"work"}); err != nil {
		t.Fatalf("create second task: %v", err)
	}

	tags, err := database.ListTags(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	// "work" is reused, not duplicated.
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags in store, got %d", len(tags))
	}

	if _, err := database.CreateTask(ctx, 99, "Orphan", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListTasksExcludesCompleted(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	database.CreateUser(ctx, 1, "Alice", "+79991234567")
	open, _ := database.CreateTask(ctx, 1, "Open task", nil)
	done, _ := database.CreateTask(ctx, 1, "Done task", nil)

	if err := database.MarkCompleted(ctx, done.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	tasks, err := database.ListTasks(ctx, 1, false)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != open.ID {
		t.Fatalf("expected only the open task, got %v", tasks)
	}

	all, err := database.ListTasks(ctx, 1, true)
	if err != nil {
		t.Fatalf("list all tasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	database.CreateUser(ctx, 1, "Alice", "+79991234567")
	task, _ := database.CreateTask(ctx, 1, "Once", nil)

	if err := database.MarkCompleted(ctx, task.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	// Marking again is a no-op, not an error.
	if err := database.MarkCompleted(ctx, task.ID); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	reloaded, err := database.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !reloaded.Completed {
		t.Fatalf("expected task to stay completed")
	}

	if err := database.MarkCompleted(ctx, 12345); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSearchTasks(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	database.CreateUser(ctx, 1, "Alice", "+79991234567")
	database.CreateUser(ctx, 2, "Bob", "+79997654321")
	database.CreateTask(ctx, 1, "Report Q1", []string{"work"})
	database.CreateTask(ctx, 1, "Buy milk", []string{"report"})
	database.CreateTask(ctx, 2, "Report Q2", []string{"work"})

	// Keyword-only: only the name substring matches; the tag named
	// "report" does not count when the tag list is empty.
	tasks, err := database.SearchTasks(ctx, 1, []string{"report"}, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Report Q1" {
		t.Fatalf("keyword search: got %v", tasks)
	}

	// Keywords OR tags: a task matching only a tag is included.
	tasks, err = database.SearchTasks(ctx, 1, []string{"report"}, []string{"report"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("combined search: expected 2 tasks, got %d", len(tasks))
	}

	// Tag matching is case-insensitive in search.
	tasks, err = database.SearchTasks(ctx, 1, nil, []string{"WORK"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Report Q1" {
		t.Fatalf("tag search: got %v", tasks)
	}

	// Results are scoped to the requesting user.
	tasks, err = database.SearchTasks(ctx, 2, []string{"report"}, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Report Q2" {
		t.Fatalf("user scoping: got %v", tasks)
	}

	if _, err := database.SearchTasks(ctx, 1, nil, nil); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}
