package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/balconyRewrap/taskbot/internal/models"
)

// CreateTask creates a new task for a user with an optional set of tag names.
// Tag names are deduplicated here; a tag that already exists (exact,
// case-sensitive match) is reused, otherwise it is created. Task, tags and
// associations are committed in one transaction so a task is never stored
// with a dangling tag reference. Returns ErrUserNotFound if the user is
// unknown.
func (db *DB) CreateTask(ctx context.Context, userID int64, name string, tags []string) (*models.Task, error) {
	if _, err := db.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (user_id, name) VALUES (?, ?)
	`, userID, name)
	if err != nil {
		return nil, err
	}

	taskID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	for _, tagName := range dedupe(tags) {
		tagID, err := resolveTag(ctx, tx, tagName)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", tagName, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
		`, taskID, tagID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return db.GetTask(ctx, taskID)
}

// resolveTag returns the id of the tag with the given name, creating the tag
// if it does not exist yet.
func resolveTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// GetTask retrieves a task by ID with its tags
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t := &models.Task{}
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, completed, created_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.UserID, &t.Name, &t.Completed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	tags, err := db.GetTaskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags

	return t, nil
}

// ListTasks returns all tasks for a user, oldest first. Completed tasks are
// excluded unless includeCompleted is set.
func (db *DB) ListTasks(ctx context.Context, userID int64, includeCompleted bool) ([]models.Task, error) {
	query := `
		SELECT id, user_id, name, completed, created_at
		FROM tasks
		WHERE user_id = ?
	`
	if !includeCompleted {
		query += " AND completed = 0"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	return db.attachTags(ctx, tasks)
}

// MarkCompleted marks a task as completed. Completion is one-way and
// idempotent: marking an already-completed task is not an error. Returns
// ErrTaskNotFound for an unknown id.
func (db *DB) MarkCompleted(ctx context.Context, taskID int64) error {
	result, err := db.ExecContext(ctx, "UPDATE tasks SET completed = 1 WHERE id = ?", taskID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish an unknown id from an already-completed task.
		var one int
		err := db.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", taskID).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// SearchTasks returns the user's tasks whose name contains any of the
// keywords (case-insensitive substring) or that carry any of the named tags
// (case-insensitive). Keywords and tags combine with OR. Returns
// ErrEmptyQuery when both lists are empty.
func (db *DB) SearchTasks(ctx context.Context, userID int64, keywords, tags []string) ([]models.Task, error) {
	if len(keywords) == 0 && len(tags) == 0 {
		return nil, ErrEmptyQuery
	}

	var conditions []string
	args := []interface{}{userID}

	for _, keyword := range keywords {
		conditions = append(conditions, "LOWER(t.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(keyword)+"%")
	}

	if len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("LOWER(?),", len(tags)), ",")
		conditions = append(conditions, `t.id IN (
			SELECT tt.task_id FROM task_tags tt
			JOIN tags g ON g.id = tt.tag_id
			WHERE LOWER(g.name) IN (`+placeholders+`)
		)`)
		for _, tag := range tags {
			args = append(args, tag)
		}
	}

	query := `
		SELECT t.id, t.user_id, t.name, t.completed, t.created_at
		FROM tasks t
		WHERE t.user_id = ?
		AND (` + strings.Join(conditions, " OR ") + `)
		ORDER BY t.created_at ASC, t.id ASC
	`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	return db.attachTags(ctx, tasks)
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (db *DB) attachTags(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	for i := range tasks {
		tags, err := db.GetTaskTags(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Tags = tags
	}
	return tasks, nil
}
