package models

import "time"

// User is a registered chat user, keyed by the platform-assigned identity
type User struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Tag is a deduplicated text label attached to tasks
type Tag struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Task represents a single task owned by one user
type Task struct {
	ID        int64
	UserID    int64
	Name      string
	Completed bool
	CreatedAt time.Time
	Tags      []Tag // populated when loading tasks
}
