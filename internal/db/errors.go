package db

import "errors"

var (
	// ErrUserExists is returned when creating a user whose identity is
	// already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when a user id cannot be resolved.
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when a task id cannot be resolved.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyQuery is returned by SearchTasks when neither keywords nor
	// tags are supplied. An unconstrained search is not offered.
	ErrEmptyQuery = errors.New("search requires at least one keyword or tag")
)
