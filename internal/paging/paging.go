// Package paging provides the pure pagination and filtering helpers used by
// the task listing and search dialogues. Nothing here touches storage.
package paging

import (
	"strings"

	"github.com/balconyRewrap/taskbot/internal/models"
)

// TotalPages returns how many pages of size pageSize are needed for n items.
// Always at least 1, so an empty result still addresses page 0.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Slice returns the items on the given zero-based page. An out-of-range page
// yields an empty slice; wrap-around is the caller's job.
func Slice(tasks []models.Task, page, pageSize int) []models.Task {
	start := page * pageSize
	if page < 0 || start >= len(tasks) {
		return nil
	}
	end := start + pageSize
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end]
}

// Next returns the page after current, wrapping from lastPage back to 0.
func Next(current, lastPage int) int {
	if current >= lastPage {
		return 0
	}
	return current + 1
}

// Prev returns the page before current, wrapping from 0 to lastPage.
func Prev(current, lastPage int) int {
	if current <= 0 {
		return lastPage
	}
	return current - 1
}

// MatchesKeywords reports whether the task name contains any of the keywords
// as a case-insensitive substring.
func MatchesKeywords(task models.Task, keywords []string) bool {
	name := strings.ToLower(task.Name)
	for _, keyword := range keywords {
		if strings.Contains(name, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// MatchesTags reports whether the task carries any of the named tags,
// compared case-insensitively.
func MatchesTags(task models.Task, tags []string) bool {
	for _, want := range tags {
		for _, tag := range task.Tags {
			if strings.EqualFold(tag.Name, want) {
				return true
			}
		}
	}
	return false
}

// Filter returns the tasks matching any keyword or any tag. The two criteria
// combine with OR: a task that matches only a tag is kept even when keywords
// are supplied.
func Filter(tasks []models.Task, keywords, tags []string) []models.Task {
	var out []models.Task
	for _, task := range tasks {
		if MatchesKeywords(task, keywords) || MatchesTags(task, tags) {
			out = append(out, task)
		}
	}
	return out
}
