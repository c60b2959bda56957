package paging

import (
	"fmt"
	"testing"

	"github.com/balconyRewrap/taskbot/internal/models"
)

func makeTasks(n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{ID: int64(i + 1), Name: fmt.Sprintf("task %d", i+1)}
	}
	return tasks
}

func tagged(name string, tags ...string) models.Task {
	t := models.Task{Name: name}
	for _, tag := range tags {
		t.Tags = append(t.Tags, models.Tag{Name: tag})
	}
	return t
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		n, pageSize, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{10, 1, 10},
		{7, 3, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.n, c.pageSize); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.n, c.pageSize, got, c.want)
		}
	}
}

func TestSlice(t *testing.T) {
	tasks := makeTasks(12)

	page := Slice(tasks, 0, 5)
	if len(page) != 5 || page[0].ID != 1 || page[4].ID != 5 {
		t.Fatalf("page 0: got %d tasks starting at %v", len(page), page[0].ID)
	}

	page = Slice(tasks, 2, 5)
	if len(page) != 2 || page[0].ID != 11 || page[1].ID != 12 {
		t.Fatalf("page 2: expected tasks 11-12, got %v", page)
	}

	// Out-of-range pages yield an empty slice, not a panic.
	if page := Slice(tasks, 3, 5); len(page) != 0 {
		t.Fatalf("expected empty slice for out-of-range page, got %d tasks", len(page))
	}
	if page := Slice(tasks, -1, 5); len(page) != 0 {
		t.Fatalf("expected empty slice for negative page, got %d tasks", len(page))
	}
}

func TestWrapAround(t *testing.T) {
	lastPage := 2

	if got := Next(lastPage, lastPage); got != 0 {
		t.Fatalf("Next from last page = %d, want 0", got)
	}
	if got := Prev(0, lastPage); got != lastPage {
		t.Fatalf("Prev from page 0 = %d, want %d", got, lastPage)
	}

	// Repeated Next cycles through every page and returns to 0 after
	// exactly totalPages calls.
	page := 0
	for i := 0; i < lastPage+1; i++ {
		page = Next(page, lastPage)
	}
	if page != 0 {
		t.Fatalf("expected to cycle back to page 0, got %d", page)
	}
}

func TestFilterOrSemantics(t *testing.T) {
	tasks := []models.Task{
		tagged("Report Q1", "work"),
		tagged("Buy milk", "report"),
		tagged("Walk the dog", "home"),
	}

	// Keyword-only: case-insensitive substring match on the name.
	got := Filter(tasks, []string{"report"}, nil)
	if len(got) != 1 || got[0].Name != "Report Q1" {
		t.Fatalf("keyword filter: got %v", got)
	}

	// A task matching only a tag is included when both lists are non-empty.
	got = Filter(tasks, []string{"report"}, []string{"report"})
	if len(got) != 2 {
		t.Fatalf("combined filter: expected 2 tasks, got %d", len(got))
	}

	// Tag comparison is case-insensitive.
	got = Filter(tasks, nil, []string{"HOME"})
	if len(got) != 1 || got[0].Name != "Walk the dog" {
		t.Fatalf("tag filter: got %v", got)
	}

	if got = Filter(tasks, []string{"nothing"}, []string{"nope"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestTwelveTasksScenario(t *testing.T) {
	tasks := makeTasks(12)
	pageSize := 5

	total := TotalPages(len(tasks), pageSize)
	if total != 3 {
		t.Fatalf("expected 3 pages, got %d", total)
	}

	page := 0
	if got := Slice(tasks, page, pageSize); got[0].ID != 1 || got[len(got)-1].ID != 5 {
		t.Fatalf("page 0: got ids %d..%d", got[0].ID, got[len(got)-1].ID)
	}

	page = Next(page, total-1)
	page = Next(page, total-1)
	got := Slice(tasks, page, pageSize)
	if page != 2 || len(got) != 2 || got[0].ID != 11 {
		t.Fatalf("after two next: page %d, tasks %v", page, got)
	}

	if page = Next(page, total-1); page != 0 {
		t.Fatalf("expected wrap to page 0, got %d", page)
	}
}
