package engine

import (
	"fmt"
	"strings"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/models"
)

// renderTasks formats one page of tasks: numbered bold names with an italic
// tag list underneath.
func renderTasks(header string, tasks []models.Task) string {
	var b strings.Builder
	b.WriteString(header)
	for i, task := range tasks {
		fmt.Fprintf(&b, "\n%d. <b>%s</b>", i+1, task.Name)
		if len(task.Tags) > 0 {
			b.WriteString("\n<i>Tags:</i>")
			for _, tag := range task.Tags {
				fmt.Fprintf(&b, "\n    ◦ <code>%s</code>", tag.Name)
			}
		}
	}
	return b.String()
}

func startKeyboard() *chat.Keyboard {
	return (&chat.Keyboard{}).Row(chat.Button{Label: "Start", Action: actionStart})
}

func menuKeyboard() *chat.Keyboard {
	return (&chat.Keyboard{}).
		Row(chat.Button{Label: "Add task", Action: actionAddTask}).
		Row(chat.Button{Label: "My tasks", Action: actionListTasks}).
		Row(chat.Button{Label: "Search tasks", Action: actionSearchTasks}).
		Row(chat.Button{Label: "Main menu", Action: actionStart})
}

func endTagsKeyboard() *chat.Keyboard {
	return (&chat.Keyboard{}).Row(chat.Button{Label: "Finish tags", Action: actionEndTags})
}

func searchQueryKeyboard() *chat.Keyboard {
	return (&chat.Keyboard{}).
		Row(chat.Button{Label: "Search by tags", Action: actionSearchByTags}).
		Row(chat.Button{Label: "Finish search", Action: actionEndSearch})
}

func searchTagsKeyboard() *chat.Keyboard {
	return (&chat.Keyboard{}).
		Row(chat.Button{Label: "Search by keywords", Action: actionSearchByQuery}).
		Row(chat.Button{Label: "Finish search", Action: actionEndSearch})
}

// navRow is the prev / "current of total" / next row shown under multi-page
// listings.
func navRow(page, totalPages int, prev, next string) []chat.Button {
	return []chat.Button{
		{Label: "←", Action: prev},
		{Label: fmt.Sprintf("%d/%d", page+1, totalPages), Action: actionNoop},
		{Label: "→", Action: next},
	}
}

// listKeyboard renders one "task N done" button per task on the page, plus
// navigation when there is more than one page.
func listKeyboard(onPage []models.Task, page, totalPages int) *chat.Keyboard {
	k := &chat.Keyboard{}
	for i, task := range onPage {
		k.Row(chat.Button{
			Label:  fmt.Sprintf("Task %d done", i+1),
			Action: fmt.Sprintf("%s:%d", actionComplete, task.ID),
		})
	}
	if totalPages > 1 {
		k.Row(navRow(page, totalPages, actionPrevPage, actionNextPage)...)
	}
	return k
}

func searchListKeyboard(page, totalPages int) *chat.Keyboard {
	k := &chat.Keyboard{}
	if totalPages > 1 {
		k.Row(navRow(page, totalPages, actionPrevPageFound, actionNextPageFound)...)
	}
	k.Row(chat.Button{Label: "Close list", Action: actionEndList})
	return k
}
