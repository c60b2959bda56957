package engine

import (
	"context"
	"errors"
	"strconv"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/db"
	"github.com/balconyRewrap/taskbot/internal/models"
	"github.com/balconyRewrap/taskbot/internal/paging"
	"github.com/balconyRewrap/taskbot/internal/session"
)

// handleListTasks opens the paged listing of not-yet-completed tasks. The
// listing lives in the menu state; its page cursors are session fields, so
// the navigation buttons die together with the session.
func (e *Engine) handleListTasks(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	tasks, err := e.store.ListTasks(ctx, userID, false)
	if err != nil {
		return chat.Response{}, err
	}
	if len(tasks) == 0 {
		return chat.Response{
			Text:     "You have no tasks.",
			Keyboard: menuKeyboard(),
		}, nil
	}

	totalPages := paging.TotalPages(len(tasks), e.pageSize)
	if err := e.putInt(ctx, userID, fieldListPage, 0); err != nil {
		return chat.Response{}, err
	}
	if err := e.putInt(ctx, userID, fieldListLastPage, totalPages-1); err != nil {
		return chat.Response{}, err
	}

	return e.renderListPage(tasks, 0, totalPages, false), nil
}

func (e *Engine) handleListNextPage(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	return e.listTurnPage(ctx, userID, paging.Next)
}

func (e *Engine) handleListPrevPage(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	return e.listTurnPage(ctx, userID, paging.Prev)
}

func (e *Engine) listTurnPage(ctx context.Context, userID int64, turn func(current, last int) int) (chat.Response, error) {
	// No cached last page means no listing is open; a stale navigation
	// button press is just unrecognized input.
	lastRaw, err := e.sessions.Get(ctx, userID, fieldListLastPage)
	if errors.Is(err, session.ErrNotFound) {
		return e.notUnderstood(ctx, userID)
	}
	if err != nil {
		return chat.Response{}, err
	}
	lastPage, err := strconv.Atoi(lastRaw)
	if err != nil {
		return chat.Response{}, err
	}

	current, err := e.getInt(ctx, userID, fieldListPage)
	if err != nil {
		return chat.Response{}, err
	}
	page := turn(current, lastPage)
	if err := e.putInt(ctx, userID, fieldListPage, page); err != nil {
		return chat.Response{}, err
	}

	tasks, err := e.store.ListTasks(ctx, userID, false)
	if err != nil {
		return chat.Response{}, err
	}
	if len(tasks) == 0 {
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "You have no tasks.",
			Keyboard: menuKeyboard(),
			Edit:     true,
		}, nil
	}

	return e.renderListPage(tasks, page, lastPage+1, true), nil
}

// handleCompleteTask marks one task done and re-renders the listing. The
// task set changed, so cursors are recomputed and reset to the first page.
func (e *Engine) handleCompleteTask(ctx context.Context, userID int64, arg string) (chat.Response, error) {
	taskID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return e.notUnderstood(ctx, userID)
	}

	// Marking a task that is already completed is a no-op, not an error.
	if err := e.store.MarkCompleted(ctx, taskID); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return chat.Response{
				Text:     "Error: that task no longer exists.",
				Keyboard: menuKeyboard(),
			}, nil
		}
		return chat.Response{}, err
	}

	tasks, err := e.store.ListTasks(ctx, userID, false)
	if err != nil {
		return chat.Response{}, err
	}
	if len(tasks) == 0 {
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "Task marked as completed. You have no tasks left.",
			Keyboard: menuKeyboard(),
			Edit:     true,
		}, nil
	}

	totalPages := paging.TotalPages(len(tasks), e.pageSize)
	if err := e.putInt(ctx, userID, fieldListPage, 0); err != nil {
		return chat.Response{}, err
	}
	if err := e.putInt(ctx, userID, fieldListLastPage, totalPages-1); err != nil {
		return chat.Response{}, err
	}

	resp := e.renderListPage(tasks, 0, totalPages, true)
	resp.Text = "Task marked as completed.\n\n" + resp.Text
	return resp, nil
}

func (e *Engine) renderListPage(tasks []models.Task, page, totalPages int, edit bool) chat.Response {
	onPage := paging.Slice(tasks, page, e.pageSize)
	return chat.Response{
		Text:     renderTasks("<b>Your tasks:</b>", onPage),
		Keyboard: listKeyboard(onPage, page, totalPages),
		Edit:     edit,
	}
}
