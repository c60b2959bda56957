package engine

import (
	"context"
	"errors"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/db"
	"github.com/balconyRewrap/taskbot/internal/session"
)

func (e *Engine) handleAddTaskStart(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.setState(ctx, userID, stateAddName); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{Text: "Enter the <b>task name</b>:"}, nil
}

func (e *Engine) handleAddTaskName(ctx context.Context, userID int64, name string) (chat.Response, error) {
	if name == "" {
		return chat.Response{Text: "The task name cannot be empty. Please enter the task name."}, nil
	}

	if err := e.sessions.Put(ctx, userID, fieldTaskName, name); err != nil {
		return chat.Response{}, err
	}
	if err := e.setState(ctx, userID, stateAddTags); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "Now send <b>tags</b> for the task, one message per tag, " +
			"or press <b>Finish tags</b> to leave them empty.",
		Keyboard: endTagsKeyboard(),
	}, nil
}

// handleAddTaskTag collects one tag candidate per message, verbatim. The
// list is not deduplicated here; duplicates collapse at commit time.
func (e *Engine) handleAddTaskTag(ctx context.Context, userID int64, tag string) (chat.Response, error) {
	if tag == "" {
		return chat.Response{Text: "A tag cannot be empty. Please enter a tag."}, nil
	}

	if err := e.sessions.AppendList(ctx, userID, fieldTaskTags, tag); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text:     "Tag added. Send another tag or press <b>Finish tags</b>.",
		Keyboard: endTagsKeyboard(),
	}, nil
}

// handleEndTags commits the accumulated session data as one task. Tags are
// entirely absent from the durable store until this point, so an abandoned
// dialogue leaves no orphans behind.
func (e *Engine) handleEndTags(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	name, err := e.sessions.Get(ctx, userID, fieldTaskName)
	if errors.Is(err, session.ErrNotFound) {
		// Session data gone (TTL expiry): report, do not crash.
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "Error: the task name was lost. Please start the task again.",
			Keyboard: menuKeyboard(),
		}, nil
	}
	if err != nil {
		return chat.Response{}, err
	}

	tags, err := e.sessions.GetList(ctx, userID, fieldTaskTags)
	if err != nil {
		return chat.Response{}, err
	}

	if _, err := e.store.CreateTask(ctx, userID, name, tags); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			if err := e.resetToMenu(ctx, userID); err != nil {
				return chat.Response{}, err
			}
			return chat.Response{
				Text:     "Error: you are not registered. Press <b>Start</b> to register.",
				Keyboard: startKeyboard(),
			}, nil
		}
		return chat.Response{}, err
	}

	if err := e.resetToMenu(ctx, userID); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text:     "Task added!",
		Keyboard: menuKeyboard(),
	}, nil
}
