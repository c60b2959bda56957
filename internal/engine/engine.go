// Package engine implements the multi-turn conversation state machine that
// sequences the registration, add-task and search dialogues. The current
// dialogue state lives in the session store itself, so a TTL expiry degrades
// to a fresh idle start without any special casing.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/db"
	"github.com/balconyRewrap/taskbot/internal/models"
	"github.com/balconyRewrap/taskbot/internal/session"
)

// DefaultPageSize is how many tasks one listing page holds.
const DefaultPageSize = 5

// Dialogue states. The state is a session field; an absent field means idle.
const (
	stateMenu        = "menu"
	stateRegName     = "registration:awaiting_name"
	stateRegPhone    = "registration:awaiting_phone"
	stateAddName     = "add_task:waiting_name"
	stateAddTags     = "add_task:waiting_tags"
	stateSearchQuery = "search:waiting_for_query"
	stateSearchTags  = "search:waiting_for_tags"
	stateSearchList  = "search:listing_tasks"
)

// Session fields used by the dialogues.
const (
	fieldState          = "state"
	fieldRegName        = "reg_name"
	fieldTaskName       = "task_name"
	fieldTaskTags       = "task_tags"
	fieldSearchKeywords = "search_keywords"
	fieldSearchTags     = "search_tags"
	fieldFrozenKeywords = "frozen_keywords"
	fieldFrozenTags     = "frozen_tags"
	fieldListPage       = "list_page"
	fieldListLastPage   = "list_last_page"
	fieldSearchPage     = "search_page"
	fieldSearchLastPage = "search_last_page"
)

// Action discriminators carried by button presses.
const (
	actionStart         = "start"
	actionAddTask       = "add_task"
	actionListTasks     = "list_tasks"
	actionSearchTasks   = "search_tasks"
	actionEndTags       = "end_tags"
	actionSearchByTags  = "search_by_tags"
	actionSearchByQuery = "search_by_query"
	actionEndSearch     = "end_search"
	actionEndList       = "end_list"
	actionNextPage      = "next_page"
	actionPrevPage      = "prev_page"
	actionNextPageFound = "next_page_search"
	actionPrevPageFound = "prev_page_search"
	actionComplete      = "complete" // carries the task id: "complete:<id>"
	actionNoop          = "noop"
)

// Store is the durable-store contract the engine consumes. *db.DB satisfies
// it.
type Store interface {
	CreateUser(ctx context.Context, id int64, name, phone string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateTask(ctx context.Context, userID int64, name string, tags []string) (*models.Task, error)
	ListTasks(ctx context.Context, userID int64, includeCompleted bool) ([]models.Task, error)
	MarkCompleted(ctx context.Context, taskID int64) error
	SearchTasks(ctx context.Context, userID int64, keywords, tags []string) ([]models.Task, error)
}

type handlerFunc func(ctx context.Context, userID int64, payload string) (chat.Response, error)

// actionRoute routes one action discriminator to its handler, restricted to
// the states it is valid in. An empty state list means any state.
type actionRoute struct {
	states []string
	fn     handlerFunc
}

// Engine drives the per-user conversation state machine.
type Engine struct {
	store    Store
	sessions session.Store
	pageSize int
	log      *slog.Logger

	text    map[string]handlerFunc
	actions map[string]actionRoute

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates an engine over the durable store and session store.
// A pageSize of 0 falls back to DefaultPageSize.
func New(store Store, sessions session.Store, pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	e := &Engine{
		store:    store,
		sessions: sessions,
		pageSize: pageSize,
		log:      slog.Default(),
		locks:    make(map[int64]*sync.Mutex),
	}

	// Explicit dispatch tables: (state, event kind) -> handler. No hidden
	// registration-order dependencies.
	e.text = map[string]handlerFunc{
		stateRegName:     e.handleRegName,
		stateRegPhone:    e.handleRegPhone,
		stateAddName:     e.handleAddTaskName,
		stateAddTags:     e.handleAddTaskTag,
		stateSearchQuery: e.handleSearchKeywords,
		stateSearchTags:  e.handleSearchTagWords,
	}
	e.actions = map[string]actionRoute{
		actionStart:         {fn: e.handleStart},
		actionAddTask:       {states: []string{stateMenu}, fn: e.handleAddTaskStart},
		actionListTasks:     {states: []string{stateMenu}, fn: e.handleListTasks},
		actionSearchTasks:   {states: []string{stateMenu}, fn: e.handleSearchStart},
		actionEndTags:       {states: []string{stateAddTags}, fn: e.handleEndTags},
		actionSearchByTags:  {states: []string{stateSearchQuery, stateSearchTags}, fn: e.handleSwitchToTags},
		actionSearchByQuery: {states: []string{stateSearchQuery, stateSearchTags}, fn: e.handleSwitchToKeywords},
		actionEndSearch:     {states: []string{stateSearchQuery, stateSearchTags}, fn: e.handleEndSearch},
		actionEndList:       {states: []string{stateSearchList}, fn: e.handleEndSearchList},
		actionNextPageFound: {states: []string{stateSearchList}, fn: e.handleSearchNextPage},
		actionPrevPageFound: {states: []string{stateSearchList}, fn: e.handleSearchPrevPage},
		actionNextPage:      {states: []string{stateMenu}, fn: e.handleListNextPage},
		actionPrevPage:      {states: []string{stateMenu}, fn: e.handleListPrevPage},
		actionComplete:      {states: []string{stateMenu}, fn: e.handleCompleteTask},
		actionNoop:          {fn: e.handleNoop},
	}
	return e
}

// HandleEvent processes one inbound event to completion. Events for the same
// user are serialized; events for different users run concurrently. Store
// failures never escape: they are logged and converted into a user-visible
// reply that leaves the user in a well-defined idle state.
func (e *Engine) HandleEvent(ctx context.Context, ev chat.Event) chat.Response {
	if ev.UserID == 0 {
		return chat.Response{Text: "Error: could not determine who sent this."}
	}

	lock := e.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	resp, err := e.dispatch(ctx, ev)
	if err != nil {
		e.log.Error("dialogue step failed", "user", ev.UserID, "err", err)
		return e.recover(ctx, ev.UserID)
	}
	return resp
}

func (e *Engine) dispatch(ctx context.Context, ev chat.Event) (chat.Response, error) {
	state, err := e.currentState(ctx, ev.UserID)
	if err != nil {
		return chat.Response{}, err
	}

	switch ev.Kind {
	case chat.EventAction:
		name, arg, _ := strings.Cut(ev.Payload, ":")
		route, ok := e.actions[name]
		if !ok || !stateAllowed(route.states, state) {
			return e.notUnderstood(ctx, ev.UserID)
		}
		return route.fn(ctx, ev.UserID, arg)
	default:
		fn, ok := e.text[state]
		if !ok {
			return e.notUnderstood(ctx, ev.UserID)
		}
		return fn(ctx, ev.UserID, strings.TrimSpace(ev.Payload))
	}
}

// currentState reads the dialogue state from the session store. An expired
// or absent session reads as idle.
func (e *Engine) currentState(ctx context.Context, userID int64) (string, error) {
	state, err := e.sessions.Get(ctx, userID, fieldState)
	if errors.Is(err, session.ErrNotFound) {
		return "", nil
	}
	return state, err
}

func (e *Engine) setState(ctx context.Context, userID int64, state string) error {
	return e.sessions.Put(ctx, userID, fieldState, state)
}

// resetToMenu wipes every session field and leaves the user idle at the
// menu. Terminal transitions of every dialogue go through here so no data
// bag leaks into the next dialogue.
func (e *Engine) resetToMenu(ctx context.Context, userID int64) error {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.setState(ctx, userID, stateMenu)
}

// notUnderstood handles any event that matched no dialogue: whatever partial
// session state exists is cleared so the engine is never left ambiguous.
func (e *Engine) notUnderstood(ctx context.Context, userID int64) (chat.Response, error) {
	registered := false
	if _, err := e.store.GetUser(ctx, userID); err == nil {
		registered = true
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return chat.Response{}, err
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return chat.Response{}, err
	}
	if registered {
		if err := e.setState(ctx, userID, stateMenu); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "I did not understand that. Use the menu below.",
			Keyboard: menuKeyboard(),
		}, nil
	}
	return chat.Response{
		Text:     "I did not understand that. Press <b>Start</b> to begin.",
		Keyboard: startKeyboard(),
	}, nil
}

// recover is the last-resort failure path: best-effort session wipe and a
// single user-visible message. No raw failure reaches the transport.
func (e *Engine) recover(ctx context.Context, userID int64) chat.Response {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		e.log.Warn("session clear failed during recovery", "user", userID, "err", err)
	}
	_ = e.setState(ctx, userID, stateMenu)
	return chat.Response{
		Text:     "Something went wrong. You are back at the main menu.",
		Keyboard: menuKeyboard(),
	}
}

func (e *Engine) handleNoop(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	return chat.Response{}, nil
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

func stateAllowed(states []string, state string) bool {
	if len(states) == 0 {
		return true
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
