package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/db"
	"github.com/balconyRewrap/taskbot/internal/models"
	"github.com/balconyRewrap/taskbot/internal/paging"
	"github.com/balconyRewrap/taskbot/internal/session"
)

func (e *Engine) handleSearchStart(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.setState(ctx, userID, stateSearchQuery); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "<b>Task search</b>\n\n" +
			"Send <b>keywords</b>, separated by commas or one per message.\n" +
			"Press <b>Search by tags</b> to enter tags instead, " +
			"or <b>Finish search</b> to run the search.",
		Keyboard: searchQueryKeyboard(),
	}, nil
}

// handleSearchKeywords accumulates keywords. Input is split on commas; both
// the keyword and tag lists survive switching between the two sub-states.
func (e *Engine) handleSearchKeywords(ctx context.Context, userID int64, input string) (chat.Response, error) {
	if input == "" {
		return chat.Response{
			Text: "Keywords cannot be empty. Enter keywords, or switch to tag search.",
		}, nil
	}

	for _, word := range splitTerms(input) {
		if err := e.sessions.AppendList(ctx, userID, fieldSearchKeywords, word); err != nil {
			return chat.Response{}, err
		}
	}

	keywords, err := e.sessions.GetList(ctx, userID, fieldSearchKeywords)
	if err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "Keywords so far: <code>" + strings.Join(keywords, ", ") + "</code>\n" +
			"Keep adding keywords, switch to tags, or press <b>Finish search</b>.",
		Keyboard: searchQueryKeyboard(),
	}, nil
}

func (e *Engine) handleSearchTagWords(ctx context.Context, userID int64, input string) (chat.Response, error) {
	if input == "" {
		return chat.Response{
			Text: "Tags cannot be empty. Enter tags, or switch to keyword search.",
		}, nil
	}

	for _, tag := range splitTerms(input) {
		if err := e.sessions.AppendList(ctx, userID, fieldSearchTags, tag); err != nil {
			return chat.Response{}, err
		}
	}

	tags, err := e.sessions.GetList(ctx, userID, fieldSearchTags)
	if err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "Tags so far: <code>" + strings.Join(tags, ", ") + "</code>\n" +
			"Keep adding tags, switch to keywords, or press <b>Finish search</b>.",
		Keyboard: searchTagsKeyboard(),
	}, nil
}

func (e *Engine) handleSwitchToTags(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.setState(ctx, userID, stateSearchTags); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "<b>Search by tags</b>\n\n" +
			"Send <b>tags</b>, separated by commas or one per message.",
		Keyboard: searchTagsKeyboard(),
	}, nil
}

func (e *Engine) handleSwitchToKeywords(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.setState(ctx, userID, stateSearchQuery); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: "<b>Search by keywords</b>\n\n" +
			"Send <b>keywords</b>, separated by commas or one per message.",
		Keyboard: searchQueryKeyboard(),
	}, nil
}

// handleEndSearch snapshots the accumulated criteria and runs the search.
// The frozen pair is what later page navigation reads, so the in-progress
// scratch lists can never bleed into an ongoing listing.
func (e *Engine) handleEndSearch(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	keywords, err := e.sessions.GetList(ctx, userID, fieldSearchKeywords)
	if err != nil {
		return chat.Response{}, err
	}
	tags, err := e.sessions.GetList(ctx, userID, fieldSearchTags)
	if err != nil {
		return chat.Response{}, err
	}

	tasks, err := e.store.SearchTasks(ctx, userID, keywords, tags)
	if errors.Is(err, db.ErrEmptyQuery) {
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "Keywords and tags cannot both be empty. Search cancelled.",
			Keyboard: menuKeyboard(),
		}, nil
	}
	if err != nil {
		return chat.Response{}, err
	}

	if len(tasks) == 0 {
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "No tasks match your search.",
			Keyboard: menuKeyboard(),
		}, nil
	}

	for _, word := range keywords {
		if err := e.sessions.AppendList(ctx, userID, fieldFrozenKeywords, word); err != nil {
			return chat.Response{}, err
		}
	}
	for _, tag := range tags {
		if err := e.sessions.AppendList(ctx, userID, fieldFrozenTags, tag); err != nil {
			return chat.Response{}, err
		}
	}

	// The last-page index is fixed once per listing session.
	totalPages := paging.TotalPages(len(tasks), e.pageSize)
	if err := e.putInt(ctx, userID, fieldSearchPage, 0); err != nil {
		return chat.Response{}, err
	}
	if err := e.putInt(ctx, userID, fieldSearchLastPage, totalPages-1); err != nil {
		return chat.Response{}, err
	}
	if err := e.setState(ctx, userID, stateSearchList); err != nil {
		return chat.Response{}, err
	}

	return e.renderSearchPage(tasks, 0, totalPages, false), nil
}

func (e *Engine) handleSearchNextPage(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	return e.searchTurnPage(ctx, userID, paging.Next)
}

func (e *Engine) handleSearchPrevPage(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	return e.searchTurnPage(ctx, userID, paging.Prev)
}

// searchTurnPage re-runs the search with the frozen criteria and shows the
// next or previous page, wrapping around the fixed last-page index.
func (e *Engine) searchTurnPage(ctx context.Context, userID int64, turn func(current, last int) int) (chat.Response, error) {
	keywords, err := e.sessions.GetList(ctx, userID, fieldFrozenKeywords)
	if err != nil {
		return chat.Response{}, err
	}
	tags, err := e.sessions.GetList(ctx, userID, fieldFrozenTags)
	if err != nil {
		return chat.Response{}, err
	}

	current, err := e.getInt(ctx, userID, fieldSearchPage)
	if err != nil {
		return chat.Response{}, err
	}
	lastPage, err := e.getInt(ctx, userID, fieldSearchLastPage)
	if err != nil {
		return chat.Response{}, err
	}

	page := turn(current, lastPage)
	if err := e.putInt(ctx, userID, fieldSearchPage, page); err != nil {
		return chat.Response{}, err
	}

	tasks, err := e.store.SearchTasks(ctx, userID, keywords, tags)
	if err != nil {
		return chat.Response{}, err
	}
	return e.renderSearchPage(tasks, page, lastPage+1, true), nil
}

func (e *Engine) handleEndSearchList(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.resetToMenu(ctx, userID); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text:     "Search results closed.",
		Keyboard: menuKeyboard(),
	}, nil
}

func (e *Engine) renderSearchPage(tasks []models.Task, page, totalPages int, edit bool) chat.Response {
	onPage := paging.Slice(tasks, page, e.pageSize)
	return chat.Response{
		Text:     renderTasks("<b>Found tasks:</b>", onPage),
		Keyboard: searchListKeyboard(page, totalPages),
		Edit:     edit,
	}
}

// splitTerms splits comma-separated input into trimmed, non-empty tokens.
func splitTerms(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e *Engine) putInt(ctx context.Context, userID int64, field string, value int) error {
	return e.sessions.Put(ctx, userID, field, strconv.Itoa(value))
}

// getInt reads an integer session field, defaulting to 0 when absent.
func (e *Engine) getInt(ctx context.Context, userID int64, field string) (int, error) {
	raw, err := e.sessions.Get(ctx, userID, field)
	if errors.Is(err, session.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
