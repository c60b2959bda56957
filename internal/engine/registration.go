package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/db"
)

// Accepts Russian-style numbers with an optional country-code prefix and
// separators, e.g. +79991234567, 8 (999) 123-45-67.
var phoneRe = regexp.MustCompile(`^(\+7|7|8)?[\s\-]?\(?[489][0-9]{2}\)?[\s\-]?[0-9]{3}[\s\-]?[0-9]{2}[\s\-]?[0-9]{2}$`)

func validPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// handleStart enters the engine from scratch: an already registered user
// goes straight to the menu, everyone else starts the registration dialogue.
func (e *Engine) handleStart(ctx context.Context, userID int64, _ string) (chat.Response, error) {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return chat.Response{}, err
	}

	user, err := e.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		if err := e.setState(ctx, userID, stateMenu); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     fmt.Sprintf("Welcome back, <b>%s</b>! Use the menu below to manage your tasks.", user.Name),
			Keyboard: menuKeyboard(),
		}, nil
	case errors.Is(err, db.ErrUserNotFound):
		if err := e.setState(ctx, userID, stateRegName); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{Text: "Hi! Let's get you registered. Please enter your <b>name</b>."}, nil
	default:
		return chat.Response{}, err
	}
}

func (e *Engine) handleRegName(ctx context.Context, userID int64, name string) (chat.Response, error) {
	if name == "" {
		return chat.Response{Text: "Your name cannot be empty. Please enter your name."}, nil
	}

	if err := e.sessions.Put(ctx, userID, fieldRegName, name); err != nil {
		return chat.Response{}, err
	}
	if err := e.setState(ctx, userID, stateRegPhone); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: fmt.Sprintf("Nice to meet you, <b>%s</b>! Now enter your <b>phone number</b>.", name),
	}, nil
}

func (e *Engine) handleRegPhone(ctx context.Context, userID int64, phone string) (chat.Response, error) {
	if phone == "" {
		return chat.Response{Text: "The phone number cannot be empty. Please enter your phone number."}, nil
	}
	if !validPhone(phone) {
		return chat.Response{
			Text: "That does not look like a phone number. Please use a format like <code>+79991234567</code>.",
		}, nil
	}

	name, err := e.sessions.Get(ctx, userID, fieldRegName)
	if err != nil {
		// Session lost mid-dialogue: start over.
		return chat.Response{}, err
	}

	user, err := e.store.CreateUser(ctx, userID, name, phone)
	if errors.Is(err, db.ErrUserExists) {
		// The end state (registered) is already satisfied.
		if err := e.resetToMenu(ctx, userID); err != nil {
			return chat.Response{}, err
		}
		return chat.Response{
			Text:     "You are already registered.",
			Keyboard: menuKeyboard(),
		}, nil
	}
	if err != nil {
		return chat.Response{}, err
	}

	if err := e.resetToMenu(ctx, userID); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{
		Text: fmt.Sprintf(
			"Registration successful!\nName: <b>%s</b>\nPhone: <code>%s</code>",
			user.Name, user.Phone,
		),
		Keyboard: menuKeyboard(),
	}, nil
}
