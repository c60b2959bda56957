// Package chat defines the transport-neutral contract between the
// conversation engine and whatever delivers messages to the user. The engine
// consumes Events and produces Responses; it never talks to a chat platform
// directly.
package chat

// EventKind distinguishes free-form text from button presses.
type EventKind int

const (
	// EventText carries raw user-entered text.
	EventText EventKind = iota
	// EventAction carries an opaque action discriminator from a button.
	EventAction
)

// Event is one inbound user interaction.
type Event struct {
	UserID  int64
	Kind    EventKind
	Payload string
}

// Text builds a text event.
func Text(userID int64, text string) Event {
	return Event{UserID: userID, Kind: EventText, Payload: text}
}

// Action builds an action event.
func Action(userID int64, action string) Event {
	return Event{UserID: userID, Kind: EventAction, Payload: action}
}

// Button is one labeled action in a keyboard.
type Button struct {
	Label  string
	Action string
}

// Keyboard is a set of buttons grouped into rows.
type Keyboard struct {
	Rows [][]Button
}

// Row appends a row of buttons and returns the keyboard for chaining.
func (k *Keyboard) Row(buttons ...Button) *Keyboard {
	k.Rows = append(k.Rows, buttons)
	return k
}

// Response is what the engine replies to one event. Text may contain the
// minimal rich-text markup <b>, <i> and <code>; the transport renders or
// strips it. Edit asks the transport to replace the previous message in
// place (used while paginating) instead of appending a new one.
type Response struct {
	Text     string
	Keyboard *Keyboard
	Edit     bool
}
