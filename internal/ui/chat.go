// Package ui is a local bubbletea chat client for the conversation engine.
// It plays the role of the chat platform during development: text typed into
// the input becomes a text event, and keyboard buttons are pressed by typing
// /N with the button's number.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balconyRewrap/taskbot/internal/chat"
	"github.com/balconyRewrap/taskbot/internal/engine"
	"github.com/balconyRewrap/taskbot/internal/ui/styles"
)

type message struct {
	fromUser bool
	text     string
}

type responseMsg struct {
	resp chat.Response
}

// Chat is the bubbletea model for the chat client
type Chat struct {
	engine *engine.Engine
	userID int64
	styles *styles.Styles

	input    textinput.Model
	viewport viewport.Model

	messages []message
	keyboard *chat.Keyboard
	lastBot  int // index of the last bot message, -1 when none

	width  int
	height int
	ready  bool
}

// NewChat creates the chat client for one user identity
func NewChat(eng *engine.Engine, userID int64) *Chat {
	input := textinput.New()
	input.Placeholder = "Type a message, or /N to press button N..."
	input.CharLimit = 255
	input.Focus()

	return &Chat{
		engine:  eng,
		userID:  userID,
		styles:  styles.NewStyles(),
		input:   input,
		lastBot: -1,
	}
}

// Run starts the chat client and blocks until it exits
func Run(eng *engine.Engine, userID int64) error {
	p := tea.NewProgram(NewChat(eng, userID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (c *Chat) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, c.send(chat.Action(c.userID, "start")))
}

// send dispatches one event to the engine off the UI goroutine
func (c *Chat) send(ev chat.Event) tea.Cmd {
	return func() tea.Msg {
		return responseMsg{resp: c.engine.HandleEvent(context.Background(), ev)}
	}
}

func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		vpHeight := max(msg.Height-8, 3)
		if !c.ready {
			c.viewport = viewport.New(msg.Width, vpHeight)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = vpHeight
		}
		c.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit
		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			c.input.Reset()
			return c, c.submit(text)
		}

	case responseMsg:
		c.receive(msg.resp)
		return c, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// submit turns the typed line into an engine event. "/N" presses the N-th
// button of the current keyboard (row-major), anything else is plain text.
func (c *Chat) submit(text string) tea.Cmd {
	if strings.HasPrefix(text, "/") {
		if n, err := strconv.Atoi(text[1:]); err == nil {
			button, ok := c.buttonAt(n)
			if !ok {
				c.messages = append(c.messages, message{text: fmt.Sprintf("No button %d.", n)})
				c.refreshTranscript()
				return nil
			}
			c.messages = append(c.messages, message{fromUser: true, text: "[" + button.Label + "]"})
			c.refreshTranscript()
			return c.send(chat.Action(c.userID, button.Action))
		}
	}

	c.messages = append(c.messages, message{fromUser: true, text: text})
	c.refreshTranscript()
	return c.send(chat.Text(c.userID, text))
}

func (c *Chat) buttonAt(n int) (chat.Button, bool) {
	if c.keyboard == nil || n < 1 {
		return chat.Button{}, false
	}
	i := 1
	for _, row := range c.keyboard.Rows {
		for _, button := range row {
			if i == n {
				return button, true
			}
			i++
		}
	}
	return chat.Button{}, false
}

func (c *Chat) receive(resp chat.Response) {
	if resp.Text != "" {
		if resp.Edit && c.lastBot >= 0 {
			c.messages[c.lastBot].text = resp.Text
		} else {
			c.messages = append(c.messages, message{text: resp.Text})
			c.lastBot = len(c.messages) - 1
		}
	}
	c.keyboard = resp.Keyboard
	c.refreshTranscript()
}

func (c *Chat) refreshTranscript() {
	if !c.ready {
		return
	}

	var b strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.fromUser {
			b.WriteString(c.styles.UserLabel.Render("you") + "  " + c.styles.Message.Render(m.text))
		} else {
			b.WriteString(c.styles.BotLabel.Render("bot") + "  " + renderMarkup(c.styles, m.text))
		}
	}
	c.viewport.SetContent(b.String())
	c.viewport.GotoBottom()
}

func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	title := c.styles.Title.Render("taskbot") +
		c.styles.TitleMuted.Render(fmt.Sprintf("  user %d", c.userID))

	var rows []string
	rows = append(rows, title, c.viewport.View(), c.renderKeyboard())
	rows = append(rows, c.styles.Input.Width(max(c.width-4, 20)).Render(c.input.View()))
	rows = append(rows, c.styles.Help.Render("enter send · /N press button N · esc quit"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c *Chat) renderKeyboard() string {
	if c.keyboard == nil || len(c.keyboard.Rows) == 0 {
		return ""
	}

	i := 1
	var rows []string
	for _, row := range c.keyboard.Rows {
		var buttons []string
		for _, button := range row {
			label := c.styles.ButtonIndex.Render(fmt.Sprintf("/%d ", i)) + button.Label
			buttons = append(buttons, c.styles.Button.Render(label))
			i++
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, buttons...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
