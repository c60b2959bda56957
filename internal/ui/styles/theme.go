package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
}

// Current holds the active theme
var Current = TokyoNight

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Chat transcript
	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	Message   lipgloss.Style

	// Rich-text markup inside bot messages
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Code   lipgloss.Style

	// Keyboard buttons
	Button      lipgloss.Style
	ButtonIndex lipgloss.Style

	// Input field
	Input lipgloss.Style

	// Help text
	Help lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		UserLabel: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		BotLabel: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Message: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Bold: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Italic: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Italic(true),

		Code: lipgloss.NewStyle().
			Foreground(t.Accent),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		ButtonIndex: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
	}
}
