package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorUser      = lipgloss.Color("39")  // Blue
)

// Title style for the header line.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// PrefBadge style for the current preference values.
var PrefBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// UserTurn style for the learner's messages.
var UserTurn = lipgloss.NewStyle().
	Foreground(colorUser).
	Bold(true)

// BotTurn style for the bot's replies.
var BotTurn = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// SuggestionStyle for the suggested questions list.
var SuggestionStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	PaddingLeft(2)

// SuggestionHeader for the suggested questions heading.
var SuggestionHeader = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorMuted)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)
