package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"learnbot/models"
	"learnbot/services"
)

// App is the root model: a preference header, the chat history, the
// suggested questions and an input line.
type App struct {
	ctx       context.Context
	chatbot   *services.Chatbot
	sessionID string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	styleIdx    int
	interestIdx int // -1 means no interest selected
	levelIdx    int
	suggestions []string
	suggestIdx  int

	waiting bool
	errMsg  string
	width   int
	height  int
}

// NewApp opens a session on chatbot and returns the model.
func NewApp(ctx context.Context, chatbot *services.Chatbot) App {
	ti := textinput.New()
	ti.Placeholder = "What would you like to learn today?"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		ctx:         ctx,
		chatbot:     chatbot,
		sessionID:   chatbot.Sessions().NewSession(),
		input:       ti,
		spinner:     sp,
		viewport:    viewport.New(80, 20),
		interestIdx: -1,
	}
	a.applyPreferences()
	return a
}

// Init initializes the model
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick)
}

// Update handles messages
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-12, 5)
		a.input.Width = max(msg.Width-4, 10)
		a.refreshHistory()
		return a, nil

	case ReplyReceived:
		if errors.Is(msg.Err, services.ErrSessionNotFound) && !msg.Resumed {
			a.renewSession()
			return a, a.submit(msg.Text, true)
		}
		a.waiting = false
		a.errMsg = ""
		if msg.Err != nil {
			a.errMsg = services.UserMessage(msg.Err, "")
		}
		a.refreshHistory()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		a.chatbot.Sessions().End(a.sessionID)
		return a, tea.Quit
	case "enter":
		text := strings.TrimSpace(a.input.Value())
		if text == "" || a.waiting {
			return a, nil
		}
		a.input.SetValue("")
		a.waiting = true
		a.errMsg = ""
		return a, tea.Batch(a.submit(text, false), a.spinner.Tick)
	case "ctrl+s":
		a.styleIdx = (a.styleIdx + 1) % len(models.LearningStyles)
		a.applyPreferences()
		return a, nil
	case "ctrl+t":
		a.interestIdx++
		if a.interestIdx >= len(models.InterestAreas) {
			a.interestIdx = -1
		}
		a.applyPreferences()
		return a, nil
	case "ctrl+e":
		a.levelIdx = (a.levelIdx + 1) % len(models.EducationLevels)
		a.applyPreferences()
		return a, nil
	case "tab":
		if len(a.suggestions) > 0 {
			a.input.SetValue(a.suggestions[a.suggestIdx%len(a.suggestions)])
			a.input.CursorEnd()
			a.suggestIdx++
		}
		return a, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) submit(text string, resumed bool) tea.Cmd {
	ctx, chatbot, id := a.ctx, a.chatbot, a.sessionID
	return func() tea.Msg {
		reply, err := chatbot.Submit(ctx, id, text)
		return ReplyReceived{Text: text, Reply: reply, Err: err, Resumed: resumed}
	}
}

// renewSession replaces an expired session with a fresh one carrying the
// selected preferences.
func (a *App) renewSession() {
	a.sessionID = a.chatbot.Sessions().NewSession()
	if err := a.pushPreferences(); err != nil {
		a.errMsg = err.Error()
	}
	a.refreshHistory()
}

// applyPreferences pushes the selected values into the session and
// refreshes the suggestion list.
func (a *App) applyPreferences() {
	err := a.pushPreferences()
	if errors.Is(err, services.ErrSessionNotFound) {
		a.renewSession()
	} else if err != nil {
		a.errMsg = err.Error()
	}
	prefs := a.Preferences()
	a.suggestions = services.ExampleSuggestions(prefs.LearningStyle, prefs.Interests, prefs.EducationLevel)
	a.suggestIdx = 0
}

func (a *App) pushPreferences() error {
	prefs := a.Preferences()
	interests := prefs.Interests
	_, err := a.chatbot.Sessions().SetPreferences(a.sessionID, models.PreferencesUpdate{
		LearningStyle:  &prefs.LearningStyle,
		Interests:      &interests,
		EducationLevel: &prefs.EducationLevel,
	})
	return err
}

// Preferences returns the values currently selected in the header.
func (a App) Preferences() models.Preferences {
	p := models.Preferences{
		LearningStyle:  models.LearningStyles[a.styleIdx],
		Interests:      []string{},
		EducationLevel: models.EducationLevels[a.levelIdx],
	}
	if a.interestIdx >= 0 {
		p.Interests = []string{models.InterestAreas[a.interestIdx]}
	}
	return p
}

// SessionID returns the session this app writes to.
func (a App) SessionID() string { return a.sessionID }

// Suggestions returns the suggestion list for the current preferences.
func (a App) Suggestions() []string { return a.suggestions }

// Waiting reports whether a submission is in flight.
func (a App) Waiting() bool { return a.waiting }

func (a *App) refreshHistory() {
	history, _ := a.chatbot.Sessions().History(a.sessionID)
	var b strings.Builder
	for _, turn := range history {
		if turn.Role == models.RoleUser {
			b.WriteString(UserTurn.Render("You: "))
			b.WriteString(turn.Content)
		} else {
			b.WriteString(BotTurn.Render("Sarthi: " + turn.Content))
		}
		b.WriteString("\n\n")
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View renders the model
func (a App) View() string {
	var b strings.Builder

	prefs := a.Preferences()
	interest := "none"
	if len(prefs.Interests) > 0 {
		interest = prefs.Interests[0]
	}
	b.WriteString(Title.Render("🧠 Learning Sarthi"))
	b.WriteString("\n")
	b.WriteString(PrefBadge.Render("Style: " + prefs.LearningStyle))
	b.WriteString(PrefBadge.Render("Interest: " + interest))
	b.WriteString(PrefBadge.Render("Level: " + prefs.EducationLevel))
	b.WriteString("\n\n")

	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	b.WriteString(SuggestionHeader.Render("💡 Suggested Questions"))
	b.WriteString("\n")
	for _, s := range a.suggestions {
		b.WriteString(SuggestionStyle.Render("• " + s))
		b.WriteString("\n")
	}

	if a.errMsg != "" {
		b.WriteString(ErrorStyle.Render(a.errMsg))
		b.WriteString("\n")
	}
	if a.waiting {
		b.WriteString(fmt.Sprintf("%s Thinking...\n", a.spinner.View()))
	} else {
		b.WriteString(a.input.View())
		b.WriteString("\n")
	}

	b.WriteString(a.statusBar())
	return b.String()
}

func (a App) statusBar() string {
	hints := []struct{ key, text string }{
		{"enter", "send"},
		{"tab", "suggestion"},
		{"^s", "style"},
		{"^t", "interest"},
		{"^e", "level"},
		{"esc", "quit"},
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, StatusBarKey.Render(h.key)+" "+StatusBarText.Render(h.text))
	}
	return StatusBar.Render(strings.Join(parts, "  "))
}

// Run starts the terminal UI and blocks until the learner quits or ctx ends.
func Run(ctx context.Context, chatbot *services.Chatbot) error {
	_, err := tea.NewProgram(NewApp(ctx, chatbot), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
