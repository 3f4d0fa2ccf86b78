package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"learnbot/models"
	"learnbot/utils"
)

const (
	discordMessageLimit = 2000
	discordChunkSize    = 1900
)

// DiscordService is the Discord front end. Each (user, channel) pair gets
// its own learning session.
type DiscordService struct {
	session       *discordgo.Session
	chatbot       *Chatbot
	commandPrefix string
	enabled       bool
	startTime     time.Time
	logger        *utils.Logger

	mu       sync.Mutex
	sessions map[string]string
}

// NewDiscordService creates the Discord front end. Without a token it is
// disabled but still answers HandleCommand.
func NewDiscordService(chatbot *Chatbot, token, commandPrefix string, logger *utils.Logger) *DiscordService {
	if logger == nil {
		logger = utils.NopLogger()
	}
	if commandPrefix == "" {
		commandPrefix = "!learn "
	}

	service := &DiscordService{
		chatbot:       chatbot,
		commandPrefix: commandPrefix,
		startTime:     time.Now(),
		logger:        logger,
		sessions:      make(map[string]string),
	}

	if token == "" {
		logger.Warn("discord bot disabled", "reason", "DISCORD_BOT_TOKEN not set")
		return service
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("error creating discord session", "error", err)
		return service
	}
	service.session = session

	session.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		logger.Info("discord bot online", "username", event.User.Username, "guilds", len(event.Guilds))
	})
	session.AddHandler(service.messageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	service.enabled = true
	logger.Info("discord service initialized", "prefix", commandPrefix)
	return service
}

// Start opens the gateway connection.
func (d *DiscordService) Start() error {
	if !d.enabled {
		return errors.New("discord service not enabled (missing bot token)")
	}
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	d.logger.Info("discord bot started", "usage", d.commandPrefix+"<message>")
	return nil
}

// Stop closes the gateway connection.
func (d *DiscordService) Stop() error {
	if d.session != nil {
		return d.session.Close()
	}
	return nil
}

func (d *DiscordService) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, d.commandPrefix) {
		return
	}

	_ = s.ChannelTyping(m.ChannelID)

	reply := d.HandleCommand(context.Background(), m.Author.ID, m.ChannelID, m.Content[len(d.commandPrefix):])
	d.sendMessage(s, m.ChannelID, reply)

	d.logger.Info("discord message handled", "user_id", m.Author.ID, "channel_id", m.ChannelID)
}

// HandleCommand runs one prefixed message for user in channel and returns
// the reply text. Subcommands manage preferences; anything else is chat.
func (d *DiscordService) HandleCommand(ctx context.Context, userID, channelID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Sprintf("Please provide a message after `%s`", strings.TrimSpace(d.commandPrefix))
	}

	key := userID + ":" + channelID
	sessionID := d.sessionFor(key)
	store := d.chatbot.Sessions()

	command, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(command) {
	case "style":
		value, ok := matchOption(arg, models.LearningStyles)
		if !ok {
			return "Pick a learning style: " + strings.Join(models.LearningStyles, ", ")
		}
		return d.setPreferences(sessionID, models.PreferencesUpdate{LearningStyle: &value}, "Learning style set to "+value+".")
	case "interests":
		var interests []string
		for _, part := range strings.Split(arg, ",") {
			if value, ok := matchOption(part, models.InterestAreas); ok {
				interests = append(interests, value)
			}
		}
		if len(interests) == 0 {
			return "Pick one or more interests, separated by commas: " + strings.Join(models.InterestAreas, ", ")
		}
		return d.setPreferences(sessionID, models.PreferencesUpdate{Interests: &interests}, "Interests set to "+strings.Join(interests, ", ")+".")
	case "level":
		value, ok := matchOption(arg, models.EducationLevels)
		if !ok {
			return "Pick an education level: " + strings.Join(models.EducationLevels, ", ")
		}
		return d.setPreferences(sessionID, models.PreferencesUpdate{EducationLevel: &value}, "Education level set to "+value+".")
	case "suggest":
		prefs, _ := store.Preferences(sessionID)
		return "💡 Suggested Questions\n- " + strings.Join(ExampleSuggestions(prefs.LearningStyle, prefs.Interests, prefs.EducationLevel), "\n- ")
	case "reset":
		d.resetSession(key)
		return "Started a fresh learning session."
	}

	reply, err := d.chatbot.Submit(ctx, sessionID, text)
	if err != nil {
		d.logger.Warn("discord submit failed", "session_id", sessionID, "error", err)
		return UserMessage(err, "")
	}
	return reply
}

// setPreferences applies update and answers with done, or with the reason
// nothing changed.
func (d *DiscordService) setPreferences(sessionID string, update models.PreferencesUpdate, done string) string {
	if _, err := d.chatbot.Sessions().SetPreferences(sessionID, update); err != nil {
		d.logger.Warn("discord preference update failed", "session_id", sessionID, "error", err)
		return UserMessage(err, "")
	}
	return done
}

// sessionFor returns the live session for key, opening one when needed.
func (d *DiscordService) sessionFor(key string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	store := d.chatbot.Sessions()
	if id, ok := d.sessions[key]; ok {
		if _, err := store.Get(id); err == nil {
			return id
		}
	}
	id := store.NewSession()
	d.sessions[key] = id
	return id
}

func (d *DiscordService) resetSession(key string) {
	d.mu.Lock()
	id, ok := d.sessions[key]
	delete(d.sessions, key)
	d.mu.Unlock()
	if ok {
		d.chatbot.Sessions().End(id)
	}
}

func matchOption(value string, options []string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, option := range options {
		if strings.EqualFold(value, option) {
			return option, true
		}
	}
	return "", false
}

// sendMessage sends a message to Discord, handling length limits
func (d *DiscordService) sendMessage(s *discordgo.Session, channelID, message string) {
	if len(message) <= discordMessageLimit {
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			d.logger.Error("error sending discord message", "channel_id", channelID, "error", err)
		}
		return
	}

	chunks := splitMessage(message, discordChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			chunk = "...continued:\n" + chunk
		}
		if i < len(chunks)-1 {
			chunk = chunk + "\n..."
		}
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			d.logger.Error("error sending discord message chunk", "channel_id", channelID, "chunk", i, "error", err)
		}
		// Small delay between messages to avoid rate limiting
		time.Sleep(200 * time.Millisecond)
	}
}

// splitMessage splits a message into chunks of at most maxLength bytes,
// preferring word boundaries and never cutting a UTF-8 sequence.
func splitMessage(message string, maxLength int) []string {
	if len(message) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(message) > maxLength {
		splitIndex := maxLength
		if spaceIndex := strings.LastIndexAny(message[:maxLength], " \n"); spaceIndex > maxLength/2 {
			splitIndex = spaceIndex
		}
		for splitIndex > 0 && !utf8.RuneStart(message[splitIndex]) {
			splitIndex--
		}

		chunks = append(chunks, message[:splitIndex])
		message = strings.TrimLeft(message[splitIndex:], " \n")
	}

	if len(message) > 0 {
		chunks = append(chunks, message)
	}
	return chunks
}

// IsEnabled returns whether the Discord service is enabled
func (d *DiscordService) IsEnabled() bool {
	return d.enabled
}

// GetStatus returns the current status of the Discord service
func (d *DiscordService) GetStatus() models.DiscordStatus {
	d.mu.Lock()
	sessions := len(d.sessions)
	d.mu.Unlock()

	status := models.DiscordStatus{
		BaseResponse:  models.OK(),
		Enabled:       d.enabled,
		CommandPrefix: d.commandPrefix,
		Uptime:        time.Since(d.startTime).Round(time.Second).String(),
		Sessions:      sessions,
	}

	switch {
	case d.enabled && d.session != nil && d.session.State != nil && d.session.State.User != nil:
		status.State = "connected"
		status.User = &models.DiscordUser{
			ID:       d.session.State.User.ID,
			Username: d.session.State.User.Username,
			Bot:      d.session.State.User.Bot,
		}
		status.Guilds = len(d.session.State.Guilds)
	case d.enabled:
		status.State = "initialized_not_started"
	default:
		status.State = "disabled"
	}
	return status
}
