package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"learnbot/models"
	"learnbot/utils"
)

// Action is a backend step the dispatcher can route an intent to.
type Action interface {
	Name() string
	Run(ctx context.Context, topic string) string
}

func (a *ExplainAction) Name() string { return ActionGenerateContent }

func (a *VideoAction) Name() string { return ActionFetchVideos }

// tracker is the dispatcher's memory of one sender.
type tracker struct {
	topic    string
	context  models.DialogueContext
	lastSeen time.Time
}

// Dispatcher is the dialogue endpoint's brain: it classifies a message,
// keeps the topic slot per sender and routes to an action or a response.
type Dispatcher struct {
	nlu     *NLU
	domain  *Domain
	actions map[string]Action
	logger  *utils.Logger

	mu       sync.Mutex
	trackers map[string]*tracker
}

// NewDispatcher wires the domain's routes to actions.
func NewDispatcher(nlu *NLU, domain *Domain, logger *utils.Logger, actions ...Action) *Dispatcher {
	if logger == nil {
		logger = utils.NopLogger()
	}
	byName := make(map[string]Action, len(actions))
	for _, a := range actions {
		byName[a.Name()] = a
	}
	for intent, target := range domain.Routes {
		if !strings.HasPrefix(target, "utter_") && byName[target] == nil {
			logger.Warn("route has no registered action", "intent", intent, "action", target)
		}
	}
	return &Dispatcher{
		nlu:      nlu,
		domain:   domain,
		actions:  byName,
		logger:   logger,
		trackers: make(map[string]*tracker),
	}
}

// Handle processes one webhook request and returns the reply bubbles.
func (d *Dispatcher) Handle(ctx context.Context, req models.WebhookRequest) []models.WebhookMessage {
	parsed, err := d.nlu.Parse(ctx, req.Message)
	if err != nil {
		d.logger.Error("failed to parse message", "sender", req.Sender, "error", err)
		parsed = ParsedMessage{Text: req.Message, Intent: IntentFallback}
	}

	slot := d.observe(req, parsed.Topic)
	target, ok := d.domain.Routes[parsed.Intent]
	if !ok {
		target = d.domain.Routes[IntentFallback]
	}
	// Only video lookups fall back to the remembered topic; an explanation
	// is always about what this message asked.
	topic := parsed.Topic
	if target == ActionFetchVideos && topic == "" {
		topic = slot
	}
	d.logger.Info("dialogue turn", "sender", req.Sender, "intent", parsed.Intent, "confidence", parsed.Confidence, "route", target, "topic", topic)

	if action, ok := d.actions[target]; ok {
		return []models.WebhookMessage{{Text: action.Run(ctx, topic)}}
	}

	replies := []models.WebhookMessage{{Text: d.utter(target)}}
	if parsed.Intent == "help" {
		if hint := d.suggestionHint(req.Sender); hint != "" {
			replies = append(replies, models.WebhookMessage{Text: hint})
		}
	}
	return replies
}

// observe records the sender's context and returns the topic slot, updated
// with the message's own topic when present.
func (d *Dispatcher) observe(req models.WebhookRequest, topic string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.trackers[req.Sender]
	if !ok {
		t = &tracker{}
		d.trackers[req.Sender] = t
	}
	t.context = req.Context
	t.lastSeen = time.Now()
	if topic != "" {
		t.topic = topic
	}
	return t.topic
}

// Slot returns the remembered topic for sender.
func (d *Dispatcher) Slot(sender string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.trackers[sender]; ok {
		return t.topic
	}
	return ""
}

// Forget drops everything remembered about sender.
func (d *Dispatcher) Forget(sender string) {
	d.mu.Lock()
	delete(d.trackers, sender)
	d.mu.Unlock()
}

// Prune drops trackers not seen since cutoff and returns how many.
func (d *Dispatcher) Prune(cutoff time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for sender, t := range d.trackers {
		if t.lastSeen.Before(cutoff) {
			delete(d.trackers, sender)
			removed++
		}
	}
	return removed
}

func (d *Dispatcher) utter(name string) string {
	options := d.domain.Responses[name]
	if len(options) == 0 {
		return noReplyMessage
	}
	return options[rand.IntN(len(options))]
}

func (d *Dispatcher) suggestionHint(sender string) string {
	d.mu.Lock()
	t, ok := d.trackers[sender]
	var c models.DialogueContext
	if ok {
		c = t.context
	}
	d.mu.Unlock()
	if c.LearningStyle == "" {
		return ""
	}

	suggestions := ExampleSuggestions(c.LearningStyle, c.Interests, c.EducationLevel)
	var b strings.Builder
	b.WriteString("Based on your preferences, you could try:")
	for _, s := range suggestions {
		b.WriteString("\n- ")
		b.WriteString(s)
	}
	return b.String()
}
