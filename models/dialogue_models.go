package models

// DialogueContext carries the learner's preferences alongside a message.
type DialogueContext struct {
	LearningStyle  string   `json:"learning_style"`
	Interests      []string `json:"interests"`
	EducationLevel string   `json:"education_level"`
}

// WebhookRequest is the body posted to the dialogue endpoint
type WebhookRequest struct {
	Sender  string          `json:"sender"`
	Message string          `json:"message"`
	Context DialogueContext `json:"context"`
}

// WebhookMessage is one reply bubble returned by the dialogue endpoint
type WebhookMessage struct {
	Text string `json:"text"`
}

// ContextFromPreferences copies preferences into the wire context.
func ContextFromPreferences(p Preferences) DialogueContext {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return DialogueContext{
		LearningStyle:  p.LearningStyle,
		Interests:      interests,
		EducationLevel: p.EducationLevel,
	}
}
