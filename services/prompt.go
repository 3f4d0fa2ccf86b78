package services

import (
	"fmt"
	"strings"

	"learnbot/models"
)

// maxPromptWords approximates the model's 1024-token input window.
const maxPromptWords = 1024

const explanationTemplate = `Generate a detailed and educational explanation about %s.
Include:
- Definition and key concepts
- Main principles or components
- Real-world applications or examples
- Important facts and developments
- Current trends or future perspectives
Make it informative yet easy to understand.`

// BuildPrompt renders the fixed instructional template for topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(explanationTemplate, topic)
}

// NewGenerationRequest builds the immutable request for topic using the
// default decoding parameters.
func NewGenerationRequest(topic string) models.GenerationRequest {
	return models.GenerationRequest{
		Topic:  topic,
		Prompt: truncateWords(BuildPrompt(topic), maxPromptWords),
		Params: models.DefaultDecodingParams(),
	}
}

func truncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
