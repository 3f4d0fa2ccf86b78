package services

import "strings"

// nonEducationalKeywords reject a topic when any of them occurs as a
// substring of the lower-cased topic. Substring matching is coarse:
// "food science" and "newsletter" are rejected too.
var nonEducationalKeywords = []string{
	"pizza", "food", "infosys", "company", "movie", "celebrity", "sports",
	"music", "recipe", "travel", "fashion", "gossip", "weather", "news",
	"politics", "games", "shopping", "cars",
}

// IsEducational reports whether topic is in scope for an explanation.
func IsEducational(topic string) bool {
	lower := strings.ToLower(topic)
	for _, keyword := range nonEducationalKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}

// CheckTopic trims topic and returns ErrTopicMissing or ErrTopicRejected
// when it cannot be explained.
func CheckTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicMissing
	}
	if !IsEducational(topic) {
		return topic, ErrTopicRejected
	}
	return topic, nil
}
