package services

import (
	"errors"
	"strings"
	"testing"
)

func TestIsEducationalRejectsKeywordsInAnyCase(t *testing.T) {
	for _, keyword := range nonEducationalKeywords {
		variants := []string{
			keyword,
			strings.ToUpper(keyword),
			"best " + strings.ToUpper(keyword[:1]) + keyword[1:] + " ideas",
			"x" + keyword + "y",
		}
		for _, topic := range variants {
			if IsEducational(topic) {
				t.Fatalf("IsEducational(%q): want=false got=true", topic)
			}
		}
	}
}

func TestIsEducationalAcceptsCleanTopics(t *testing.T) {
	for _, topic := range []string{"photosynthesis", "Quantum Physics", "linear algebra", "the French Revolution", ""} {
		if !IsEducational(topic) {
			t.Fatalf("IsEducational(%q): want=true got=false", topic)
		}
	}
}

func TestIsEducationalSubstringFalsePositives(t *testing.T) {
	// Coarse matching is known behaviour.
	for _, topic := range []string{"food science", "newsletters in history", "Pizza recipes"} {
		if IsEducational(topic) {
			t.Fatalf("IsEducational(%q): want=false got=true", topic)
		}
	}
}

func TestCheckTopic(t *testing.T) {
	if _, err := CheckTopic("   "); !errors.Is(err, ErrTopicMissing) {
		t.Fatalf("blank topic: want ErrTopicMissing got=%v", err)
	}
	if _, err := CheckTopic("Pizza recipes"); !errors.Is(err, ErrTopicRejected) {
		t.Fatalf("pizza: want ErrTopicRejected got=%v", err)
	}
	topic, err := CheckTopic("  photosynthesis ")
	if err != nil {
		t.Fatalf("photosynthesis: %v", err)
	}
	if topic != "photosynthesis" {
		t.Fatalf("topic: want=%q got=%q", "photosynthesis", topic)
	}
}
