package services

import (
	"strings"
	"testing"
)

func TestBuildPromptIsDeterministic(t *testing.T) {
	a := BuildPrompt("photosynthesis")
	b := BuildPrompt("photosynthesis")
	if a != b {
		t.Fatalf("BuildPrompt not deterministic")
	}
	if !strings.Contains(a, "explanation about photosynthesis.") {
		t.Fatalf("topic not substituted: %q", a)
	}
	for _, part := range []string{
		"Definition and key concepts",
		"Main principles or components",
		"Real-world applications or examples",
		"Important facts and developments",
		"Current trends or future perspectives",
	} {
		if !strings.Contains(a, part) {
			t.Fatalf("prompt missing %q", part)
		}
	}
}

func TestNewGenerationRequestDefaults(t *testing.T) {
	req := NewGenerationRequest("gravity")
	if req.Topic != "gravity" {
		t.Fatalf("Topic: got=%q", req.Topic)
	}
	if req.Prompt != BuildPrompt("gravity") {
		t.Fatalf("Prompt: got=%q", req.Prompt)
	}
	p := req.Params
	if p.MaxLength != 512 || p.MinLength != 100 || p.NumBeams != 5 || p.TopK != 50 || p.NoRepeatNgramSize != 3 {
		t.Fatalf("unexpected integer params: %+v", p)
	}
	if p.Temperature != 0.7 || p.TopP != 0.92 || p.RepetitionPenalty != 2.5 || p.LengthPenalty != 1.5 {
		t.Fatalf("unexpected float params: %+v", p)
	}
	if !p.DoSample || !p.EarlyStopping {
		t.Fatalf("sampling and early stopping should be on: %+v", p)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := truncateWords("a b c d", 2); got != "a b" {
		t.Fatalf("truncateWords: got=%q", got)
	}
	if got := truncateWords("a  b", 5); got != "a  b" {
		t.Fatalf("short input should be untouched: got=%q", got)
	}
}
