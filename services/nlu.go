package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/philippgille/chromem-go"
	"gopkg.in/yaml.v3"

	"learnbot/utils"
)

// IntentFallback is reported when no example is close enough.
const IntentFallback = "nlu_fallback"

const (
	topicPlaceholder  = "topic"
	embeddingDims     = 512
	intentCollection  = "intent-examples"
	defaultThreshold  = 0.45
	classifyNeighbors = 3
	similarityEpsilon = 1e-6
)

//go:embed domain.yml
var defaultDomainYAML []byte

var topicAnnotation = regexp.MustCompile(`\[([^\]]+)\]\(topic\)`)

// Domain is the dialogue domain: intents with examples, topic patterns,
// canned responses and intent routing.
type Domain struct {
	Version           string              `yaml:"version"`
	Intents           []IntentSpec        `yaml:"intents"`
	TopicPatterns     []string            `yaml:"topic_patterns"`
	FallbackThreshold float32             `yaml:"fallback_threshold"`
	Responses         map[string][]string `yaml:"responses"`
	Routes            map[string]string   `yaml:"routes"`
}

// IntentSpec is one intent and its training examples.
type IntentSpec struct {
	Name     string   `yaml:"name"`
	Examples []string `yaml:"examples"`
}

// LoadDomain parses and validates a domain document.
func LoadDomain(data []byte) (*Domain, error) {
	var d Domain
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse domain: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.FallbackThreshold <= 0 {
		d.FallbackThreshold = defaultThreshold
	}
	return &d, nil
}

// DefaultDomain returns the domain shipped with the binary.
func DefaultDomain() (*Domain, error) {
	return LoadDomain(defaultDomainYAML)
}

func (d *Domain) validate() error {
	if len(d.Intents) == 0 {
		return errors.New("domain declares no intents")
	}
	known := map[string]bool{IntentFallback: true}
	for _, intent := range d.Intents {
		if intent.Name == "" {
			return errors.New("domain has an intent without a name")
		}
		if len(intent.Examples) == 0 {
			return fmt.Errorf("intent %s has no examples", intent.Name)
		}
		known[intent.Name] = true
	}
	for intent, target := range d.Routes {
		if !known[intent] {
			return fmt.Errorf("route for unknown intent %s", intent)
		}
		if strings.HasPrefix(target, "utter_") && len(d.Responses[target]) == 0 {
			return fmt.Errorf("route %s -> %s has no responses", intent, target)
		}
	}
	if _, ok := d.Routes[IntentFallback]; !ok {
		return errors.New("domain has no route for " + IntentFallback)
	}
	return nil
}

// ParsedMessage is the classification of one learner message.
type ParsedMessage struct {
	Text       string  `json:"text"`
	Intent     string  `json:"intent"`
	Confidence float32 `json:"confidence"`
	Topic      string  `json:"topic,omitempty"`
}

// NLU classifies messages by nearest training example in a chromem-go
// collection and pulls the topic out with the domain's patterns.
type NLU struct {
	collection *chromem.Collection
	patterns   []*regexp.Regexp
	threshold  float32
	// intentRank is each intent's position in the domain file.
	intentRank map[string]int
	logger     *utils.Logger
}

// NewNLU indexes every intent example of domain.
func NewNLU(ctx context.Context, domain *Domain, logger *utils.Logger) (*NLU, error) {
	if logger == nil {
		logger = utils.NopLogger()
	}
	patterns := make([]*regexp.Regexp, 0, len(domain.TopicPatterns))
	for _, p := range domain.TopicPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("topic pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("topic pattern %q has no capture group", p)
		}
		patterns = append(patterns, re)
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(intentCollection, nil, hashEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	count := 0
	rank := make(map[string]int, len(domain.Intents))
	for i, intent := range domain.Intents {
		rank[intent.Name] = i
		for i, example := range intent.Examples {
			err := collection.AddDocument(ctx, chromem.Document{
				ID:       fmt.Sprintf("%s-%d", intent.Name, i),
				Content:  exampleFrame(example),
				Metadata: map[string]string{"intent": intent.Name},
			})
			if err != nil {
				return nil, fmt.Errorf("index example %q: %w", example, err)
			}
			count++
		}
	}
	logger.Info("intent index built", "intents", len(domain.Intents), "examples", count)

	return &NLU{
		collection: collection,
		patterns:   patterns,
		threshold:  domain.FallbackThreshold,
		intentRank: rank,
		logger:     logger,
	}, nil
}

// Parse classifies text and extracts its topic, if any.
func (n *NLU) Parse(ctx context.Context, text string) (ParsedMessage, error) {
	text = strings.TrimSpace(text)
	parsed := ParsedMessage{Text: text, Intent: IntentFallback}
	if text == "" {
		return parsed, nil
	}

	topic, frame := n.ExtractTopic(text)
	parsed.Topic = topic

	// Every example is scored so that ties at the cut-off cannot change
	// which neighbours are seen.
	total := n.collection.Count()
	if total == 0 {
		return parsed, nil
	}
	results, err := n.collection.Query(ctx, frame, total, nil, nil)
	if err != nil {
		return parsed, fmt.Errorf("failed to query collection: %w", err)
	}
	if len(results) == 0 {
		return parsed, nil
	}

	parsed.Intent, parsed.Confidence = n.vote(results)
	n.logger.Debug("parsed message", "intent", parsed.Intent, "confidence", parsed.Confidence, "topic", parsed.Topic)
	return parsed, nil
}

// vote picks the intent of the nearest example. Examples tied with it are
// settled by the summed similarity of each intent's votes among the nearest
// neighbours, then by the intent's order in the domain file. Neighbours under
// the threshold do not vote.
func (n *NLU) vote(results []chromem.Result) (string, float32) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if d := a.Similarity - b.Similarity; d > similarityEpsilon || d < -similarityEpsilon {
			return d > 0
		}
		if ra, rb := n.rankOf(a.Metadata["intent"]), n.rankOf(b.Metadata["intent"]); ra != rb {
			return ra < rb
		}
		return a.ID < b.ID
	})

	best := results[0].Similarity
	if best < n.threshold {
		return IntentFallback, best
	}

	votes := make(map[string]float32)
	var tied []string
	for _, r := range results[:min(classifyNeighbors, len(results))] {
		if r.Similarity < n.threshold {
			break
		}
		intent := r.Metadata["intent"]
		votes[intent] += r.Similarity
		if best-r.Similarity <= similarityEpsilon {
			tied = append(tied, intent)
		}
	}

	winner := tied[0]
	for _, intent := range tied[1:] {
		switch d := votes[intent] - votes[winner]; {
		case d > similarityEpsilon:
			winner = intent
		case d >= -similarityEpsilon && n.rankOf(intent) < n.rankOf(winner):
			winner = intent
		}
	}
	return winner, best
}

func (n *NLU) rankOf(intent string) int {
	if r, ok := n.intentRank[intent]; ok {
		return r
	}
	return len(n.intentRank)
}

// ExtractTopic returns the topic captured by the first matching pattern and
// the message with that span replaced by a placeholder.
func (n *NLU) ExtractTopic(text string) (string, string) {
	text = strings.TrimRight(text, ".?!,;: ")
	for _, re := range n.patterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil || loc[2] < 0 {
			continue
		}
		topic := cleanTopic(text[loc[2]:loc[3]])
		if topic == "" {
			continue
		}
		return topic, text[:loc[2]] + " " + topicPlaceholder + " " + text[loc[3]:]
	}
	return "", text
}

func cleanTopic(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".?!,;:"))
}

func exampleFrame(example string) string {
	return topicAnnotation.ReplaceAllString(example, topicPlaceholder)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// hashEmbedding is a bag-of-words vector with tokens hashed into a fixed
// number of buckets. It never returns the zero vector.
func hashEmbedding(_ context.Context, text string) ([]float32, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		tokens = []string{"<empty>"}
	}

	vec := make([]float32, embeddingDims)
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%embeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
