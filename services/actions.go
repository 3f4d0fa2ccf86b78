package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"learnbot/models"
	"learnbot/utils"
)

// Action names as routed by the dialogue domain.
const (
	ActionGenerateContent = "action_generate_content"
	ActionFetchVideos     = "action_fetch_youtube_videos"
)

// detailConcurrency bounds the per-video lookups of one search.
const detailConcurrency = 3

const videoClosingLine = "These videos are curated to help you learn more about the topic. Enjoy your learning journey!"

// ExplainAction produces an educational explanation for a topic.
type ExplainAction struct {
	generator *Generator
	logger    *utils.Logger
}

func NewExplainAction(generator *Generator, logger *utils.Logger) *ExplainAction {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &ExplainAction{generator: generator, logger: logger}
}

// Explain validates topic and returns the generated text, unformatted.
func (a *ExplainAction) Explain(ctx context.Context, topic string) (string, error) {
	if a.generator == nil || !a.generator.Ready() {
		return "", ErrModelUnavailable
	}
	topic, err := CheckTopic(topic)
	if err != nil {
		return "", err
	}
	return a.generator.Generate(ctx, NewGenerationRequest(topic))
}

// Run returns the reply for topic. Every failure becomes a user message.
func (a *ExplainAction) Run(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	text, err := a.Explain(ctx, topic)
	if err != nil {
		a.logger.Info("explanation not produced", "topic", topic, "error", err)
		return UserMessage(err, topic)
	}
	a.logger.Info("generated content for topic", "topic", topic)
	return FormatExplanation(topic, text)
}

// FormatExplanation puts each sentence of text in its own paragraph.
func FormatExplanation(topic, text string) string {
	return fmt.Sprintf("Here's a detailed explanation about %s:\n\n\n%s", topic, strings.ReplaceAll(text, ". ", ".\n\n"))
}

// VideoAction finds and ranks tutorial videos for a topic.
type VideoAction struct {
	searcher VideoSearcher
	terms    []string
	logger   *utils.Logger
}

func NewVideoAction(searcher VideoSearcher, logger *utils.Logger) *VideoAction {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &VideoAction{searcher: searcher, terms: EducationalTerms, logger: logger}
}

// Recommend searches for topic, joins each hit with its details and ranks
// the result. A failed detail lookup drops only that video.
func (a *VideoAction) Recommend(ctx context.Context, topic string) ([]models.ScoredVideo, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrTopicMissing
	}
	if a.searcher == nil {
		return nil, ErrSearchUnavailable
	}

	hits, err := a.searcher.SearchVideos(ctx, VideoSearchQuery(topic))
	if err != nil {
		if !errors.Is(err, ErrSearchUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
		}
		return nil, err
	}
	if len(hits) == 0 {
		return nil, ErrNoSearchResults
	}

	candidates := a.lookupDetails(ctx, hits)
	return RankVideos(candidates, a.terms)
}

func (a *VideoAction) lookupDetails(ctx context.Context, hits []models.VideoHit) []models.VideoCandidate {
	details := make([]*models.VideoDetail, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, hit := range hits {
		g.Go(func() error {
			d, err := a.searcher.VideoDetails(gctx, hit.ID)
			if err != nil {
				a.logger.Warn("skipping video without details", "video_id", hit.ID, "error", err)
				return nil
			}
			details[i] = d
			return nil
		})
	}
	_ = g.Wait()

	candidates := make([]models.VideoCandidate, 0, len(hits))
	for i, hit := range hits {
		d := details[i]
		if d == nil {
			continue
		}
		candidates = append(candidates, models.VideoCandidate{
			ID:           hit.ID,
			Title:        hit.Title,
			ChannelTitle: hit.ChannelTitle,
			URL:          VideoURL(hit.ID),
			Description:  d.Description,
			ViewCount:    d.ViewCount,
			LikeCount:    d.LikeCount,
		})
	}
	return candidates
}

// Run returns the reply for topic. Every failure becomes a user message.
func (a *VideoAction) Run(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	videos, err := a.Recommend(ctx, topic)
	if err != nil {
		if errors.Is(err, ErrTopicMissing) {
			return "I need a topic to search for videos."
		}
		a.logger.Info("no videos recommended", "topic", topic, "error", err)
		return UserMessage(err, topic)
	}
	return FormatVideos(topic, videos)
}

// FormatVideos renders the ranked list with its header and closing line.
func FormatVideos(topic string, videos []models.ScoredVideo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎥 Educational Videos about %s\n\n", topic)
	for i, v := range videos {
		fmt.Fprintf(&b, "Video %d\n", i+1)
		fmt.Fprintf(&b, "📌 Title: %s\n", v.Title)
		fmt.Fprintf(&b, "👤 Channel: %s\n", v.ChannelTitle)
		fmt.Fprintf(&b, "🔗 Watch Now: %s\n\n", v.URL)
	}
	b.WriteString(videoClosingLine)
	return b.String()
}
