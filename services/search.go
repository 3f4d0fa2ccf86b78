package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"learnbot/models"
	"learnbot/utils"
)

const (
	// educationCategoryID is YouTube's "Education" video category.
	educationCategoryID = "27"
	searchMaxResults    = 5
	searchQuerySuffix   = " tutorial how to learn"
	videoURLPrefix      = "https://www.youtube.com/watch?v="
)

// VideoSearcher is the boundary to the external video catalogue.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string) ([]models.VideoHit, error)
	VideoDetails(ctx context.Context, id string) (*models.VideoDetail, error)
}

// VideoSearchQuery is the keyword query sent for topic.
func VideoSearchQuery(topic string) string {
	return strings.TrimSpace(topic) + searchQuerySuffix
}

// VideoURL is the watch link for a video id.
func VideoURL(id string) string {
	return videoURLPrefix + id
}

// YouTubeSearcher queries the YouTube Data API v3. Both calls share one
// limiter because they draw on the same daily quota.
type YouTubeSearcher struct {
	svc     *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
	enabled bool
	logger  *utils.Logger
}

// NewYouTubeSearcher creates a searcher. With no API key and no explicit
// client options the searcher is disabled and every call returns
// ErrSearchUnavailable.
func NewYouTubeSearcher(ctx context.Context, cfg utils.Config, logger *utils.Logger, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if logger == nil {
		logger = utils.NopLogger()
	}
	timeout := cfg.SearchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.SearchRatePerSec > 0 {
		limit = rate.Limit(cfg.SearchRatePerSec)
	}

	s := &YouTubeSearcher{
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
		logger:  logger,
	}

	if cfg.YouTubeAPIKey == "" && len(opts) == 0 {
		logger.Warn("video search disabled", "reason", "YOUTUBE_API_KEY not set")
		return s, nil
	}
	if cfg.YouTubeAPIKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(cfg.YouTubeAPIKey)}, opts...)
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	s.svc = svc
	s.enabled = true
	return s, nil
}

// IsEnabled reports whether the searcher has credentials.
func (s *YouTubeSearcher) IsEnabled() bool {
	return s != nil && s.enabled && s.svc != nil
}

// SearchVideos runs one relevance-ordered, education-category search.
func (s *YouTubeSearcher) SearchVideos(ctx context.Context, query string) ([]models.VideoHit, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("%w: search not configured", ErrSearchUnavailable)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrSearchUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.limiter.Wait(callCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	start := time.Now()
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(searchMaxResults).
		Type("video").
		VideoCategoryId(educationCategoryID).
		Order("relevance").
		SafeSearch("moderate").
		RelevanceLanguage("en").
		Context(callCtx).
		Do()
	if err != nil {
		s.logger.Warn("video search failed", "query", query, "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	hits := make([]models.VideoHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		hit := models.VideoHit{ID: item.Id.VideoId}
		if item.Snippet != nil {
			hit.Title = item.Snippet.Title
			hit.ChannelTitle = item.Snippet.ChannelTitle
		}
		hits = append(hits, hit)
	}
	s.logger.Debug("video search done", "query", query, "hits", len(hits), "elapsed", time.Since(start))
	return hits, nil
}

// VideoDetails fetches the description and statistics of one video.
// Statistics the API omits decode as zero.
func (s *YouTubeSearcher) VideoDetails(ctx context.Context, id string) (*models.VideoDetail, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("%w: search not configured", ErrSearchUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.limiter.Wait(callCtx); err != nil {
		return nil, err
	}

	resp, err := s.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(id).
		Context(callCtx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video details %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, errors.New("video details " + id + ": not found")
	}

	item := resp.Items[0]
	detail := &models.VideoDetail{ID: id}
	if item.Snippet != nil {
		detail.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		detail.ViewCount = item.Statistics.ViewCount
		detail.LikeCount = item.Statistics.LikeCount
	}
	return detail, nil
}

// GetStatus returns the status of the search client
func (s *YouTubeSearcher) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"provider": "youtube",
		"timeout":  s.timeout.String(),
	}
	if s.IsEnabled() {
		status["status"] = "enabled"
	} else {
		status["status"] = "disabled"
		status["error"] = "YOUTUBE_API_KEY not set"
	}
	return status
}
