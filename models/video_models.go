package models

// VideoCandidate is a search hit joined with its detail lookup.
type VideoCandidate struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	ViewCount    uint64 `json:"view_count"`
	LikeCount    uint64 `json:"like_count"`
}

// ScoredVideo is a candidate that passed the educational-term filter.
type ScoredVideo struct {
	VideoCandidate
	EducationScore int    `json:"education_score"`
	Engagement     uint64 `json:"engagement"`
}

// VideoHit is a raw keyword-search result.
type VideoHit struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
}

// VideoDetail is the per-video snippet and statistics lookup.
type VideoDetail struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ViewCount   uint64 `json:"view_count"`
	LikeCount   uint64 `json:"like_count"`
}
