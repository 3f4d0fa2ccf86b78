package services

import (
	"sort"
	"strings"

	"learnbot/models"
)

// TopVideos is how many ranked videos a reply lists.
const TopVideos = 3

// likeWeight makes one like worth a hundred views.
const likeWeight = 100

// EducationalTerms mark a description as instructional content.
var EducationalTerms = []string{"learn", "tutorial", "guide", "course", "lesson", "example", "explained"}

// EducationScore counts the distinct terms contained in description.
func EducationScore(description string, terms []string) int {
	lower := strings.ToLower(description)
	seen := make(map[string]bool, len(terms))
	score := 0
	for _, term := range terms {
		t := strings.ToLower(term)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		if strings.Contains(lower, t) {
			score++
		}
	}
	return score
}

// Engagement combines views and likes into one popularity figure.
func Engagement(views, likes uint64) uint64 {
	return views + likeWeight*likes
}

// RankVideos scores candidates by educational terms, drops those scoring
// zero, and orders the rest by (score, engagement) descending. Ties keep
// their input order. At most TopVideos are returned; ErrNoQualifyingResults
// is returned when nothing survives.
func RankVideos(candidates []models.VideoCandidate, terms []string) ([]models.ScoredVideo, error) {
	scored := make([]models.ScoredVideo, 0, len(candidates))
	for _, c := range candidates {
		score := EducationScore(c.Description, terms)
		if score == 0 {
			continue
		}
		scored = append(scored, models.ScoredVideo{
			VideoCandidate: c,
			EducationScore: score,
			Engagement:     Engagement(c.ViewCount, c.LikeCount),
		})
	}
	if len(scored) == 0 {
		return nil, ErrNoQualifyingResults
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].EducationScore != scored[j].EducationScore {
			return scored[i].EducationScore > scored[j].EducationScore
		}
		return scored[i].Engagement > scored[j].Engagement
	})

	if len(scored) > TopVideos {
		scored = scored[:TopVideos]
	}
	return scored, nil
}
