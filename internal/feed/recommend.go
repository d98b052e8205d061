package feed

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plumeblog/plume/internal/cache"
	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/pkg/logging"
)

const (
	// Result limits observed by the recommendation surfaces
	youMayLikeLimit = 5
	popularTagLimit = 10

	popularTagsTTL = 60 * time.Second
)

// Recommender builds the "you may like" and "popular tags" views
type Recommender struct {
	repo   *db.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewRecommender creates a new recommendation ranker. The cache may be nil.
func NewRecommender(repo *db.Repository, redisCache *cache.Cache) *Recommender {
	return &Recommender{
		repo:   repo,
		cache:  redisCache,
		logger: logging.WithComponent("recommender"),
	}
}

// YouMayLike returns up to 5 posts ranked by how many of their tags appear
// in the viewer's interests. A viewer without interests gets an empty
// result, not an error.
func (r *Recommender) YouMayLike(ctx context.Context, viewerID int64) ([]models.Post, error) {
	profile, err := db.NewProfileRepository(r.repo).GetByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var interests []string
	if profile != nil {
		interests = parseInterests(profile.Interests)
	}
	if len(interests) == 0 {
		return []models.Post{}, nil
	}

	// Candidate set: any post carrying at least one interest tag.
	var candidateIDs []int64
	err = r.repo.DB().WithContext(ctx).Model(&models.PostTag{}).
		Distinct("post_id").
		Where("tag IN ?", interests).
		Pluck("post_id", &candidateIDs).Error
	if err != nil {
		return nil, err
	}
	if len(candidateIDs) == 0 {
		return []models.Post{}, nil
	}

	var candidates []models.Post
	err = r.repo.DB().WithContext(ctx).
		Preload("Images").
		Preload("Tags").
		Where("id IN ?", candidateIDs).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	ranked := rankByInterests(candidates, interests, youMayLikeLimit)

	r.logger.Debug("Recommendations built",
		zap.Int64("viewer_id", viewerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(ranked)))

	return ranked, nil
}

// tagCount pairs a tag text with the number of distinct posts using it
type tagCount struct {
	Tag string `gorm:"column:tag"`
	N   int64  `gorm:"column:n"`
}

// PopularTags returns the top 10 tag strings ranked by distinct post count,
// independent of any viewer. Served read-through from Redis when available.
func (r *Recommender) PopularTags(ctx context.Context) ([]string, error) {
	cacheKey := cache.HashKey("popular-tags")
	if r.cache != nil {
		var cached []string
		if err := r.cache.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var rows []tagCount
	err := r.repo.DB().WithContext(ctx).Model(&models.PostTag{}).
		Select("tag, COUNT(DISTINCT post_id) AS n").
		Group("tag").
		Order("n DESC, tag ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tags := topTags(rows, popularTagLimit)

	if r.cache != nil {
		if err := r.cache.SetJSON(cacheKey, tags, popularTagsTTL); err != nil {
			r.logger.Warn("Failed to cache popular tags", zap.Error(err))
		}
	}

	return tags, nil
}

// parseInterests splits a comma-separated interest string. Matching is
// exact and case-sensitive, so entries are kept as-is: no trimming, no
// case folding. Empty entries are dropped.
func parseInterests(interests string) []string {
	if interests == "" {
		return nil
	}
	parts := strings.Split(interests, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// rankByInterests scores each post by how many of its tags are in the
// interest set, drops zero scores, sorts by score descending (ties keep
// store order) and truncates to limit.
func rankByInterests(posts []models.Post, interests []string, limit int) []models.Post {
	interestSet := make(map[string]struct{}, len(interests))
	for _, tag := range interests {
		interestSet[tag] = struct{}{}
	}

	type scored struct {
		post  models.Post
		score int
	}
	matched := make([]scored, 0, len(posts))
	for _, post := range posts {
		score := 0
		for _, tag := range post.Tags {
			if _, ok := interestSet[tag.Tag]; ok {
				score++
			}
		}
		if score > 0 {
			matched = append(matched, scored{post: post, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]models.Post, len(matched))
	for i, m := range matched {
		out[i] = m.post
	}
	return out
}

// topTags truncates ranked tag counts to limit, deduplicating tag text
func topTags(rows []tagCount, limit int) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, limit)
	for _, row := range rows {
		if _, ok := seen[row.Tag]; ok {
			continue
		}
		seen[row.Tag] = struct{}{}
		out = append(out, row.Tag)
		if len(out) == limit {
			break
		}
	}
	return out
}
