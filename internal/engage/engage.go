package engage

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/pkg/logging"
)

var (
	// ErrDuplicateReview is returned when a user reviews the same post twice
	ErrDuplicateReview = errors.New("post already reviewed by this user")
	// ErrPostNotFound is returned when the referenced post does not exist
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidRating is returned for a negative rating
	ErrInvalidRating = errors.New("rating must be zero or positive")
)

// LikeResult reports the outcome of an idempotent like/unlike
type LikeResult struct {
	Changed bool
	Message string
	Count   int64
}

// PostCounts holds read-time aggregate counts for a post
type PostCounts struct {
	Likes   int64
	Reviews int64
}

// Aggregator maintains likes and reviews. Counts are always computed on
// read, never stored.
type Aggregator struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewAggregator creates a new review/like aggregator
func NewAggregator(repo *db.Repository) *Aggregator {
	return &Aggregator{
		repo:   repo,
		logger: logging.WithComponent("engage"),
	}
}

// AddReview creates an immutable review. The duplicate check and the insert
// run in one transaction; a second review for the same (post, reviewer)
// pair fails with ErrDuplicateReview.
func (a *Aggregator) AddReview(ctx context.Context, reviewerID, postID int64, rating *int64, body string) (*models.Review, error) {
	if rating != nil && *rating < 0 {
		return nil, ErrInvalidRating
	}
	if err := a.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	review := &models.Review{
		PostID:     postID,
		ReviewerID: reviewerID,
		Body:       sql.NullString{String: body, Valid: body != ""},
	}
	if rating != nil {
		review.Rating = sql.NullInt64{Int64: *rating, Valid: true}
	}

	err := a.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("post_id = ? AND reviewer_id = ?", postID, reviewerID).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateReview
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(review).Error
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Review added",
		zap.Int64("post_id", postID),
		zap.Int64("reviewer_id", reviewerID))
	return review, nil
}

// ListReviews returns all reviews for a post with the reviewer preloaded
func (a *Aggregator) ListReviews(ctx context.Context, postID int64) ([]models.Review, error) {
	if err := a.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	var reviews []models.Review
	err := a.repo.DB().WithContext(ctx).
		Preload("Reviewer").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Like adds the user to the post's like-set. Re-liking is a success no-op
// reported as "already liked".
func (a *Aggregator) Like(ctx context.Context, userID, postID int64) (*LikeResult, error) {
	if err := a.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	res := a.repo.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostLike{PostID: postID, UserID: userID})
	if res.Error != nil {
		return nil, res.Error
	}

	count, err := a.LikesCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	if res.RowsAffected == 0 {
		return &LikeResult{Changed: false, Message: "already liked", Count: count}, nil
	}
	return &LikeResult{Changed: true, Message: "liked", Count: count}, nil
}

// Unlike removes the user from the post's like-set. Unliking a post that
// was never liked is a success no-op reported as "not liked".
func (a *Aggregator) Unlike(ctx context.Context, userID, postID int64) (*LikeResult, error) {
	if err := a.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	res := a.repo.DB().WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return nil, res.Error
	}

	count, err := a.LikesCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	if res.RowsAffected == 0 {
		return &LikeResult{Changed: false, Message: "not liked", Count: count}, nil
	}
	return &LikeResult{Changed: true, Message: "unliked", Count: count}, nil
}

// LikesCount returns the like-set cardinality, computed on read
func (a *Aggregator) LikesCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := a.repo.DB().WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReviewsCount returns the number of reviews on a post
func (a *Aggregator) ReviewsCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := a.repo.DB().WithContext(ctx).Model(&models.Review{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Counts batch-loads like and review counts for a set of posts
func (a *Aggregator) Counts(ctx context.Context, postIDs []int64) (map[int64]PostCounts, error) {
	counts := make(map[int64]PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var likeRows []struct {
		PostID int64 `gorm:"column:post_id"`
		N      int64 `gorm:"column:n"`
	}
	err := a.repo.DB().WithContext(ctx).Model(&models.PostLike{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range likeRows {
		c := counts[row.PostID]
		c.Likes = row.N
		counts[row.PostID] = c
	}

	var reviewRows []struct {
		PostID int64 `gorm:"column:post_id"`
		N      int64 `gorm:"column:n"`
	}
	err = a.repo.DB().WithContext(ctx).Model(&models.Review{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&reviewRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range reviewRows {
		c := counts[row.PostID]
		c.Reviews = row.N
		counts[row.PostID] = c
	}

	return counts, nil
}

func (a *Aggregator) ensurePost(ctx context.Context, postID int64) error {
	var count int64
	err := a.repo.DB().WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}
