package engage

import (
	"context"
	"testing"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/db/dbtest"
	"github.com/plumeblog/plume/internal/models"
)

func seedPost(t *testing.T, repo *db.Repository) *models.Post {
	t.Helper()
	post := &models.Post{UserID: 1, Title: "reviewed", Content: "body"}
	if err := repo.DB().Create(post).Error; err != nil {
		t.Fatalf("Create post: %v", err)
	}
	return post
}

func TestAddReviewValidatesRating(t *testing.T) {
	repo := dbtest.New(t)
	agg := NewAggregator(repo)
	ctx := context.Background()
	post := seedPost(t, repo)

	neg := int64(-1)
	if _, err := agg.AddReview(ctx, 2, post.ID, &neg, "bad"); err != ErrInvalidRating {
		t.Errorf("AddReview(rating -1) = %v, want ErrInvalidRating", err)
	}

	zero := int64(0)
	if _, err := agg.AddReview(ctx, 2, post.ID, &zero, "ok"); err != nil {
		t.Errorf("AddReview(rating 0) = %v, want nil", err)
	}
}

func TestAddReviewOncePerReviewer(t *testing.T) {
	repo := dbtest.New(t)
	agg := NewAggregator(repo)
	ctx := context.Background()
	post := seedPost(t, repo)

	rating := int64(4)
	if _, err := agg.AddReview(ctx, 2, post.ID, &rating, "good"); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if _, err := agg.AddReview(ctx, 2, post.ID, &rating, "again"); err != ErrDuplicateReview {
		t.Errorf("second AddReview = %v, want ErrDuplicateReview", err)
	}

	count, err := agg.ReviewsCount(ctx, post.ID)
	if err != nil {
		t.Fatalf("ReviewsCount: %v", err)
	}
	if count != 1 {
		t.Errorf("ReviewsCount = %d, want 1", count)
	}
}
