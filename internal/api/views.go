package api

import (
	"context"
	"time"

	"github.com/plumeblog/plume/internal/engage"
	"github.com/plumeblog/plume/internal/models"
)

// imageView is the wire representation of a post image
type imageView struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// postView is the wire representation of a post with read-time counts
type postView struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user"`
	Title        string      `json:"title"`
	Subtitle     string      `json:"sub_title,omitempty"`
	Content      string      `json:"content"`
	Images       []imageView `json:"images"`
	Tags         []string    `json:"tags"`
	LikesCount   int64       `json:"likes_count"`
	ReviewsCount int64       `json:"reviews_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// reviewView is the wire representation of a review
type reviewView struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"blog"`
	Reviewer  int64     `json:"reviewer"`
	Rating    *int64    `json:"rating,omitempty"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// profileView is the wire representation of a profile
type profileView struct {
	Bio            string `json:"bio,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Interests      string `json:"interests"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// userView is the wire representation of a user with profile and counts
type userView struct {
	ID             int64        `json:"id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email"`
	Username       string       `json:"username"`
	Profile        *profileView `json:"profile,omitempty"`
	BlogCount      int64        `json:"blog_count"`
	FollowersCount int64        `json:"followers_count"`
	Followed       *bool        `json:"followed,omitempty"`
}

func newPostView(post models.Post, counts engage.PostCounts) postView {
	images := make([]imageView, 0, len(post.Images))
	for _, img := range post.Images {
		images = append(images, imageView{ID: img.ID, Image: img.StoredAs})
	}
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Tag)
	}
	return postView{
		ID:           post.ID,
		UserID:       post.UserID,
		Title:        post.Title,
		Subtitle:     post.Subtitle.String,
		Content:      post.Content,
		Images:       images,
		Tags:         tags,
		LikesCount:   counts.Likes,
		ReviewsCount: counts.Reviews,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}

// newPostViews builds views for a post list with batch-loaded counts
func newPostViews(ctx context.Context, aggregator *engage.Aggregator, posts []models.Post) ([]postView, error) {
	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	counts, err := aggregator.Counts(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]postView, len(posts))
	for i, post := range posts {
		views[i] = newPostView(post, counts[post.ID])
	}
	return views, nil
}

func newReviewView(review models.Review) reviewView {
	view := reviewView{
		ID:        review.ID,
		PostID:    review.PostID,
		Reviewer:  review.ReviewerID,
		Review:    review.Body.String,
		CreatedAt: review.CreatedAt,
	}
	if review.Rating.Valid {
		rating := review.Rating.Int64
		view.Rating = &rating
	}
	return view
}

func newProfileView(profile *models.Profile) *profileView {
	if profile == nil {
		return nil
	}
	return &profileView{
		Bio:            profile.Bio.String,
		PhoneNumber:    profile.PhoneNumber.String,
		Interests:      profile.Interests,
		ProfilePicture: profile.ProfilePicture,
	}
}
