package feed

import (
	"context"

	"go.uber.org/zap"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/internal/social"
	"github.com/plumeblog/plume/pkg/logging"
)

// Assembler builds the personalized following feed for a viewer
type Assembler struct {
	repo   *db.Repository
	graph  *social.Graph
	logger *zap.Logger
}

// NewAssembler creates a new feed assembler
func NewAssembler(repo *db.Repository, graph *social.Graph) *Assembler {
	return &Assembler{
		repo:   repo,
		graph:  graph,
		logger: logging.WithComponent("feed-assembler"),
	}
}

// Feed returns the viewer's feed: the viewer's single most recent own post
// first (if any), then all posts authored by followed users in insertion
// order. A viewer following nobody gets at most their own latest post.
func (a *Assembler) Feed(ctx context.Context, viewerID int64) ([]models.Post, error) {
	own, err := a.latestOwnPost(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	followings, err := a.graph.Followings(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var followed []models.Post
	if len(followings) > 0 {
		ids := make([]int64, len(followings))
		for i, u := range followings {
			ids[i] = u.ID
		}
		err = a.repo.DB().WithContext(ctx).
			Preload("Images").
			Preload("Tags").
			Where("user_id IN ?", ids).
			Order("id ASC").
			Find(&followed).Error
		if err != nil {
			return nil, err
		}
	}

	feed := mergeFeed(own, followed)

	a.logger.Debug("Feed assembled",
		zap.Int64("viewer_id", viewerID),
		zap.Int("followings", len(followings)),
		zap.Int("posts", len(feed)))

	return feed, nil
}

// latestOwnPost is the viewer's most recently inserted post, if any
func (a *Assembler) latestOwnPost(ctx context.Context, viewerID int64) (*models.Post, error) {
	posts, err := db.NewPostRepository(a.repo).GetByAuthor(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[len(posts)-1], nil
}

// mergeFeed prepends the viewer's latest own post to the followed posts.
// Always returns a non-nil slice so an empty feed serializes as [].
func mergeFeed(own *models.Post, followed []models.Post) []models.Post {
	feed := make([]models.Post, 0, len(followed)+1)
	if own != nil {
		feed = append(feed, *own)
	}
	feed = append(feed, followed...)
	return feed
}
