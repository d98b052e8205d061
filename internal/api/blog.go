package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plumeblog/plume/internal/auth"
	"github.com/plumeblog/plume/internal/content"
	"github.com/plumeblog/plume/internal/engage"
	"github.com/plumeblog/plume/internal/feed"
	"github.com/plumeblog/plume/internal/storage"
	"github.com/plumeblog/plume/pkg/logging"
	"github.com/plumeblog/plume/pkg/telemetry"
)

// BlogAPI provides post, feed, recommendation and engagement handlers
type BlogAPI struct {
	store       *content.Store
	assembler   *feed.Assembler
	recommender *feed.Recommender
	aggregator  *engage.Aggregator
	images      *storage.ImageStore
	logger      *zap.Logger
}

// NewBlogAPI creates a new blog API
func NewBlogAPI(store *content.Store, assembler *feed.Assembler, recommender *feed.Recommender, aggregator *engage.Aggregator, images *storage.ImageStore) *BlogAPI {
	return &BlogAPI{
		store:       store,
		assembler:   assembler,
		recommender: recommender,
		aggregator:  aggregator,
		images:      images,
		logger:      logging.WithComponent("blog-api"),
	}
}

// ListPosts handles GET /blog/blog with optional user, title and tag filters
func (b *BlogAPI) ListPosts(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.list")
	defer span.End()

	filter := content.ListFilter{
		Title: c.Query("title"),
		Tag:   c.Query("tag"),
	}
	if raw := c.Query("user"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user filter"})
			return
		}
		filter.AuthorID = userID
	}

	posts, err := b.store.List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := newPostViews(ctx, b.aggregator, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// CreatePost handles POST /blog/blog
func (b *BlogAPI) CreatePost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.create")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	var input content.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := b.store.Create(ctx, viewerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostView(*post, engage.PostCounts{}))
}

// GetPost handles GET /blog/blog/:id
func (b *BlogAPI) GetPost(c *gin.Context) {
	ctx := c.Request.Context()

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := b.store.Get(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := b.aggregator.LikesCount(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := b.aggregator.ReviewsCount(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPostView(*post, engage.PostCounts{Likes: likes, Reviews: reviews}))
}

// UpdatePost handles PATCH /blog/blog/:id. A supplied image or tag set
// replaces the whole set; omitted sets are left untouched.
func (b *BlogAPI) UpdatePost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.update")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var input content.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := b.store.Update(ctx, viewerID, postID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := b.aggregator.LikesCount(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := b.aggregator.ReviewsCount(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostView(*post, engage.PostCounts{Likes: likes, Reviews: reviews}))
}

// DeletePost handles DELETE /blog/blog/:id
func (b *BlogAPI) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, _ := auth.Viewer(c)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := b.store.Delete(ctx, viewerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /blog/images (multipart field "image")
func (b *BlogAPI) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	storedAs, err := b.images.Save(file.Filename, src)
	if err != nil {
		if err == storage.ErrUnsupportedType || err == storage.ErrTooLarge {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	image, err := b.store.RegisterImage(ctx, storedAs)
	if err != nil {
		respondError(c, err)
		return
	}

	b.logger.Info("Image uploaded",
		zap.Int64("image_id", image.ID),
		zap.String("stored_as", storedAs))

	c.JSON(http.StatusCreated, imageView{ID: image.ID, Image: image.StoredAs})
}

// FeedBlogs handles GET /blog/feed-blogs
func (b *BlogAPI) FeedBlogs(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.feed")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	posts, err := b.assembler.Feed(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := newPostViews(ctx, b.aggregator, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// YouMayLike handles GET /blog/you-may-like
func (b *BlogAPI) YouMayLike(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.you_may_like")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	posts, err := b.recommender.YouMayLike(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := newPostViews(ctx, b.aggregator, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// PopularTags handles GET /blog/popular-tags
func (b *BlogAPI) PopularTags(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.popular_tags")
	defer span.End()

	tags, err := b.recommender.PopularTags(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// LikePost handles POST /blog/like/:id
func (b *BlogAPI) LikePost(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, _ := auth.Viewer(c)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	result, err := b.aggregator.Like(ctx, viewerID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message, "likes_count": result.Count})
}

// UnlikePost handles POST /blog/unlike/:id
func (b *BlogAPI) UnlikePost(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, _ := auth.Viewer(c)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	result, err := b.aggregator.Unlike(ctx, viewerID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message, "likes_count": result.Count})
}

type addReviewInput struct {
	Blog   int64  `json:"blog" binding:"required"`
	Rating *int64 `json:"rating"`
	Review string `json:"review"`
}

// AddReview handles POST /blog/add-review
func (b *BlogAPI) AddReview(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "blog.add_review")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	var input addReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := b.aggregator.AddReview(ctx, viewerID, input.Blog, input.Rating, input.Review)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReviewView(*review))
}

// ViewReviews handles GET /blog/view-review?blog_id=
func (b *BlogAPI) ViewReviews(c *gin.Context) {
	ctx := c.Request.Context()

	raw := c.Query("blog_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_id is required"})
		return
	}
	postID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog_id"})
		return
	}

	reviews, err := b.aggregator.ListReviews(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]reviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, newReviewView(review))
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":       views,
		"reviews_count": len(views),
	})
}
