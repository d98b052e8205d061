package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plumeblog/plume/internal/auth"
	"github.com/plumeblog/plume/internal/cache"
	"github.com/plumeblog/plume/internal/content"
	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/engage"
	"github.com/plumeblog/plume/internal/feed"
	"github.com/plumeblog/plume/internal/social"
	"github.com/plumeblog/plume/internal/storage"
	"github.com/plumeblog/plume/pkg/config"
	"github.com/plumeblog/plume/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	tokens *auth.TokenManager
	users  *UserAPI
	blog   *BlogAPI
	logger *zap.Logger
}

// NewRouter creates a new API router wiring all services over the store
func NewRouter(database *db.DB, redisCache *cache.Cache, tokens *auth.TokenManager, images *storage.ImageStore, authCfg *config.AuthConfig) *Router {
	repo := db.NewRepository(database.DB)

	graph := social.NewGraph(repo)
	store := content.NewStore(repo)
	aggregator := engage.NewAggregator(repo)
	assembler := feed.NewAssembler(repo, graph)
	recommender := feed.NewRecommender(repo, redisCache)

	return &Router{
		db:     database,
		cache:  redisCache,
		tokens: tokens,
		users:  NewUserAPI(repo, graph, tokens, authCfg),
		blog:   NewBlogAPI(store, assembler, recommender, aggregator, images),
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	authRequired := auth.Middleware(r.tokens)

	users := engine.Group("/users")
	{
		users.POST("/register", r.users.Register)
		users.POST("/login", r.users.Login)
		users.POST("/refresh", r.users.Refresh)

		users.GET("/me", authRequired, r.users.Me)
		users.GET("/user/:id", authRequired, r.users.GetUser)
		users.PATCH("/user/:id", authRequired, r.users.UpdateUser)
		users.PATCH("/user/profile-setup/:user_id", authRequired, r.users.ProfileSetup)

		users.POST("/follow", authRequired, r.users.Follow)
		users.POST("/unfollow", authRequired, r.users.Unfollow)
		users.GET("/followers", authRequired, r.users.Followers)
		users.GET("/followings", authRequired, r.users.Followings)
	}

	blog := engine.Group("/blog", authRequired)
	{
		blog.GET("/blog", r.blog.ListPosts)
		blog.POST("/blog", r.blog.CreatePost)
		blog.GET("/blog/:id", r.blog.GetPost)
		blog.PATCH("/blog/:id", r.blog.UpdatePost)
		blog.DELETE("/blog/:id", r.blog.DeletePost)

		blog.POST("/images", r.blog.UploadImage)

		blog.GET("/feed-blogs", r.blog.FeedBlogs)
		blog.GET("/you-may-like", r.blog.YouMayLike)
		blog.GET("/popular-tags", r.blog.PopularTags)

		blog.POST("/like/:id", r.blog.LikePost)
		blog.POST("/unlike/:id", r.blog.UnlikePost)

		blog.POST("/add-review", r.blog.AddReview)
		blog.GET("/view-review", r.blog.ViewReviews)
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		r.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DEGRADED",
			"service": "plume-api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "plume-api",
	})
}
