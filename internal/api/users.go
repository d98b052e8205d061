package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/internal/auth"
	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/internal/social"
	"github.com/plumeblog/plume/pkg/config"
	"github.com/plumeblog/plume/pkg/logging"
	"github.com/plumeblog/plume/pkg/telemetry"
)

// UserAPI provides registration, authentication, profile and follow handlers
type UserAPI struct {
	repo    *db.Repository
	graph   *social.Graph
	tokens  *auth.TokenManager
	authCfg *config.AuthConfig
	logger  *zap.Logger
}

// NewUserAPI creates a new user API
func NewUserAPI(repo *db.Repository, graph *social.Graph, tokens *auth.TokenManager, authCfg *config.AuthConfig) *UserAPI {
	return &UserAPI{
		repo:    repo,
		graph:   graph,
		tokens:  tokens,
		authCfg: authCfg,
		logger:  logging.WithComponent("user-api"),
	}
}

var errEmailTaken = errors.New("email already registered")

type registerInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register handles POST /users/register. The email check and the
// user/profile inserts run in one transaction; a racing duplicate hits the
// unique index and maps to the same 400.
func (u *UserAPI) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "users.register")
	defer span.End()

	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Username:     strings.ToLower(input.FirstName + "_" + input.LastName),
		PasswordHash: hash,
	}
	err = u.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			return errEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		// Profile row exists from registration so profile-setup is a pure update
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})
	if errors.Is(err, errEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	u.logger.Info("User registered", zap.Int64("user_id", user.ID))

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"username":   user.Username,
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /users/login: verifies credentials and issues the
// access/refresh pair as secure HTTP-only cookies.
func (u *UserAPI) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "users.login")
	defer span.End()

	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := db.NewUserRepository(u.repo).GetByEmail(ctx, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	access, refresh, err := u.tokens.IssuePair(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	u.setTokenCookies(c, access, refresh)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Refresh handles POST /users/refresh: rotates the token pair from a valid
// refresh token cookie.
func (u *UserAPI) Refresh(c *gin.Context) {
	raw, err := c.Cookie(auth.RefreshCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token required"})
		return
	}

	userID, err := u.tokens.Verify(raw, auth.TokenTypeRefresh)
	if err != nil {
		respondError(c, err)
		return
	}

	access, refresh, err := u.tokens.IssuePair(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	u.setTokenCookies(c, access, refresh)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (u *UserAPI) setTokenCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(auth.AccessCookie, access,
		int(u.authCfg.AccessTTL.Seconds()), "/", "", u.authCfg.SecureCookies, true)
	c.SetCookie(auth.RefreshCookie, refresh,
		int(u.authCfg.RefreshTTL.Seconds()), "/", "", u.authCfg.SecureCookies, true)
}

// Me handles GET /users/me
func (u *UserAPI) Me(c *gin.Context) {
	viewerID, _ := auth.Viewer(c)
	view, err := u.userView(c, viewerID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetUser handles GET /users/user/:id
func (u *UserAPI) GetUser(c *gin.Context) {
	viewerID, _ := auth.Viewer(c)
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	view, err := u.userView(c, viewerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (u *UserAPI) userView(c *gin.Context, viewerID, targetID int64) (*userView, error) {
	ctx := c.Request.Context()

	user, err := db.NewUserRepository(u.repo).GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, social.ErrUserNotFound
	}

	profile, err := db.NewProfileRepository(u.repo).GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	blogCount, err := db.NewUserRepository(u.repo).PostCount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	followerCount, err := u.graph.FollowerCount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	view := &userView{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Username:       user.Username,
		Profile:        newProfileView(profile),
		BlogCount:      blogCount,
		FollowersCount: followerCount,
	}

	if viewerID != targetID {
		followed, err := u.graph.IsFollowing(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		view.Followed = &followed
	}
	return view, nil
}

type updateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
}

// UpdateUser handles PATCH /users/user/:id. Users may only update themselves.
func (u *UserAPI) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, _ := auth.Viewer(c)

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if targetID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user"})
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userRepo := db.NewUserRepository(u.repo)
	user, err := userRepo.GetByID(ctx, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, social.ErrUserNotFound)
		return
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := userRepo.Update(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	view, err := u.userView(c, viewerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type profileSetupInput struct {
	Bio            *string `json:"bio"`
	PhoneNumber    *string `json:"phone_number"`
	Interests      *string `json:"interests"`
	ProfilePicture *string `json:"profile_picture"`
}

// ProfileSetup handles PATCH /users/user/profile-setup/:user_id
func (u *UserAPI) ProfileSetup(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID, _ := auth.Viewer(c)

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	if targetID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user's profile"})
		return
	}

	var input profileSetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileRepo := db.NewProfileRepository(u.repo)
	profile, err := profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		respondError(c, social.ErrUserNotFound)
		return
	}

	if input.Bio != nil {
		profile.Bio.String = *input.Bio
		profile.Bio.Valid = *input.Bio != ""
	}
	if input.PhoneNumber != nil {
		profile.PhoneNumber.String = *input.PhoneNumber
		profile.PhoneNumber.Valid = *input.PhoneNumber != ""
	}
	if input.Interests != nil {
		profile.Interests = *input.Interests
	}
	if input.ProfilePicture != nil {
		profile.ProfilePicture = *input.ProfilePicture
	}

	if err := profileRepo.Update(ctx, profile); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileView(profile))
}

type followInput struct {
	TargetUserID int64 `json:"target_user_id"`
}

// Follow handles POST /users/follow
func (u *UserAPI) Follow(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "users.follow")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	var input followInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TargetUserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_user_id is required"})
		return
	}

	if err := u.graph.Follow(ctx, viewerID, input.TargetUserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

// Unfollow handles POST /users/unfollow
func (u *UserAPI) Unfollow(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "users.unfollow")
	defer span.End()

	viewerID, _ := auth.Viewer(c)

	var input followInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TargetUserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_user_id is required"})
		return
	}

	if err := u.graph.Unfollow(ctx, viewerID, input.TargetUserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// Followers handles GET /users/followers
func (u *UserAPI) Followers(c *gin.Context) {
	viewerID, _ := auth.Viewer(c)

	users, err := u.graph.Followers(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userSummaries(users))
}

// Followings handles GET /users/followings
func (u *UserAPI) Followings(c *gin.Context) {
	viewerID, _ := auth.Viewer(c)

	users, err := u.graph.Followings(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userSummaries(users))
}

func userSummaries(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, user := range users {
		out = append(out, gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		})
	}
	return out
}
