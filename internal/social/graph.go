package social

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/pkg/logging"
)

var (
	// ErrSelfFollow is returned when a user tries to follow or unfollow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrAlreadyFollowing is returned when the follow edge already exists
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrNotFollowing is returned when unfollowing without an existing edge
	ErrNotFollowing = errors.New("not following this user")
	// ErrUserNotFound is returned when the target user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// Graph is the directed follow relation between users
type Graph struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewGraph creates a new social graph store
func NewGraph(repo *db.Repository) *Graph {
	return &Graph{
		repo:   repo,
		logger: logging.WithComponent("social-graph"),
	}
}

// Follow creates the edge follower -> target. The existence check and the
// insert run in one transaction so concurrent requests cannot produce a
// duplicate edge.
func (g *Graph) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	userRepo := db.NewUserRepository(g.repo)
	target, err := userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	err = g.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND followee_id = ?", followerID, targetID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyFollowing
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.Follow{
			FollowerID: followerID,
			FolloweeID: targetID,
		}).Error
	})
	if err != nil {
		return err
	}

	g.logger.Debug("Follow edge created",
		zap.Int64("follower_id", followerID),
		zap.Int64("followee_id", targetID))
	return nil
}

// Unfollow removes the edge follower -> target
func (g *Graph) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	userRepo := db.NewUserRepository(g.repo)
	target, err := userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	err = g.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, targetID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFollowing
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Debug("Follow edge removed",
		zap.Int64("follower_id", followerID),
		zap.Int64("followee_id", targetID))
	return nil
}

// Followers returns the users following userID. An empty slice is a valid result.
func (g *Graph) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	err := g.repo.DB().WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Followings returns the outbound edge targets of userID
func (g *Graph) Followings(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	err := g.repo.DB().WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// IsFollowing reports whether the edge follower -> target exists
func (g *Graph) IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error) {
	var count int64
	err := g.repo.DB().WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowerCount returns the number of users following userID
func (g *Graph) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := g.repo.DB().WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
