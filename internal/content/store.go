package content

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/pkg/logging"
)

var (
	// ErrPostNotFound is returned when the referenced post does not exist
	ErrPostNotFound = errors.New("post not found")
	// ErrNotOwner is returned when a user mutates a post they do not own
	ErrNotOwner = errors.New("post is owned by another user")
	// ErrInvalidInput is returned for malformed post input
	ErrInvalidInput = errors.New("invalid post input")
)

// PostInput is the typed write payload for creating or updating a post.
// Images holds IDs of previously uploaded images; Tags holds free-text
// labels. On update, a non-empty Images or Tags fully replaces the set.
type PostInput struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"sub_title"`
	Content  string   `json:"content"`
	Images   []int64  `json:"images"`
	Tags     []string `json:"tags"`
}

// ListFilter narrows post listing. Zero values mean "no filter".
type ListFilter struct {
	AuthorID int64
	Title    string // substring, case-insensitive
	Tag      string // substring against tag text, case-insensitive
}

// Store persists posts together with their images and tags
type Store struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewStore creates a new content store
func NewStore(repo *db.Repository) *Store {
	return &Store{
		repo:   repo,
		logger: logging.WithComponent("content-store"),
	}
}

// Create authors a new post. The post row, image attachment and tags are
// written as one atomic unit.
func (s *Store) Create(ctx context.Context, authorID int64, input PostInput) (*models.Post, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	post := &models.Post{
		UserID:   authorID,
		Title:    input.Title,
		Subtitle: nullString(input.Subtitle),
		Content:  input.Content,
	}

	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if err := attachImages(tx, post.ID, input.Images); err != nil {
			return err
		}
		return insertTags(tx, post.ID, input.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", authorID))

	return s.Get(ctx, post.ID)
}

// Get retrieves a post with images and tags
func (s *Store) Get(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := db.NewPostRepository(s.repo).GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Update patches scalar fields and, when images or tags are supplied,
// replaces the whole set (delete-then-insert) in the same transaction.
// Only the owning user may update a post.
func (s *Store) Update(ctx context.Context, viewerID, postID int64, input PostInput) (*models.Post, error) {
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if post.UserID != viewerID {
			return ErrNotOwner
		}

		if input.Title != "" {
			post.Title = input.Title
		}
		if input.Subtitle != "" {
			post.Subtitle = nullString(input.Subtitle)
		}
		if input.Content != "" {
			post.Content = input.Content
		}
		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		if len(input.Images) > 0 {
			// Drop only rows outside the replacement set so a retained ID
			// stays claimable by attachImages.
			if err := tx.Where("post_id = ? AND id NOT IN ?", postID, input.Images).
				Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
			if err := attachImages(tx, postID, input.Images); err != nil {
				return err
			}
		}
		if len(input.Tags) > 0 {
			if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, postID, input.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, postID)
}

// Delete removes a post and its owned images, tags, likes and reviews
func (s *Store) Delete(ctx context.Context, viewerID, postID int64) error {
	return s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if post.UserID != viewerID {
			return ErrNotOwner
		}

		for _, owned := range []interface{}{
			&models.PostImage{}, &models.PostTag{}, &models.PostLike{}, &models.Review{},
		} {
			if err := tx.Where("post_id = ?", postID).Delete(owned).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&post).Error
	})
}

// List returns posts matching the filter in insertion order
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Post, error) {
	query := s.repo.DB().WithContext(ctx).
		Preload("Images").
		Preload("Tags").
		Order("posts.id ASC")

	if filter.AuthorID != 0 {
		query = query.Where("posts.user_id = ?", filter.AuthorID)
	}
	if filter.Title != "" {
		query = query.Where("posts.title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Tag != "" {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag ILIKE ?", "%"+filter.Tag+"%").
			Distinct()
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// RegisterImage records an uploaded image blob so posts can attach it
func (s *Store) RegisterImage(ctx context.Context, storedAs string) (*models.PostImage, error) {
	image := &models.PostImage{StoredAs: storedAs}
	if err := s.repo.DB().WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// attachImages claims uploaded images for a post. Only unattached uploads
// or rows already on this post are claimable; a shortfall in affected rows
// means an unknown ID or an image owned by another post.
func attachImages(tx *gorm.DB, postID int64, imageIDs []int64) error {
	if len(imageIDs) == 0 {
		return nil
	}
	res := tx.Model(&models.PostImage{}).
		Where("id IN ? AND (post_id IS NULL OR post_id = ?)", imageIDs, postID).
		Update("post_id", postID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(imageIDs)) {
		return ErrInvalidInput
	}
	return nil
}

func insertTags(tx *gorm.DB, postID int64, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := tx.Create(&models.PostTag{PostID: postID, Tag: tag}).Error; err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
