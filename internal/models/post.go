package models

import (
	"database/sql"
	"time"
)

// Post represents an authored blog post
type Post struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64          `gorm:"not null;index:posts_user_ix;column:user_id"`
	Title     string         `gorm:"type:varchar(255);not null;column:title"`
	Subtitle  sql.NullString `gorm:"type:text;column:subtitle"`
	Content   string         `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt time.Time      `gorm:"not null;column:updated_at"`

	// Relationships
	Author  *User       `gorm:"foreignKey:UserID;references:ID"`
	Images  []PostImage `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Tags    []PostTag   `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Reviews []Review    `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostImage references stored binary image content owned by a post.
// PostID is nullable: an image is uploaded first and attached on post create.
type PostImage struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    sql.NullInt64 `gorm:"index:post_images_post_ix;column:post_id"`
	StoredAs  string        `gorm:"type:varchar(1024);not null;column:stored_as"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt time.Time     `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for PostImage
func (PostImage) TableName() string {
	return "post_images"
}

// PostTag is a free-text label on a post. Tag text is matched exactly,
// no normalization.
type PostTag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64     `gorm:"not null;index:post_tags_post_ix;column:post_id"`
	Tag       string    `gorm:"type:varchar(100);not null;index:post_tags_tag_ix;column:tag"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "post_tags"
}

// PostLike is the like edge between a user and a post, unique per pair
type PostLike struct {
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}
