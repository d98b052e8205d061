package models

import (
	"database/sql"
	"time"
)

// Review is a one-per-reviewer review of a post, immutable after creation
type Review struct {
	ID         int64          `gorm:"primaryKey;autoIncrement;column:id"`
	PostID     int64          `gorm:"not null;uniqueIndex:reviews_post_reviewer_ux;column:post_id"`
	ReviewerID int64          `gorm:"not null;uniqueIndex:reviews_post_reviewer_ux;column:reviewer_id"`
	Rating     sql.NullInt64  `gorm:"column:rating"`
	Body       sql.NullString `gorm:"type:text;column:body"`
	CreatedAt  time.Time      `gorm:"not null;column:created_at"`

	// Relationships
	Reviewer *User `gorm:"foreignKey:ReviewerID;references:ID"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}
