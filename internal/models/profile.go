package models

import (
	"database/sql"
	"time"
)

// Profile holds per-user profile fields, one-to-one with User
type Profile struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64          `gorm:"not null;uniqueIndex:profiles_user_ux;column:user_id"`
	Bio            sql.NullString `gorm:"type:text;column:bio"`
	PhoneNumber    sql.NullString `gorm:"type:varchar(20);column:phone_number"`
	Interests      string         `gorm:"type:varchar(255);not null;default:'';column:interests"`
	ProfilePicture string         `gorm:"type:varchar(1024);not null;default:'';column:profile_picture"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// Follow represents a directed follow edge (follower -> followee)
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;column:follower_id"`
	FolloweeID int64     `gorm:"primaryKey;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
