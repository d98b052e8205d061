package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FirstName    string    `gorm:"type:varchar(125);not null;column:first_name"`
	LastName     string    `gorm:"type:varchar(125);not null;column:last_name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_ux;column:email"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex:users_username_ux;column:username"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Profile *Profile `gorm:"foreignKey:UserID;references:ID"`
	Posts   []Post   `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
