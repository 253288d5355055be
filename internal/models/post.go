package models

import "time"

// Post is a piece of free text published by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Category  string    `gorm:"size:50;not null"`
	CreatedAt time.Time `gorm:"not null;<-:create"`
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Like marks a post as liked by a user. A user likes a post at most once.
type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
