package model

import "time"

// Like records user engagement against a polymorphic target (type, target_id).
// No foreign key backs target_id; the service validates target existence.
// idx_like_unique = (user_id, type, target_id) forbids double likes.
type Like struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index:idx_like_user;uniqueIndex:idx_like_unique;not null"`
	Type      string    `json:"type" gorm:"type:varchar(32);uniqueIndex:idx_like_unique;index:idx_like_target;not null"`
	TargetID  int64     `json:"target_id" gorm:"uniqueIndex:idx_like_unique;index:idx_like_target;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }
