package model

import "time"

// Comment targets a song, note or playlist. ParentID links a reply to its
// parent; replies must share the parent's (type, target_id).
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index:idx_comment_user;not null"`
	Type      string    `json:"type" gorm:"type:varchar(32);index:idx_comment_target;not null"`
	TargetID  int64     `json:"target_id" gorm:"index:idx_comment_target;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index:idx_comment_parent"`
	CreatedAt time.Time `json:"created_at"`

	User    *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (Comment) TableName() string { return "comments" }
