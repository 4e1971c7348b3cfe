package model

import "time"

// Follow is a directed edge: follower follows followed.
// idx_follow_pair = (follower_id, followed_id) forbids duplicate edges.
type Follow struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerID int64     `json:"follower_id" gorm:"index:idx_follow_follower;uniqueIndex:idx_follow_pair;not null"`
	FollowedID int64     `json:"followed_id" gorm:"index:idx_follow_followed;uniqueIndex:idx_follow_pair;not null"`
	CreatedAt  time.Time `json:"created_at"`

	Follower *User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Followed *User `json:"followed,omitempty" gorm:"foreignKey:FollowedID"`
}

func (Follow) TableName() string { return "follows" }
