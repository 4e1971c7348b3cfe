package model

import "time"

// User account row. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username   string    `json:"username" gorm:"type:varchar(64);uniqueIndex:ux_user_username;not null"`
	Password   string    `json:"-" gorm:"type:varchar(128);not null"`
	Email      *string   `json:"email,omitempty" gorm:"type:varchar(128);uniqueIndex:ux_user_email"`
	Avatar     string    `json:"avatar" gorm:"type:varchar(255)"`
	Background string    `json:"background" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserProfile is the public projection embedded in social payloads.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Profile strips the account down to its public fields.
func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
