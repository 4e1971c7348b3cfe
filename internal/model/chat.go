package model

import "time"

// Chat is the single conversation row for an unordered user pair.
// Column order carries no meaning: lookups must match both orderings.
// LastMsg/LastTime cache the newest message for conversation lists.
type Chat struct {
	ID       int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	User1ID  int64      `json:"user1_id" gorm:"index:idx_chat_user1;not null"`
	User2ID  int64      `json:"user2_id" gorm:"index:idx_chat_user2;not null"`
	LastMsg  string     `json:"last_msg" gorm:"type:varchar(255)"`
	LastTime *time.Time `json:"last_time"`

	User1 *User `json:"-" gorm:"foreignKey:User1ID"`
	User2 *User `json:"-" gorm:"foreignKey:User2ID"`
}

func (Chat) TableName() string { return "chats" }

// Message is an append-only entry in one chat.
type Message struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ChatID   int64     `json:"chat_id" gorm:"index:idx_message_chat;not null"`
	SenderID int64     `json:"sender_id" gorm:"not null"`
	Content  string    `json:"content" gorm:"type:text;not null"`
	SendTime time.Time `json:"send_time" gorm:"index:idx_message_time;autoCreateTime"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

func (Message) TableName() string { return "messages" }
