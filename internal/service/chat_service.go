package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

// lastMsgLimit caps the cached conversation preview.
const lastMsgLimit = 50

// ChatEntry is one conversation as seen by one of its two members.
type ChatEntry struct {
	ID        int64             `json:"id"`
	OtherUser model.UserProfile `json:"other_user"`
	LastMsg   string            `json:"last_msg"`
	LastTime  *time.Time        `json:"last_time"`
}

// MessagePage is a chronological slice of one conversation.
type MessagePage struct {
	ChatID int64            `json:"chat_id"`
	List   []*model.Message `json:"list"`
	Total  int64            `json:"total"`
}

// ChatService manages two-party conversations. A chat is created implicitly
// on first contact; the pair is matched in either column order.
type ChatService interface {
	GetOrCreateChat(ctx context.Context, userA, userB int64) (*model.Chat, error)
	ListChats(ctx context.Context, userID int64, page, pageSize int) ([]ChatEntry, int64, error)
	GetMessages(ctx context.Context, userID1, userID2 int64, page, pageSize int) (*MessagePage, error)
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error)
}

type chatService struct {
	db       *gorm.DB
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

func NewChatService(db *gorm.DB, chatRepo repository.ChatRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{db: db, chatRepo: chatRepo, userRepo: userRepo}
}

func (s *chatService) GetOrCreateChat(ctx context.Context, userA, userB int64) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByPair(ctx, userA, userB)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.chatRepo.Create(ctx, userA, userB)
}

func (s *chatService) ListChats(ctx context.Context, userID int64, page, pageSize int) ([]ChatEntry, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	chats, total, err := s.chatRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]ChatEntry, 0, len(chats))
	for _, chat := range chats {
		entry := ChatEntry{ID: chat.ID, LastMsg: chat.LastMsg, LastTime: chat.LastTime}
		other := chat.User2
		if chat.User2ID == userID {
			other = chat.User1
		}
		if other != nil {
			entry.OtherUser = other.Profile()
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func (s *chatService) GetMessages(ctx context.Context, userID1, userID2 int64, page, pageSize int) (*MessagePage, error) {
	chat, err := s.GetOrCreateChat(ctx, userID1, userID2)
	if err != nil {
		return nil, err
	}
	_, pageSize, offset := normalizePage(page, pageSize)
	msgs, total, err := s.chatRepo.ListMessages(ctx, chat.ID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	// Paged newest-first, delivered oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return &MessagePage{ChatID: chat.ID, List: msgs, Total: total}, nil
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.Errorf(errs.EINVALID, "message content must not be empty")
	}
	if senderID == receiverID {
		return nil, errs.Errorf(errs.EINVALID, "cannot message yourself")
	}
	exists, err := s.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.Errorf(errs.ENOTFOUND, "receiver not found")
	}
	chat, err := s.GetOrCreateChat(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{ChatID: chat.ID, SenderID: senderID, Content: content}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&model.Chat{}).Where("id = ?", chat.ID).
			Updates(map[string]interface{}{
				"last_msg":  previewOf(content),
				"last_time": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	var created model.Message
	if err := s.db.WithContext(ctx).Preload("Sender").First(&created, msg.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= lastMsgLimit {
		return content
	}
	return string(runes[:lastMsgLimit]) + "..."
}
