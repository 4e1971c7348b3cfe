package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/model"
)

type ChatRepository interface {
	// FindByPair matches the pair in either column order.
	FindByPair(ctx context.Context, userA, userB int64) (*model.Chat, error)
	Create(ctx context.Context, userA, userB int64) (*model.Chat, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Chat, int64, error)
	ListMessages(ctx context.Context, chatID int64, offset, limit int) ([]*model.Message, int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepository{db: db} }

func (r *chatRepository) FindByPair(ctx context.Context, userA, userB int64) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) Create(ctx context.Context, userA, userB int64) (*model.Chat, error) {
	chat := &model.Chat{User1ID: userA, User2ID: userB}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*model.Chat, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Chat
	err := q.Preload("User1").Preload("User2").
		Order("last_time DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID int64, offset, limit int) ([]*model.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Message{}).Where("chat_id = ?", chatID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Message
	err := q.Preload("Sender").
		Order("send_time DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}
