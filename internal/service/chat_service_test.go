package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

func newChatService(t *testing.T) (ChatService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewChatService(db, repository.NewChatRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func TestGetOrCreateChatPairOrder(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	c1, err := svc.GetOrCreateChat(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Reversed order resolves to the same chat.
	c2, err := svc.GetOrCreateChat(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	var n int64
	require.NoError(t, db.Model(&model.Chat{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSendMessageUpdatesChatPreview(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	msg, err := svc.SendMessage(ctx, alice.ID, bob.ID, "hey bob")
	require.NoError(t, err)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "alice", msg.Sender.Username)

	var chat model.Chat
	require.NoError(t, db.First(&chat, msg.ChatID).Error)
	assert.Equal(t, "hey bob", chat.LastMsg)
	require.NotNil(t, chat.LastTime)
}

func TestSendMessageTruncatesPreview(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	long := strings.Repeat("a", 80)
	msg, err := svc.SendMessage(ctx, alice.ID, bob.ID, long)
	require.NoError(t, err)
	// The message itself stays intact.
	assert.Equal(t, long, msg.Content)

	var chat model.Chat
	require.NoError(t, db.First(&chat, msg.ChatID).Error)
	assert.Equal(t, strings.Repeat("a", lastMsgLimit)+"...", chat.LastMsg)
}

func TestSendMessageValidation(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.SendMessage(ctx, alice.ID, bob.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))

	_, err = svc.SendMessage(ctx, alice.ID, alice.ID, "hi me")
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))

	_, err = svc.SendMessage(ctx, alice.ID, 9999, "hi ghost")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestGetMessagesChronologicalPage(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	for i := 1; i <= 5; i++ {
		_, err := svc.SendMessage(ctx, alice.ID, bob.ID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	page, err := svc.GetMessages(ctx, bob.ID, alice.ID, 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.List, 3)
	// Newest page, oldest first within it.
	assert.Equal(t, "msg 3", page.List[0].Content)
	assert.Equal(t, "msg 5", page.List[2].Content)
}

func TestListChatsShowsOtherUser(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.SendMessage(ctx, alice.ID, bob.ID, "to bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, carol.ID, alice.ID, "from carol")
	require.NoError(t, err)

	entries, total, err := svc.ListChats(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.OtherUser.Username] = true
		assert.NotEqual(t, alice.ID, e.OtherUser.ID)
	}
	assert.True(t, names["bob"])
	assert.True(t, names["carol"])
	// Most recent conversation first.
	assert.Equal(t, "from carol", entries[0].LastMsg)
}
