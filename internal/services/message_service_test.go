package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	svc      *MessageService
	store    *storetest.MemoryStore
	notifier *recordingNotifier
	match    *models.Match
	clock    time.Time
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	store := storetest.NewMemoryStore()
	seedUser(t, store, "u1", "Ama", 25, models.GenderFemale)
	seedUser(t, store, "u2", "Kofi", 27, models.GenderMale)
	seedUser(t, store, "u3", "Esi", 24, models.GenderFemale)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	match := &models.Match{ID: "m1", User1ID: "u1", User2ID: "u2", MatchedAt: base}
	created, err := store.CreateMatch(context.Background(), match)
	require.NoError(t, err)
	require.True(t, created)

	notifier := &recordingNotifier{}
	f := &messageFixture{
		svc:      NewMessageService(store, store, store, notifier, nil),
		store:    store,
		notifier: notifier,
		match:    match,
		clock:    base,
	}
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func (f *messageFixture) send(t *testing.T, from, to, content string, matchID *string) *models.Message {
	t.Helper()
	msg, err := f.svc.SendMessage(context.Background(), &models.SendMessageRequest{
		SenderID:   from,
		ReceiverID: to,
		Content:    content,
		MatchID:    matchID,
	})
	require.NoError(t, err)
	return msg
}

func TestSendMessageUpdatesConversationAndNotifies(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg := f.send(t, "u1", "u2", "  hi  ", ptr("m1"))
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.IsRead)

	match, err := f.store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, match.ConversationStarted)
	require.NotNil(t, match.LastMessageAt)
	assert.True(t, match.LastMessageAt.Equal(msg.SentAt))

	pushed := f.notifier.ofType("new_message")
	require.Len(t, pushed, 1)
	assert.Equal(t, "u2", pushed[0].UserID)

	page, err := f.svc.ListMatchMessages(ctx, "m1", 0, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, msg.ID, page[0].ID)
	assert.False(t, page[0].IsRead)
}

func TestSendMessagePersistsWithUnknownMatch(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg := f.send(t, "u1", "u3", "hello", ptr("no-such-match"))
	stored, err := f.svc.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MatchID)
	assert.Equal(t, "no-such-match", *stored.MatchID)

	match, err := f.store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, match.ConversationStarted)
}

func TestSendMessageRejections(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.SendMessageRequest
		kind error
	}{
		{"empty content", models.SendMessageRequest{SenderID: "u1", ReceiverID: "u2", Content: "   "}, apperr.ErrValidation},
		{"too long", models.SendMessageRequest{SenderID: "u1", ReceiverID: "u2", Content: strings.Repeat("a", 2001)}, apperr.ErrValidation},
		{"unknown receiver", models.SendMessageRequest{SenderID: "u1", ReceiverID: "ghost", Content: "hi"}, apperr.ErrNotFound},
		{"foreign match", models.SendMessageRequest{SenderID: "u1", ReceiverID: "u3", Content: "hi", MatchID: ptr("m1")}, apperr.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SendMessage(ctx, &tc.req)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	msg := f.send(t, "u1", "u2", "hi", ptr("m1"))

	first, err := f.svc.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	second, err := f.svc.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, second.ReadAt.Equal(*first.ReadAt))

	pushed := f.notifier.ofType("message_read")
	require.NotEmpty(t, pushed)
	assert.Equal(t, "u1", pushed[0].UserID)

	_, err = f.svc.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkDeliveredNotifiesSender(t *testing.T) {
	f := newMessageFixture(t)
	msg := f.send(t, "u1", "u2", "hi", ptr("m1"))

	delivered, err := f.svc.MarkDelivered(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)

	pushed := f.notifier.ofType("message_delivered")
	require.Len(t, pushed, 1)
	assert.Equal(t, "u1", pushed[0].UserID)
}

func TestListMatchMessagesPaging(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	for _, c := range []string{"one", "two", "three"} {
		f.send(t, "u1", "u2", c, ptr("m1"))
	}

	page, err := f.svc.ListMatchMessages(ctx, "m1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Content)
	assert.Equal(t, "two", page[1].Content)

	page, err = f.svc.ListMatchMessages(ctx, "m1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Content)

	_, err = f.svc.ListMatchMessages(ctx, "nope", 10, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	between, err := f.svc.ListBetween(ctx, "u2", "u1", 0)
	require.NoError(t, err)
	require.Len(t, between, 3)
	assert.Equal(t, "one", between[0].Content)
}

func TestListConversationsOrdersByActivity(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	later := f.clock.Add(time.Hour)
	_, err := f.store.CreateMatch(ctx, &models.Match{ID: "m2", User1ID: "u1", User2ID: "u3", MatchedAt: later})
	require.NoError(t, err)

	convs, err := f.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "m2", convs[0].ConversationID)

	// a reply from u2 moves m1 ahead of the newer but silent match
	f.clock = later.Add(time.Hour)
	f.send(t, "u2", "u1", "hey there", ptr("m1"))

	convs, err = f.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "m1", convs[0].ConversationID)
	assert.Equal(t, "Kofi", convs[0].OtherUser.Name)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "hey there", *convs[0].LastMessage)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, 0, convs[1].UnreadCount)

	total, err := f.svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListConversationsFallsBackToFirstPhoto(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.CreatePhoto(ctx, &models.Photo{ID: "p2", UserID: "u2", URL: "https://example.com/late.jpg", Order: 3}))
	require.NoError(t, f.store.CreatePhoto(ctx, &models.Photo{ID: "p1", UserID: "u2", URL: "https://example.com/first.jpg", Order: 1}))

	convs, err := f.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.NotNil(t, convs[0].OtherUser.PrimaryPhoto)
	assert.Equal(t, "https://example.com/first.jpg", *convs[0].OtherUser.PrimaryPhoto)

	require.NoError(t, f.store.CreatePhoto(ctx, &models.Photo{ID: "p3", UserID: "u2", URL: "https://example.com/main.jpg", Order: 5, IsPrimary: true}))
	convs, err = f.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/main.jpg", *convs[0].OtherUser.PrimaryPhoto)
}
