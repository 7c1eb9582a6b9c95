package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/ws"
)

const MaxMessagePage = 100

type MessageService struct {
	messages models.MessageRepo
	matches  models.MatchRepo
	users    models.UserRepo
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewMessageService(messages models.MessageRepo, matches models.MatchRepo, users models.UserRepo, notifier Notifier, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{
		messages: messages,
		matches:  matches,
		users:    users,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		now:      time.Now,
	}
}

// SendMessage persists the message and notifies the receiver. A match_id
// naming an existing match must belong to the sender and receiver; one
// naming no match is stored as given and the conversation is not updated.
func (ms *MessageService) SendMessage(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, apperr.Validation("content must be at most 2000 characters")
	}
	if req.SenderID == req.ReceiverID {
		return nil, apperr.Validation("cannot send a message to yourself")
	}
	if _, err := ms.users.GetUserByID(ctx, req.SenderID); err != nil {
		return nil, err
	}
	if _, err := ms.users.GetUserByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	var match *models.Match
	if req.MatchID != nil && *req.MatchID != "" {
		m, err := ms.matches.GetMatch(ctx, *req.MatchID)
		switch {
		case err == nil:
			if !m.Involves(req.SenderID, req.ReceiverID) {
				return nil, apperr.Validation("match does not belong to sender and receiver")
			}
			match = m
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		MatchID:    req.MatchID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
		SentAt:     ms.now().UTC(),
	}
	if msg.MatchID != nil && *msg.MatchID == "" {
		msg.MatchID = nil
	}
	if err := ms.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if match != nil {
		if err := ms.matches.TouchConversation(ctx, match.ID, msg.SentAt); err != nil {
			ms.logger.Warn("failed to update conversation", "match_id", match.ID, "error", err)
		}
	}

	ms.notifier.SendToUser(msg.ReceiverID, ws.Event{Type: "new_message", Data: msg})
	return msg, nil
}

func (ms *MessageService) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	return ms.messages.GetMessage(ctx, id)
}

// ListMatchMessages returns a page of the match's messages, newest first.
func (ms *MessageService) ListMatchMessages(ctx context.Context, matchID string, limit, offset int) ([]*models.Message, error) {
	if _, err := ms.matches.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return ms.messages.ListMatchMessages(ctx, matchID, limit, offset)
}

// ListBetween returns the latest messages exchanged by two users, oldest first.
func (ms *MessageService) ListBetween(ctx context.Context, a, b string, limit int) ([]*models.Message, error) {
	limit, _ = clampPage(limit, 0)
	return ms.messages.ListBetween(ctx, a, b, limit)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = models.DefaultMessageLimit
	}
	if limit > MaxMessagePage {
		limit = MaxMessagePage
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// MarkRead flags the message read and tells the sender.
func (ms *MessageService) MarkRead(ctx context.Context, id string) (*models.Message, error) {
	msg, err := ms.messages.MarkRead(ctx, id, ms.now().UTC())
	if err != nil {
		return nil, err
	}
	ms.notifier.SendToUser(msg.SenderID, ws.Event{Type: "message_read", Data: map[string]any{
		"message_id": msg.ID,
		"read_by":    msg.ReceiverID,
		"read_at":    msg.ReadAt,
	}})
	return msg, nil
}

func (ms *MessageService) MarkDelivered(ctx context.Context, id string) (*models.Message, error) {
	msg, err := ms.messages.MarkDelivered(ctx, id, ms.now().UTC())
	if err != nil {
		return nil, err
	}
	ms.notifier.SendToUser(msg.SenderID, ws.Event{Type: "message_delivered", Data: map[string]any{
		"message_id":   msg.ID,
		"delivered_to": msg.ReceiverID,
		"delivered_at": msg.DeliveredAt,
	}})
	return msg, nil
}

// ListConversations builds the user's inbox from their matches.
func (ms *MessageService) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	summaries, err := ms.matches.ListUserMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Conversation, 0, len(summaries))
	for _, s := range summaries {
		conv := &models.Conversation{
			ConversationID: s.ID,
			OtherUser:      s.OtherUser,
			MatchedAt:      s.MatchedAt,
		}
		if s.LastMessage != nil {
			content := s.LastMessage.Content
			sentAt := s.LastMessage.SentAt
			conv.LastMessage = &content
			conv.LastMessageTime = &sentAt
		}
		unread, err := ms.messages.UnreadCount(ctx, userID, s.OtherUser.ID)
		if err != nil {
			return nil, err
		}
		conv.UnreadCount = unread
		out = append(out, conv)
	}
	return out, nil
}

func (ms *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return ms.messages.UnreadCount(ctx, userID, "")
}
