package models

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLength    = 2000
)

type Message struct {
	ID          string     `json:"message_id"`
	MatchID     *string    `json:"match_id,omitempty"`
	SenderID    string     `json:"sender_id"`
	ReceiverID  string     `json:"receiver_id"`
	Content     string     `json:"content"`
	SentAt      time.Time  `json:"sent_at"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	IsDelivered bool       `json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type SendMessageRequest struct {
	SenderID   string  `json:"sender_id" binding:"required"`
	ReceiverID string  `json:"receiver_id" binding:"required"`
	Content    string  `json:"content" binding:"required"`
	MatchID    *string `json:"match_id"`
}

// Conversation is one entry of a user's inbox.
type Conversation struct {
	ConversationID  string      `json:"conversation_id"`
	OtherUser       UserSummary `json:"other_user"`
	LastMessage     *string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time  `json:"last_message_time,omitempty"`
	MatchedAt       time.Time   `json:"matched_at"`
	UnreadCount     int         `json:"unread_count"`
}

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) error
	GetMessage(ctx context.Context, id string) (*Message, error)
	ListMatchMessages(ctx context.Context, matchID string, limit, offset int) ([]*Message, error)
	ListBetween(ctx context.Context, a, b string, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*Message, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) (*Message, error)
	UnreadCount(ctx context.Context, userID, fromID string) (int, error)
}

func messageFromNode(n neo4j.Node) *Message {
	p := n.Props
	return &Message{
		ID:          propString(p, "message_id"),
		MatchID:     propStringPtr(p, "match_id"),
		SenderID:    propString(p, "sender_id"),
		ReceiverID:  propString(p, "receiver_id"),
		Content:     propString(p, "content"),
		SentAt:      propTime(p, "sent_at"),
		IsRead:      propBool(p, "is_read"),
		ReadAt:      propTimePtr(p, "read_at"),
		IsDelivered: propBool(p, "is_delivered"),
		DeliveredAt: propTimePtr(p, "delivered_at"),
	}
}

func messagesFromRecords(records []*neo4j.Record) []*Message {
	out := make([]*Message, 0, len(records))
	for _, record := range records {
		if n, ok := nodeFromRecord(record, "m"); ok {
			out = append(out, messageFromNode(n))
		}
	}
	return out
}

func (r *Neo4jRepo) CreateMessage(ctx context.Context, msg *Message) error {
	_, err := r.write(ctx, `CREATE (m:Message) SET m = $props`, map[string]interface{}{
		"props": map[string]interface{}{
			"message_id":   msg.ID,
			"match_id":     optional(msg.MatchID),
			"sender_id":    msg.SenderID,
			"receiver_id":  msg.ReceiverID,
			"content":      msg.Content,
			"sent_at":      msg.SentAt,
			"is_read":      msg.IsRead,
			"is_delivered": msg.IsDelivered,
		},
	})
	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) GetMessage(ctx context.Context, id string) (*Message, error) {
	records, err := r.read(ctx, `MATCH (m:Message {message_id: $message_id}) RETURN m`, map[string]interface{}{"message_id": id})
	if err != nil {
		return nil, fmt.Errorf("error fetching message: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("message not found")
	}
	n, _ := nodeFromRecord(records[0], "m")
	return messageFromNode(n), nil
}

// ListMatchMessages returns a page of the match's messages, newest first.
func (r *Neo4jRepo) ListMatchMessages(ctx context.Context, matchID string, limit, offset int) ([]*Message, error) {
	records, err := r.read(ctx, `
		MATCH (m:Message {match_id: $match_id})
		RETURN m
		ORDER BY m.sent_at DESC
		SKIP $offset
		LIMIT $limit`, map[string]interface{}{
		"match_id": matchID,
		"limit":    limit,
		"offset":   offset,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return messagesFromRecords(records), nil
}

// ListBetween returns the latest messages exchanged by a and b in
// chronological order.
func (r *Neo4jRepo) ListBetween(ctx context.Context, a, b string, limit int) ([]*Message, error) {
	records, err := r.read(ctx, `
		MATCH (m:Message)
		WHERE (m.sender_id = $a AND m.receiver_id = $b)
		   OR (m.sender_id = $b AND m.receiver_id = $a)
		RETURN m
		ORDER BY m.sent_at DESC
		LIMIT $limit`, map[string]interface{}{
		"a":     a,
		"b":     b,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	msgs := messagesFromRecords(records)
	slices.Reverse(msgs)
	return msgs, nil
}

// MarkRead flags the message read. read_at keeps its first value on repeat calls.
func (r *Neo4jRepo) MarkRead(ctx context.Context, id string, at time.Time) (*Message, error) {
	return r.markMessage(ctx, `
		MATCH (m:Message {message_id: $message_id})
		SET m.read_at = coalesce(m.read_at, $at), m.is_read = true
		RETURN m`, id, at)
}

func (r *Neo4jRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (*Message, error) {
	return r.markMessage(ctx, `
		MATCH (m:Message {message_id: $message_id})
		SET m.delivered_at = coalesce(m.delivered_at, $at), m.is_delivered = true
		RETURN m`, id, at)
}

func (r *Neo4jRepo) markMessage(ctx context.Context, query, id string, at time.Time) (*Message, error) {
	records, err := r.write(ctx, query, map[string]interface{}{
		"message_id": id,
		"at":         at,
	})
	if err != nil {
		return nil, fmt.Errorf("error updating message: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("message not found")
	}
	n, _ := nodeFromRecord(records[0], "m")
	return messageFromNode(n), nil
}

// UnreadCount counts unread messages received by userID, optionally only
// those sent by fromID.
func (r *Neo4jRepo) UnreadCount(ctx context.Context, userID, fromID string) (int, error) {
	records, err := r.read(ctx, `
		MATCH (m:Message {receiver_id: $user_id, is_read: false})
		WHERE $from_id = '' OR m.sender_id = $from_id
		RETURN count(m) AS n`, map[string]interface{}{
		"user_id": userID,
		"from_id": fromID,
	})
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	return int(getInt64FromRecord(records[0], "n")), nil
}
