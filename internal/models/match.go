package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Match is an undirected pairing; User1ID and User2ID carry no ordering
// meaning beyond how the relationship was stored.
type Match struct {
	ID                  string     `json:"match_id"`
	User1ID             string     `json:"user1_id"`
	User2ID             string     `json:"user2_id"`
	MatchedAt           time.Time  `json:"matched_at"`
	ConversationStarted bool       `json:"conversation_started"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
}

// Involves reports whether the match pairs exactly a and b, in any order.
func (m *Match) Involves(a, b string) bool {
	return (m.User1ID == a && m.User2ID == b) || (m.User1ID == b && m.User2ID == a)
}

// Other returns the counterpart of userID, or "" if userID is not in the match.
func (m *Match) Other(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return ""
}

// LastActivity is the time used to order conversations.
func (m *Match) LastActivity() time.Time {
	if m.LastMessageAt != nil {
		return *m.LastMessageAt
	}
	return m.MatchedAt
}

// MatchSummary is a match seen from one participant.
type MatchSummary struct {
	Match
	OtherUser   UserSummary `json:"other_user"`
	LastMessage *Message    `json:"last_message,omitempty"`
}

type MatchRepo interface {
	CreateMatch(ctx context.Context, match *Match) (bool, error)
	GetMatch(ctx context.Context, id string) (*Match, error)
	FindMatchBetween(ctx context.Context, a, b string) (*Match, error)
	ListUserMatches(ctx context.Context, userID string) ([]*MatchSummary, error)
	TouchConversation(ctx context.Context, matchID string, at time.Time) error
	DeleteMatch(ctx context.Context, id string) error
	DeleteMatchesBetween(ctx context.Context, a, b string) error
}

func matchFromRecord(record *neo4j.Record) *Match {
	rel, _ := relFromRecord(record, "m")
	return &Match{
		ID:                  propString(rel.Props, "match_id"),
		User1ID:             getStringFromRecord(record, "user1_id"),
		User2ID:             getStringFromRecord(record, "user2_id"),
		MatchedAt:           propTime(rel.Props, "matched_at"),
		ConversationStarted: propBool(rel.Props, "conversation_started"),
		LastMessageAt:       propTimePtr(rel.Props, "last_message_at"),
	}
}

// CreateMatch stores the match unless the pair is already matched. It
// reports whether a new relationship was created.
func (r *Neo4jRepo) CreateMatch(ctx context.Context, match *Match) (bool, error) {
	records, err := r.write(ctx, `
		MATCH (a:User {user_id: $user1_id}), (b:User {user_id: $user2_id})
		WHERE NOT (a)-[:MATCHES]-(b)
		CREATE (a)-[m:MATCHES {match_id: $match_id, matched_at: $matched_at, conversation_started: false}]->(b)
		RETURN m`, map[string]interface{}{
		"user1_id":   match.User1ID,
		"user2_id":   match.User2ID,
		"match_id":   match.ID,
		"matched_at": match.MatchedAt,
	})
	if err != nil {
		return false, fmt.Errorf("error creating match: %w", err)
	}
	return len(records) > 0, nil
}

func (r *Neo4jRepo) GetMatch(ctx context.Context, id string) (*Match, error) {
	records, err := r.read(ctx, `
		MATCH (a:User)-[m:MATCHES {match_id: $match_id}]->(b:User)
		RETURN m, a.user_id AS user1_id, b.user_id AS user2_id`, map[string]interface{}{"match_id": id})
	if err != nil {
		return nil, fmt.Errorf("error fetching match: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("match not found")
	}
	return matchFromRecord(records[0]), nil
}

func (r *Neo4jRepo) FindMatchBetween(ctx context.Context, a, b string) (*Match, error) {
	records, err := r.read(ctx, `
		MATCH (:User {user_id: $a})-[m:MATCHES]-(:User {user_id: $b})
		RETURN m, startNode(m).user_id AS user1_id, endNode(m).user_id AS user2_id
		LIMIT 1`, map[string]interface{}{"a": a, "b": b})
	if err != nil {
		return nil, fmt.Errorf("error fetching match: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("match not found")
	}
	return matchFromRecord(records[0]), nil
}

// ListUserMatches returns the user's matches with the counterpart, their
// display photo and the latest message exchanged, most recent activity first.
func (r *Neo4jRepo) ListUserMatches(ctx context.Context, userID string) ([]*MatchSummary, error) {
	query := `
		MATCH (me:User {user_id: $user_id})-[m:MATCHES]-(other:User)
		OPTIONAL MATCH (msg:Message)
		WHERE (msg.sender_id = me.user_id AND msg.receiver_id = other.user_id)
		   OR (msg.sender_id = other.user_id AND msg.receiver_id = me.user_id)
		WITH m, other, msg
		ORDER BY msg.sent_at DESC
		WITH m, other, collect(msg)[0] AS last
		OPTIONAL MATCH (p:Photo {user_id: other.user_id})
		WITH m, other, last, p
		ORDER BY p.is_primary DESC, p.order ASC, p.uploaded_at ASC
		WITH m, other, last, collect(p.url)[0] AS primary_photo
		RETURN m, startNode(m).user_id AS user1_id, endNode(m).user_id AS user2_id,
		       other, primary_photo, last
		ORDER BY coalesce(last.sent_at, m.matched_at) DESC`
	records, err := r.read(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error listing matches: %w", err)
	}

	out := make([]*MatchSummary, 0, len(records))
	for _, record := range records {
		summary := &MatchSummary{Match: *matchFromRecord(record)}
		if n, ok := nodeFromRecord(record, "other"); ok {
			summary.OtherUser = userFromNode(n).Summary()
		}
		summary.OtherUser.PrimaryPhoto = getStringPtrFromRecord(record, "primary_photo")
		if n, ok := nodeFromRecord(record, "last"); ok {
			summary.LastMessage = messageFromNode(n)
		}
		out = append(out, summary)
	}
	return out, nil
}

func (r *Neo4jRepo) TouchConversation(ctx context.Context, matchID string, at time.Time) error {
	records, err := r.write(ctx, `
		MATCH ()-[m:MATCHES {match_id: $match_id}]->()
		SET m.conversation_started = true, m.last_message_at = $at
		RETURN m.match_id AS match_id`, map[string]interface{}{
		"match_id": matchID,
		"at":       at,
	})
	if err != nil {
		return fmt.Errorf("error updating conversation: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("match not found")
	}
	return nil
}

func (r *Neo4jRepo) DeleteMatch(ctx context.Context, id string) error {
	records, err := r.write(ctx, `
		MATCH ()-[m:MATCHES {match_id: $match_id}]->()
		DELETE m
		RETURN count(*) AS n`, map[string]interface{}{"match_id": id})
	if err != nil {
		return fmt.Errorf("error deleting match: %w", err)
	}
	if len(records) == 0 || getInt64FromRecord(records[0], "n") == 0 {
		return apperr.NotFound("match not found")
	}
	return nil
}

func (r *Neo4jRepo) DeleteMatchesBetween(ctx context.Context, a, b string) error {
	_, err := r.write(ctx, `
		MATCH (:User {user_id: $a})-[m:MATCHES]-(:User {user_id: $b})
		DELETE m`, map[string]interface{}{"a": a, "b": b})
	if err != nil {
		return fmt.Errorf("error deleting matches: %w", err)
	}
	return nil
}
