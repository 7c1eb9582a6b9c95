package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	SwipeLike      = "like"
	SwipeDislike   = "dislike"
	SwipeSuperLike = "super_like"
)

// IsPositiveSwipe reports whether action counts as liking the target.
func IsPositiveSwipe(action string) bool {
	return action == SwipeLike || action == SwipeSuperLike
}

type Swipe struct {
	ID         string    `json:"swipe_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

type SwipeRequest struct {
	FromUserID string `json:"from_user_id" binding:"required"`
	ToUserID   string `json:"to_user_id" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=like dislike super_like"`
}

type SwipeRepo interface {
	CreateSwipe(ctx context.Context, swipe *Swipe) error
	GetSwipe(ctx context.Context, id string) (*Swipe, error)
	HasSwiped(ctx context.Context, fromID, toID string) (bool, error)
	DeleteSwipe(ctx context.Context, id string) error
	ListSwipes(ctx context.Context, userID string, actions []string) ([]*Swipe, error)
	MergeLike(ctx context.Context, fromID, toID string, at time.Time) error
	DeleteLike(ctx context.Context, fromID, toID string) error
	HasLike(ctx context.Context, fromID, toID string) (bool, error)
	ListReceivedLikes(ctx context.Context, userID string) ([]*User, error)
}

func swipeFromRecord(record *neo4j.Record) *Swipe {
	rel, _ := relFromRecord(record, "s")
	return &Swipe{
		ID:         propString(rel.Props, "swipe_id"),
		FromUserID: getStringFromRecord(record, "from_user_id"),
		ToUserID:   getStringFromRecord(record, "to_user_id"),
		Action:     propString(rel.Props, "action"),
		Timestamp:  propTime(rel.Props, "timestamp"),
	}
}

func (r *Neo4jRepo) CreateSwipe(ctx context.Context, swipe *Swipe) error {
	records, err := r.write(ctx, `
		MATCH (a:User {user_id: $from_user_id}), (b:User {user_id: $to_user_id})
		CREATE (a)-[s:SWIPED {swipe_id: $swipe_id, action: $action, timestamp: $timestamp}]->(b)
		RETURN s`, map[string]interface{}{
		"from_user_id": swipe.FromUserID,
		"to_user_id":   swipe.ToUserID,
		"swipe_id":     swipe.ID,
		"action":       swipe.Action,
		"timestamp":    swipe.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("error creating swipe: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *Neo4jRepo) GetSwipe(ctx context.Context, id string) (*Swipe, error) {
	records, err := r.read(ctx, `
		MATCH (a:User)-[s:SWIPED {swipe_id: $swipe_id}]->(b:User)
		RETURN s, a.user_id AS from_user_id, b.user_id AS to_user_id`, map[string]interface{}{"swipe_id": id})
	if err != nil {
		return nil, fmt.Errorf("error fetching swipe: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("swipe not found")
	}
	return swipeFromRecord(records[0]), nil
}

func (r *Neo4jRepo) HasSwiped(ctx context.Context, fromID, toID string) (bool, error) {
	return r.exists(ctx, `
		MATCH (:User {user_id: $from})-[s:SWIPED]->(:User {user_id: $to})
		RETURN count(s) AS n`, fromID, toID)
}

func (r *Neo4jRepo) DeleteSwipe(ctx context.Context, id string) error {
	records, err := r.write(ctx, `
		MATCH ()-[s:SWIPED {swipe_id: $swipe_id}]->()
		DELETE s
		RETURN count(*) AS n`, map[string]interface{}{"swipe_id": id})
	if err != nil {
		return fmt.Errorf("error deleting swipe: %w", err)
	}
	if len(records) == 0 || getInt64FromRecord(records[0], "n") == 0 {
		return apperr.NotFound("swipe not found")
	}
	return nil
}

func (r *Neo4jRepo) ListSwipes(ctx context.Context, userID string, actions []string) ([]*Swipe, error) {
	records, err := r.read(ctx, `
		MATCH (a:User {user_id: $user_id})-[s:SWIPED]->(b:User)
		WHERE size($actions) = 0 OR s.action IN $actions
		RETURN s, a.user_id AS from_user_id, b.user_id AS to_user_id
		ORDER BY s.timestamp DESC`, map[string]interface{}{
		"user_id": userID,
		"actions": nonNilStrings(actions),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing swipes: %w", err)
	}
	swipes := make([]*Swipe, 0, len(records))
	for _, record := range records {
		swipes = append(swipes, swipeFromRecord(record))
	}
	return swipes, nil
}

func (r *Neo4jRepo) MergeLike(ctx context.Context, fromID, toID string, at time.Time) error {
	_, err := r.write(ctx, `
		MATCH (a:User {user_id: $from}), (b:User {user_id: $to})
		MERGE (a)-[l:LIKES]->(b)
		ON CREATE SET l.created_at = $at`, map[string]interface{}{
		"from": fromID,
		"to":   toID,
		"at":   at,
	})
	if err != nil {
		return fmt.Errorf("error creating like: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) DeleteLike(ctx context.Context, fromID, toID string) error {
	_, err := r.write(ctx, `
		MATCH (:User {user_id: $from})-[l:LIKES]->(:User {user_id: $to})
		DELETE l`, map[string]interface{}{
		"from": fromID,
		"to":   toID,
	})
	if err != nil {
		return fmt.Errorf("error deleting like: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) HasLike(ctx context.Context, fromID, toID string) (bool, error) {
	return r.exists(ctx, `
		MATCH (:User {user_id: $from})-[l:LIKES]->(:User {user_id: $to})
		RETURN count(l) AS n`, fromID, toID)
}

// ListReceivedLikes returns users who like userID and are not yet matched
// with them.
func (r *Neo4jRepo) ListReceivedLikes(ctx context.Context, userID string) ([]*User, error) {
	records, err := r.read(ctx, `
		MATCH (u:User)-[:LIKES]->(me:User {user_id: $user_id})
		WHERE NOT (me)-[:MATCHES]-(u)
		RETURN u
		ORDER BY u.name`, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error listing received likes: %w", err)
	}
	return usersFromRecords(records, "u"), nil
}

// exists runs a pairwise count query bound to $from and $to.
func (r *Neo4jRepo) exists(ctx context.Context, query, fromID, toID string) (bool, error) {
	records, err := r.read(ctx, query, map[string]interface{}{
		"from": fromID,
		"to":   toID,
	})
	if err != nil {
		return false, err
	}
	return len(records) > 0 && getInt64FromRecord(records[0], "n") > 0, nil
}
