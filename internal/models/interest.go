package models

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Interest struct {
	ID       string `json:"interest_id"`
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Category string `json:"category" validate:"required,min=1,max=50"`
}

type InterestRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type UserInterestRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	InterestID string `json:"interest_id" binding:"required"`
}

type InterestRepo interface {
	CreateInterest(ctx context.Context, interest *Interest) error
	GetInterest(ctx context.Context, id string) (*Interest, error)
	FindInterestByName(ctx context.Context, name string) (*Interest, error)
	ListInterests(ctx context.Context, category string) ([]*Interest, error)
	AddUserInterest(ctx context.Context, userID, interestID string) error
	RemoveUserInterest(ctx context.Context, userID, interestID string) error
	SetUserInterests(ctx context.Context, userID string, interestIDs []string) error
	ListUserInterests(ctx context.Context, userID string) ([]*Interest, error)
	CommonInterests(ctx context.Context, a, b string) ([]*Interest, error)
}

func interestFromNode(n neo4j.Node) *Interest {
	return &Interest{
		ID:       propString(n.Props, "interest_id"),
		Name:     propString(n.Props, "name"),
		Category: propString(n.Props, "category"),
	}
}

func interestsFromRecords(records []*neo4j.Record) []*Interest {
	out := make([]*Interest, 0, len(records))
	for _, record := range records {
		if n, ok := nodeFromRecord(record, "i"); ok {
			out = append(out, interestFromNode(n))
		}
	}
	return out
}

func (r *Neo4jRepo) CreateInterest(ctx context.Context, interest *Interest) error {
	_, err := r.write(ctx, `
		CREATE (i:Interest {interest_id: $interest_id, name: $name, category: $category})`, map[string]interface{}{
		"interest_id": interest.ID,
		"name":        interest.Name,
		"category":    interest.Category,
	})
	if err != nil {
		return fmt.Errorf("error creating interest: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) getInterest(ctx context.Context, query string, params map[string]interface{}) (*Interest, error) {
	records, err := r.read(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error fetching interest: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("interest not found")
	}
	n, _ := nodeFromRecord(records[0], "i")
	return interestFromNode(n), nil
}

func (r *Neo4jRepo) GetInterest(ctx context.Context, id string) (*Interest, error) {
	return r.getInterest(ctx, `MATCH (i:Interest {interest_id: $interest_id}) RETURN i`, map[string]interface{}{"interest_id": id})
}

func (r *Neo4jRepo) FindInterestByName(ctx context.Context, name string) (*Interest, error) {
	return r.getInterest(ctx, `MATCH (i:Interest) WHERE toLower(i.name) = toLower($name) RETURN i LIMIT 1`, map[string]interface{}{"name": name})
}

func (r *Neo4jRepo) ListInterests(ctx context.Context, category string) ([]*Interest, error) {
	records, err := r.read(ctx, `
		MATCH (i:Interest)
		WHERE $category = '' OR i.category = $category
		RETURN i
		ORDER BY i.name`, map[string]interface{}{"category": category})
	if err != nil {
		return nil, fmt.Errorf("error listing interests: %w", err)
	}
	return interestsFromRecords(records), nil
}

func (r *Neo4jRepo) AddUserInterest(ctx context.Context, userID, interestID string) error {
	records, err := r.write(ctx, `
		MATCH (u:User {user_id: $user_id}), (i:Interest {interest_id: $interest_id})
		MERGE (u)-[:HAS_INTEREST]->(i)
		RETURN i`, map[string]interface{}{
		"user_id":     userID,
		"interest_id": interestID,
	})
	if err != nil {
		return fmt.Errorf("error adding interest: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user or interest not found")
	}
	return nil
}

func (r *Neo4jRepo) RemoveUserInterest(ctx context.Context, userID, interestID string) error {
	records, err := r.write(ctx, `
		MATCH (:User {user_id: $user_id})-[h:HAS_INTEREST]->(:Interest {interest_id: $interest_id})
		DELETE h
		RETURN count(*) AS n`, map[string]interface{}{
		"user_id":     userID,
		"interest_id": interestID,
	})
	if err != nil {
		return fmt.Errorf("error removing interest: %w", err)
	}
	if len(records) == 0 || getInt64FromRecord(records[0], "n") == 0 {
		return apperr.NotFound("user interest not found")
	}
	return nil
}

// SetUserInterests replaces the user's interests with interestIDs. Unknown
// ids are ignored.
func (r *Neo4jRepo) SetUserInterests(ctx context.Context, userID string, interestIDs []string) error {
	params := map[string]interface{}{
		"user_id":      userID,
		"interest_ids": nonNilStrings(interestIDs),
	}
	_, err := r.writeTx(ctx,
		statement{`MATCH (:User {user_id: $user_id})-[h:HAS_INTEREST]->() DELETE h`, params},
		statement{`
			MATCH (u:User {user_id: $user_id})
			MATCH (i:Interest) WHERE i.interest_id IN $interest_ids
			MERGE (u)-[:HAS_INTEREST]->(i)`, params},
	)
	if err != nil {
		return fmt.Errorf("error setting interests: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) ListUserInterests(ctx context.Context, userID string) ([]*Interest, error) {
	records, err := r.read(ctx, `
		MATCH (:User {user_id: $user_id})-[:HAS_INTEREST]->(i:Interest)
		RETURN i
		ORDER BY i.name`, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error listing user interests: %w", err)
	}
	return interestsFromRecords(records), nil
}

func (r *Neo4jRepo) CommonInterests(ctx context.Context, a, b string) ([]*Interest, error) {
	records, err := r.read(ctx, `
		MATCH (:User {user_id: $a})-[:HAS_INTEREST]->(i:Interest)<-[:HAS_INTEREST]-(:User {user_id: $b})
		RETURN i
		ORDER BY i.name`, map[string]interface{}{"a": a, "b": b})
	if err != nil {
		return nil, fmt.Errorf("error listing common interests: %w", err)
	}
	return interestsFromRecords(records), nil
}
