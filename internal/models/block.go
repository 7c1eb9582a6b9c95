package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	ReasonInappropriateContent = "inappropriate_content"
	ReasonHarassment           = "harassment"
	ReasonFakeProfile          = "fake_profile"
	ReasonSpam                 = "spam"
	ReasonOther                = "other"
)

const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

// ReportStatusRank orders report states; a report only moves forward.
func ReportStatusRank(status string) int {
	switch status {
	case ReportPending:
		return 1
	case ReportReviewed:
		return 2
	case ReportResolved:
		return 3
	}
	return 0
}

type Block struct {
	ID        string    `json:"block_id"`
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	Reason    string    `json:"reason"`
	Details   *string   `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type BlockedUser struct {
	Block
	User UserSummary `json:"user"`
}

type BlockRequest struct {
	BlockerID string  `json:"blocker_id" binding:"required"`
	BlockedID string  `json:"blocked_id" binding:"required"`
	Reason    string  `json:"reason" binding:"required,oneof=inappropriate_content harassment fake_profile spam other"`
	Details   *string `json:"details" binding:"omitempty,max=1000"`
}

type Report struct {
	ID         string    `json:"report_id"`
	ReporterID string    `json:"reporter_id"`
	ReportedID string    `json:"reported_id"`
	Reason     string    `json:"reason"`
	Details    *string   `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

type ReportRequest struct {
	ReporterID string  `json:"reporter_id" binding:"required"`
	ReportedID string  `json:"reported_id" binding:"required"`
	Reason     string  `json:"reason" binding:"required,oneof=inappropriate_content harassment fake_profile spam other"`
	Details    *string `json:"details" binding:"omitempty,max=1000"`
}

type BlockRepo interface {
	CreateBlock(ctx context.Context, block *Block) error
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID string) error
	ListBlocks(ctx context.Context, blockerID string) ([]*BlockedUser, error)
	CreateReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, status string) ([]*Report, error)
	UpdateReportStatus(ctx context.Context, id, status string) (*Report, error)
}

func blockFromRecord(record *neo4j.Record) *Block {
	rel, _ := relFromRecord(record, "b")
	return &Block{
		ID:        propString(rel.Props, "block_id"),
		BlockerID: getStringFromRecord(record, "blocker_id"),
		BlockedID: getStringFromRecord(record, "blocked_id"),
		Reason:    propString(rel.Props, "reason"),
		Details:   propStringPtr(rel.Props, "details"),
		Timestamp: propTime(rel.Props, "timestamp"),
	}
}

func reportFromNode(n neo4j.Node) *Report {
	p := n.Props
	return &Report{
		ID:         propString(p, "report_id"),
		ReporterID: propString(p, "reporter_id"),
		ReportedID: propString(p, "reported_id"),
		Reason:     propString(p, "reason"),
		Details:    propStringPtr(p, "details"),
		Timestamp:  propTime(p, "timestamp"),
		Status:     propString(p, "status"),
	}
}

func (r *Neo4jRepo) CreateBlock(ctx context.Context, block *Block) error {
	records, err := r.write(ctx, `
		MATCH (a:User {user_id: $blocker_id}), (b:User {user_id: $blocked_id})
		CREATE (a)-[rel:BLOCKS {block_id: $block_id, reason: $reason, details: $details, timestamp: $timestamp}]->(b)
		RETURN rel`, map[string]interface{}{
		"blocker_id": block.BlockerID,
		"blocked_id": block.BlockedID,
		"block_id":   block.ID,
		"reason":     block.Reason,
		"details":    optional(block.Details),
		"timestamp":  block.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("error creating block: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *Neo4jRepo) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return r.exists(ctx, `
		MATCH (:User {user_id: $from})-[b:BLOCKS]->(:User {user_id: $to})
		RETURN count(b) AS n`, blockerID, blockedID)
}

func (r *Neo4jRepo) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	records, err := r.write(ctx, `
		MATCH (:User {user_id: $blocker_id})-[b:BLOCKS]->(:User {user_id: $blocked_id})
		DELETE b
		RETURN count(*) AS n`, map[string]interface{}{
		"blocker_id": blockerID,
		"blocked_id": blockedID,
	})
	if err != nil {
		return fmt.Errorf("error deleting block: %w", err)
	}
	if len(records) == 0 || getInt64FromRecord(records[0], "n") == 0 {
		return apperr.NotFound("block not found")
	}
	return nil
}

func (r *Neo4jRepo) ListBlocks(ctx context.Context, blockerID string) ([]*BlockedUser, error) {
	records, err := r.read(ctx, `
		MATCH (a:User {user_id: $blocker_id})-[b:BLOCKS]->(u:User)
		RETURN b, a.user_id AS blocker_id, u.user_id AS blocked_id, u
		ORDER BY b.timestamp DESC`, map[string]interface{}{"blocker_id": blockerID})
	if err != nil {
		return nil, fmt.Errorf("error listing blocks: %w", err)
	}
	out := make([]*BlockedUser, 0, len(records))
	for _, record := range records {
		entry := &BlockedUser{Block: *blockFromRecord(record)}
		if n, ok := nodeFromRecord(record, "u"); ok {
			entry.User = userFromNode(n).Summary()
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *Neo4jRepo) CreateReport(ctx context.Context, report *Report) error {
	_, err := r.write(ctx, `
		CREATE (rep:Report)
		SET rep = $props
		WITH rep
		MATCH (a:User {user_id: $reporter_id})
		CREATE (a)-[:FILED]->(rep)`, map[string]interface{}{
		"reporter_id": report.ReporterID,
		"props": map[string]interface{}{
			"report_id":   report.ID,
			"reporter_id": report.ReporterID,
			"reported_id": report.ReportedID,
			"reason":      report.Reason,
			"details":     optional(report.Details),
			"timestamp":   report.Timestamp,
			"status":      report.Status,
		},
	})
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

func (r *Neo4jRepo) GetReport(ctx context.Context, id string) (*Report, error) {
	records, err := r.read(ctx, `MATCH (rep:Report {report_id: $report_id}) RETURN rep`, map[string]interface{}{"report_id": id})
	if err != nil {
		return nil, fmt.Errorf("error fetching report: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("report not found")
	}
	n, _ := nodeFromRecord(records[0], "rep")
	return reportFromNode(n), nil
}

func (r *Neo4jRepo) ListReports(ctx context.Context, status string) ([]*Report, error) {
	records, err := r.read(ctx, `
		MATCH (rep:Report)
		WHERE $status = '' OR rep.status = $status
		RETURN rep
		ORDER BY rep.timestamp DESC`, map[string]interface{}{"status": status})
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	out := make([]*Report, 0, len(records))
	for _, record := range records {
		if n, ok := nodeFromRecord(record, "rep"); ok {
			out = append(out, reportFromNode(n))
		}
	}
	return out, nil
}

func (r *Neo4jRepo) UpdateReportStatus(ctx context.Context, id, status string) (*Report, error) {
	records, err := r.write(ctx, `
		MATCH (rep:Report {report_id: $report_id})
		SET rep.status = $status
		RETURN rep`, map[string]interface{}{
		"report_id": id,
		"status":    status,
	})
	if err != nil {
		return nil, fmt.Errorf("error updating report: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("report not found")
	}
	n, _ := nodeFromRecord(records[0], "rep")
	return reportFromNode(n), nil
}
