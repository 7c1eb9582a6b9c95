package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
)

type BlockService struct {
	blocks  models.BlockRepo
	matches models.MatchRepo
	users   models.UserRepo
	logger  *slog.Logger
	now     func() time.Time
}

func NewBlockService(blocks models.BlockRepo, matches models.MatchRepo, users models.UserRepo, logger *slog.Logger) *BlockService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlockService{
		blocks:  blocks,
		matches: matches,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// BlockUser records the block and removes any match between the pair.
func (bs *BlockService) BlockUser(ctx context.Context, req *models.BlockRequest) (*models.Block, error) {
	if req.BlockerID == req.BlockedID {
		return nil, apperr.Validation("cannot block yourself")
	}
	blocked, err := bs.blocks.IsBlocked(ctx, req.BlockerID, req.BlockedID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.Conflict("user already blocked")
	}

	block := &models.Block{
		ID:        uuid.NewString(),
		BlockerID: req.BlockerID,
		BlockedID: req.BlockedID,
		Reason:    req.Reason,
		Details:   req.Details,
		Timestamp: bs.now().UTC(),
	}
	if err := bs.blocks.CreateBlock(ctx, block); err != nil {
		return nil, err
	}
	if err := bs.matches.DeleteMatchesBetween(ctx, req.BlockerID, req.BlockedID); err != nil {
		bs.logger.Warn("failed to remove match after block", "block_id", block.ID, "error", err)
	}
	return block, nil
}

func (bs *BlockService) UnblockUser(ctx context.Context, blockerID, blockedID string) error {
	return bs.blocks.DeleteBlock(ctx, blockerID, blockedID)
}

func (bs *BlockService) ListBlocked(ctx context.Context, blockerID string) ([]*models.BlockedUser, error) {
	return bs.blocks.ListBlocks(ctx, blockerID)
}

func (bs *BlockService) ReportUser(ctx context.Context, req *models.ReportRequest) (*models.Report, error) {
	if req.ReporterID == req.ReportedID {
		return nil, apperr.Validation("cannot report yourself")
	}
	if _, err := bs.users.GetUserByID(ctx, req.ReportedID); err != nil {
		return nil, err
	}
	report := &models.Report{
		ID:         uuid.NewString(),
		ReporterID: req.ReporterID,
		ReportedID: req.ReportedID,
		Reason:     req.Reason,
		Details:    req.Details,
		Timestamp:  bs.now().UTC(),
		Status:     models.ReportPending,
	}
	if err := bs.blocks.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (bs *BlockService) ListReports(ctx context.Context, status string) ([]*models.Report, error) {
	if status != "" && models.ReportStatusRank(status) == 0 {
		return nil, apperr.Validation("status must be one of pending, reviewed, resolved")
	}
	return bs.blocks.ListReports(ctx, status)
}

// UpdateReportStatus moves a report forward through pending, reviewed and
// resolved.
func (bs *BlockService) UpdateReportStatus(ctx context.Context, id, status string) (*models.Report, error) {
	next := models.ReportStatusRank(status)
	if next == 0 {
		return nil, apperr.Validation("status must be one of pending, reviewed, resolved")
	}
	report, err := bs.blocks.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if next < models.ReportStatusRank(report.Status) {
		return nil, apperr.Validation("report status cannot move from " + report.Status + " to " + status)
	}
	return bs.blocks.UpdateReportStatus(ctx, id, status)
}
