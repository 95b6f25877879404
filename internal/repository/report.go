package repository

import (
	"context"

	"murmur/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Flagged rollup thresholds for the admin dashboard.
const (
	flaggedEntryReports   = 2
	flaggedCommentReports = 1
)

// ReportRepository defines the interface for both report ledgers.
type ReportRepository interface {
	FileEntryReport(ctx context.Context, report *models.Report) (bool, error)
	FileCommentReport(ctx context.Context, report *models.CommentReport) (bool, error)
	EntryReportCount(ctx context.Context, entryID uint) (int64, error)
	CommentReportCount(ctx context.Context, commentID uint) (int64, error)
	FlaggedEntries(ctx context.Context) ([]models.FlaggedItem, error)
	FlaggedComments(ctx context.Context) ([]models.FlaggedItem, error)
}

// reportRepository implements ReportRepository
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// FileEntryReport inserts a report, silently ignoring a duplicate from the
// same identifier. Returns false when the report already existed.
func (r *reportRepository) FileEntryReport(ctx context.Context, report *models.Report) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(report)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FileCommentReport is the comment-ledger counterpart of FileEntryReport.
func (r *reportRepository) FileCommentReport(ctx context.Context, report *models.CommentReport) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(report)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reportRepository) EntryReportCount(ctx context.Context, entryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("entry_id = ?", entryID).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) CommentReportCount(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentReport{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// FlaggedEntries returns live entries whose report count crossed the
// dashboard threshold, with their ledger upvotes and a sample reason.
func (r *reportRepository) FlaggedEntries(ctx context.Context) ([]models.FlaggedItem, error) {
	var items []models.FlaggedItem
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("'entry' as type, reports.entry_id as target_id, COUNT(reports.id) as report_count, MAX(reports.reason) as reason, "+
			"(SELECT COUNT(*) FROM votes WHERE votes.entry_id = reports.entry_id AND votes.vote = 1) as upvotes").
		Joins("JOIN entries ON entries.id = reports.entry_id").
		Where("entries.deleted = ?", false).
		Group("reports.entry_id").
		Having("COUNT(reports.id) > ?", flaggedEntryReports).
		Order("report_count DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FlaggedComments is the comment rollup, with its lower threshold.
func (r *reportRepository) FlaggedComments(ctx context.Context) ([]models.FlaggedItem, error) {
	var items []models.FlaggedItem
	err := r.db.WithContext(ctx).
		Model(&models.CommentReport{}).
		Select("'comment' as type, comment_reports.comment_id as target_id, COUNT(comment_reports.id) as report_count, MAX(comment_reports.reason) as reason, "+
			"(SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comment_reports.comment_id AND comment_votes.vote = 1) as upvotes").
		Joins("JOIN comments ON comments.id = comment_reports.comment_id").
		Where("comments.deleted = ?", false).
		Group("comment_reports.comment_id").
		Having("COUNT(comment_reports.id) > ?", flaggedCommentReports).
		Order("report_count DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
