package repository

import (
	"context"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByEntry(ctx context.Context, entryID uint) ([]*models.Comment, error)
	HardDelete(ctx context.Context, id uint) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CommentsKey(comment.EntryID))
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx)).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// maxThreadComments caps how much of a thread one listing returns.
const maxThreadComments = 100

// ListByEntry returns the live thread of an entry, newest first.
func (r *commentRepository) ListByEntry(ctx context.Context, entryID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx)).
		Where("comments.entry_id = ? AND comments.deleted = ?", entryID, false).
		Order("comments.id DESC").
		Limit(maxThreadComments).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// HardDelete removes the comment row and its ledger rows in one transaction.
// Comments have no recycle bin.
func (r *commentRepository) HardDelete(ctx context.Context, id uint) error {
	var entryID uint
	r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Pluck("entry_id", &entryID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
	if err == nil && entryID != 0 {
		cache.Invalidate(ctx, cache.CommentsKey(entryID))
	}
	return err
}

// applyCommentDetails adds subqueries to fetch ledger tallies in a single query.
func (r *commentRepository) applyCommentDetails(db *gorm.DB) *gorm.DB {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comments.id AND comment_votes.vote = 1) as tallied_upvotes, " +
		"(SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comments.id AND comment_votes.vote = -1) as tallied_downvotes, " +
		"(SELECT COUNT(*) FROM comment_reports WHERE comment_reports.comment_id = comments.id) as report_count"
	return db.Select(selectQuery)
}
