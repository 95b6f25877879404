package repository

import (
	"context"

	"murmur/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines the interface for both vote ledgers.
type VoteRepository interface {
	CastEntryVote(ctx context.Context, vote *models.Vote) (bool, error)
	CastCommentVote(ctx context.Context, vote *models.CommentVote) (bool, error)
	EntryTally(ctx context.Context, entryID uint) (*models.Tally, error)
	CommentTally(ctx context.Context, commentID uint) (*models.Tally, error)
}

// voteRepository implements VoteRepository
type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// CastEntryVote records or flips a vote in a single upsert. The conflict
// target is the ledger's composite unique index, and the update is guarded
// so recasting the same direction touches no row. Returns false when the
// vote was a no-op repeat.
func (r *voteRepository) CastEntryVote(ctx context.Context, vote *models.Vote) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entry_id"}, {Name: "identifier"}, {Name: "identifier_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"vote":       vote.Value,
			"created_at": vote.CreatedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("votes.vote <> excluded.vote"),
		}},
	}).Create(vote)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CastCommentVote is the comment-ledger counterpart of CastEntryVote.
func (r *voteRepository) CastCommentVote(ctx context.Context, vote *models.CommentVote) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "comment_id"}, {Name: "identifier"}, {Name: "identifier_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"vote":       vote.Value,
			"created_at": vote.CreatedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("comment_votes.vote <> excluded.vote"),
		}},
	}).Create(vote)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *voteRepository) EntryTally(ctx context.Context, entryID uint) (*models.Tally, error) {
	var tally models.Tally
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("COALESCE(SUM(CASE WHEN vote = 1 THEN 1 ELSE 0 END), 0) as upvotes, "+
			"COALESCE(SUM(CASE WHEN vote = -1 THEN 1 ELSE 0 END), 0) as downvotes").
		Where("entry_id = ?", entryID).
		Scan(&tally).Error
	if err != nil {
		return nil, err
	}
	return &tally, nil
}

func (r *voteRepository) CommentTally(ctx context.Context, commentID uint) (*models.Tally, error) {
	var tally models.Tally
	err := r.db.WithContext(ctx).
		Model(&models.CommentVote{}).
		Select("COALESCE(SUM(CASE WHEN vote = 1 THEN 1 ELSE 0 END), 0) as upvotes, "+
			"COALESCE(SUM(CASE WHEN vote = -1 THEN 1 ELSE 0 END), 0) as downvotes").
		Where("comment_id = ?", commentID).
		Scan(&tally).Error
	if err != nil {
		return nil, err
	}
	return &tally, nil
}
