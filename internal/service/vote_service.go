package service

import (
	"context"
	"log/slog"
	"time"

	"murmur/internal/cache"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/repository"
)

type VoteService struct {
	voteRepo    repository.VoteRepository
	entryRepo   repository.EntryRepository
	commentRepo repository.CommentRepository
	moderation  *ModerationService
}

type CastVoteInput struct {
	TargetID   uint
	Direction  string // "up" or "down"
	Identifier models.Identifier
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	entryRepo repository.EntryRepository,
	commentRepo repository.CommentRepository,
	moderation *ModerationService,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		entryRepo:   entryRepo,
		commentRepo: commentRepo,
		moderation:  moderation,
	}
}

func parseDirection(direction string) (int, error) {
	switch direction {
	case "up":
		return models.VoteUp, nil
	case "down":
		return models.VoteDown, nil
	default:
		return 0, models.NewValidationError("Direction must be 'up' or 'down'")
	}
}

// CastEntryVote records or flips a vote on an entry. Repeating the same
// direction is a successful no-op; the opposite direction moves the
// existing vote. A changed vote re-runs the moderation policy, since a
// dropping upvote tally can push the report ratio over the archival
// threshold. The returned bool reports whether the ledger changed.
func (s *VoteService) CastEntryVote(ctx context.Context, in CastVoteInput) (*models.Tally, bool, error) {
	value, err := parseDirection(in.Direction)
	if err != nil {
		return nil, false, err
	}
	if _, err := liveEntry(ctx, s.entryRepo, in.TargetID); err != nil {
		return nil, false, err
	}

	changed, err := s.voteRepo.CastEntryVote(ctx, &models.Vote{
		EntryID:        in.TargetID,
		Identifier:     in.Identifier.Value,
		IdentifierType: in.Identifier.Type,
		Value:          value,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}

	if changed {
		cache.InvalidateEntry(ctx, in.TargetID)
		cache.InvalidateEntriesList(ctx)

		if _, err := s.moderation.EvaluateEntry(ctx, in.TargetID); err != nil {
			middleware.Logger.ErrorContext(ctx, "moderation check failed after vote",
				slog.Uint64("entry_id", uint64(in.TargetID)),
				slog.String("error", err.Error()),
			)
		}
	}

	tally, err := s.entryTally(ctx, in.TargetID)
	if err != nil {
		return nil, false, err
	}
	return tally, changed, nil
}

// entryTally returns the tally clients should see: the stored override
// counters once the entry is manipulated, the ledger otherwise.
func (s *VoteService) entryTally(ctx context.Context, id uint) (*models.Tally, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.Tally{
		Upvotes:   entry.DisplayUpvotes(),
		Downvotes: entry.DisplayDownvotes(),
	}, nil
}

// CastCommentVote is the comment counterpart of CastEntryVote.
func (s *VoteService) CastCommentVote(ctx context.Context, in CastVoteInput) (*models.Tally, bool, error) {
	value, err := parseDirection(in.Direction)
	if err != nil {
		return nil, false, err
	}
	comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, false, models.NewNotFoundError("Comment", in.TargetID)
	}
	if comment.Deleted {
		return nil, false, models.NewLockedError("Comment has been deleted")
	}

	changed, err := s.voteRepo.CastCommentVote(ctx, &models.CommentVote{
		CommentID:      in.TargetID,
		Identifier:     in.Identifier.Value,
		IdentifierType: in.Identifier.Type,
		Value:          value,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}

	if changed {
		cache.Invalidate(ctx, cache.CommentsKey(comment.EntryID))

		if _, err := s.moderation.EvaluateComment(ctx, in.TargetID); err != nil {
			middleware.Logger.ErrorContext(ctx, "moderation check failed after comment vote",
				slog.Uint64("comment_id", uint64(in.TargetID)),
				slog.String("error", err.Error()),
			)
		}
	}

	tally, err := s.voteRepo.CommentTally(ctx, in.TargetID)
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	return tally, changed, nil
}
