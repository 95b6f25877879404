// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"log/slog"
	"time"

	"murmur/internal/archive"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/repository"
)

// Report ratio thresholds. Both compare the report count against the LEDGER
// upvote tally: admin-adjusted override counters never feed the policy.
const (
	entryArchiveRatio  = 0.25
	commentRemoveRatio = 0.1
)

// ModerationService evaluates the report ratio policy after every vote or
// report that can move a target across a threshold.
type ModerationService struct {
	entryRepo   repository.EntryRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	reportRepo  repository.ReportRepository
	archiver    *archive.Archiver
}

func NewModerationService(
	entryRepo repository.EntryRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	reportRepo repository.ReportRepository,
	archiver *archive.Archiver,
) *ModerationService {
	return &ModerationService{
		entryRepo:   entryRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		reportRepo:  reportRepo,
		archiver:    archiver,
	}
}

// EvaluateEntry archives the entry when reports/upvotes exceeds the entry
// threshold. Entries with zero upvotes never archive regardless of report
// count. Returns whether the entry was archived by this call.
func (s *ModerationService) EvaluateEntry(ctx context.Context, entryID uint) (bool, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return false, err
	}
	if entry.Archived || entry.Deleted {
		return false, nil
	}

	tally, err := s.voteRepo.EntryTally(ctx, entryID)
	if err != nil {
		return false, err
	}
	reports, err := s.reportRepo.EntryReportCount(ctx, entryID)
	if err != nil {
		return false, err
	}
	if tally.Upvotes <= 0 || float64(reports)/float64(tally.Upvotes) <= entryArchiveRatio {
		return false, nil
	}

	now := time.Now()
	entry.Archived = true
	entry.ArchivedAt = &now
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return false, err
	}
	middleware.EntriesArchived.Inc()
	middleware.Logger.InfoContext(ctx, "entry archived by report ratio",
		slog.Uint64("entry_id", uint64(entryID)),
		slog.Int64("reports", reports),
		slog.Int("upvotes", tally.Upvotes),
	)

	// Snapshot and audit log failures never undo the archival.
	if s.archiver != nil {
		res := s.archiver.Write(entry, now, int(reports), tally.Upvotes)
		if res.SnapshotErr != nil {
			middleware.Logger.ErrorContext(ctx, "archive snapshot failed",
				slog.Uint64("entry_id", uint64(entryID)),
				slog.String("path", res.SnapshotPath),
				slog.String("error", res.SnapshotErr.Error()),
			)
		}
		if res.AuditErr != nil {
			middleware.Logger.ErrorContext(ctx, "archive audit write failed",
				slog.Uint64("entry_id", uint64(entryID)),
				slog.String("error", res.AuditErr.Error()),
			)
		}
	}
	return true, nil
}

// EvaluateComment hard-deletes the comment when its report ratio exceeds the
// comment threshold. Returns whether the comment was removed by this call.
func (s *ModerationService) EvaluateComment(ctx context.Context, commentID uint) (bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment.Deleted {
		return false, nil
	}

	tally, err := s.voteRepo.CommentTally(ctx, commentID)
	if err != nil {
		return false, err
	}
	reports, err := s.reportRepo.CommentReportCount(ctx, commentID)
	if err != nil {
		return false, err
	}
	if tally.Upvotes <= 0 || float64(reports)/float64(tally.Upvotes) <= commentRemoveRatio {
		return false, nil
	}

	if err := s.commentRepo.HardDelete(ctx, commentID); err != nil {
		return false, err
	}
	middleware.CommentsModerated.Inc()
	middleware.Logger.InfoContext(ctx, "comment removed by report ratio",
		slog.Uint64("comment_id", uint64(commentID)),
		slog.Int64("reports", reports),
		slog.Int("upvotes", tally.Upvotes),
	)
	return true, nil
}

// liveEntry loads an entry and rejects interaction with archived or
// soft-deleted ones.
func liveEntry(ctx context.Context, repo repository.EntryRepository, id uint) (*models.Entry, error) {
	entry, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewNotFoundError("Entry", id)
	}
	if entry.Deleted {
		return nil, models.NewLockedError("Entry has been deleted")
	}
	if entry.Archived {
		return nil, models.NewLockedError("Entry has been archived")
	}
	return entry, nil
}
