package service

import (
	"context"
	"unicode/utf8"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/sanitize"
)

const maxReportReasonLen = 500

type ReportService struct {
	reportRepo  repository.ReportRepository
	entryRepo   repository.EntryRepository
	commentRepo repository.CommentRepository
	moderation  *ModerationService
}

type FileReportInput struct {
	TargetID   uint
	Reason     string
	Identifier models.Identifier
}

// FileReportResult tells callers whether the report was new, the updated
// ledger count, and whether it tipped the target over a moderation
// threshold.
type FileReportResult struct {
	Created   bool   `json:"created"`
	Reports   int64  `json:"reports"`
	Moderated bool   `json:"moderated"`
	Message   string `json:"message,omitempty"`
}

func NewReportService(
	reportRepo repository.ReportRepository,
	entryRepo repository.EntryRepository,
	commentRepo repository.CommentRepository,
	moderation *ModerationService,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		entryRepo:   entryRepo,
		commentRepo: commentRepo,
		moderation:  moderation,
	}
}

// ReportEntry files a report against an entry. A repeat report from the
// same identifier succeeds without adding a row, reporting an already
// archived entry is a no-op success, and the moderation policy runs only
// after a report that actually landed.
func (s *ReportService) ReportEntry(ctx context.Context, in FileReportInput) (*FileReportResult, error) {
	reason := sanitize.Clean(in.Reason)
	if utf8.RuneCountInString(reason) > maxReportReasonLen {
		return nil, models.NewValidationError("Reason too long (max 500 characters)")
	}
	entry, err := s.entryRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, models.NewNotFoundError("Entry", in.TargetID)
	}
	if entry.Deleted {
		return nil, models.NewLockedError("Entry has been deleted")
	}
	if entry.Archived {
		return &FileReportResult{
			Reports: int64(entry.ReportCount),
			Message: "Entry already archived",
		}, nil
	}

	created, err := s.reportRepo.FileEntryReport(ctx, &models.Report{
		EntryID:        in.TargetID,
		Identifier:     in.Identifier.Value,
		IdentifierType: in.Identifier.Type,
		Reason:         reason,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	archived := false
	if created {
		if archived, err = s.moderation.EvaluateEntry(ctx, in.TargetID); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	count, err := s.reportRepo.EntryReportCount(ctx, in.TargetID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	result := &FileReportResult{Created: created, Reports: count, Moderated: archived}
	if !created {
		result.Message = "Already reported"
	}
	return result, nil
}

// ReportComment is the comment counterpart of ReportEntry.
func (s *ReportService) ReportComment(ctx context.Context, in FileReportInput) (*FileReportResult, error) {
	reason := sanitize.Clean(in.Reason)
	if utf8.RuneCountInString(reason) > maxReportReasonLen {
		return nil, models.NewValidationError("Reason too long (max 500 characters)")
	}
	comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, models.NewNotFoundError("Comment", in.TargetID)
	}
	if comment.Deleted {
		return nil, models.NewLockedError("Comment has been deleted")
	}

	created, err := s.reportRepo.FileCommentReport(ctx, &models.CommentReport{
		CommentID:      in.TargetID,
		Identifier:     in.Identifier.Value,
		IdentifierType: in.Identifier.Type,
		Reason:         reason,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	removed := false
	if created {
		if removed, err = s.moderation.EvaluateComment(ctx, in.TargetID); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	count, err := s.reportRepo.CommentReportCount(ctx, in.TargetID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	result := &FileReportResult{Created: created, Reports: count, Moderated: removed}
	if !created {
		result.Message = "Already reported"
	}
	return result, nil
}
