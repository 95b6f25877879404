package service

import (
	"context"
	"strings"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(entryRepo *entryRepoStub, commentRepo *commentRepoStub, voteRepo *voteRepoStub, reportRepo *reportRepoStub) *ReportService {
	moderation := NewModerationService(entryRepo, commentRepo, voteRepo, reportRepo, nil)
	return NewReportService(reportRepo, entryRepo, commentRepo, moderation)
}

func TestReportService_ReportEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reason too long", func(t *testing.T) {
		t.Parallel()
		svc := newReportService(noopEntryRepo(), noopCommentRepo(), noopVoteRepo(), noopReportRepo())
		_, err := svc.ReportEntry(ctx, FileReportInput{
			TargetID: 1, Reason: strings.Repeat("x", 501), Identifier: cookieIdent("a"),
		})
		assertValidationError(t, err)
	})

	t.Run("deleted entry is locked", func(t *testing.T) {
		t.Parallel()
		entryRepo := noopEntryRepo()
		entryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Entry, error) {
			return &models.Entry{ID: id, Deleted: true}, nil
		}
		svc := newReportService(entryRepo, noopCommentRepo(), noopVoteRepo(), noopReportRepo())

		_, err := svc.ReportEntry(ctx, FileReportInput{TargetID: 1, Identifier: cookieIdent("a")})
		assertLockedError(t, err)
	})

	t.Run("multibyte reason within the rune limit passes", func(t *testing.T) {
		t.Parallel()
		reportRepo := noopReportRepo()
		var stored *models.Report
		reportRepo.fileEntryFn = func(_ context.Context, r *models.Report) (bool, error) {
			stored = r
			return true, nil
		}
		svc := newReportService(noopEntryRepo(), noopCommentRepo(), noopVoteRepo(), reportRepo)

		reason := strings.Repeat("ñ", 500)
		_, err := svc.ReportEntry(ctx, FileReportInput{TargetID: 1, Reason: reason, Identifier: cookieIdent("a")})
		require.NoError(t, err, "500 two-byte characters are 500 characters, not 1000")
		require.NotNil(t, stored)
		assert.Equal(t, reason, stored.Reason)
	})

	t.Run("duplicate report succeeds without a new row", func(t *testing.T) {
		t.Parallel()
		entryRepo := noopEntryRepo()
		evaluated := false
		entryRepo.updateFn = func(_ context.Context, _ *models.Entry) error {
			evaluated = true
			return nil
		}
		voteRepo := noopVoteRepo()
		voteRepo.entryTallyFn = func(_ context.Context, _ uint) (*models.Tally, error) {
			return &models.Tally{Upvotes: 1}, nil
		}
		reportRepo := noopReportRepo()
		reportRepo.fileEntryFn = func(_ context.Context, _ *models.Report) (bool, error) { return false, nil }
		reportRepo.entryCountFn = func(_ context.Context, _ uint) (int64, error) { return 7, nil }
		svc := newReportService(entryRepo, noopCommentRepo(), voteRepo, reportRepo)

		res, err := svc.ReportEntry(ctx, FileReportInput{TargetID: 1, Identifier: cookieIdent("a")})
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.False(t, res.Moderated)
		assert.Equal(t, int64(7), res.Reports, "count still returned on the repeat")
		assert.Equal(t, "Already reported", res.Message)
		assert.False(t, evaluated, "moderation only runs after a report that landed")
	})

	t.Run("archived entry reports idempotently succeed", func(t *testing.T) {
		t.Parallel()
		entryRepo := noopEntryRepo()
		entryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Entry, error) {
			return &models.Entry{ID: id, Archived: true, ReportCount: 4}, nil
		}
		reportRepo := noopReportRepo()
		filed := false
		reportRepo.fileEntryFn = func(_ context.Context, _ *models.Report) (bool, error) {
			filed = true
			return true, nil
		}
		svc := newReportService(entryRepo, noopCommentRepo(), noopVoteRepo(), reportRepo)

		res, err := svc.ReportEntry(ctx, FileReportInput{TargetID: 1, Identifier: cookieIdent("a")})
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, int64(4), res.Reports)
		assert.Equal(t, "Entry already archived", res.Message)
		assert.False(t, filed, "no new ledger row for an already archived entry")
	})

	t.Run("report crossing the threshold archives", func(t *testing.T) {
		t.Parallel()
		entryRepo := noopEntryRepo()
		archived := false
		entryRepo.updateFn = func(_ context.Context, e *models.Entry) error {
			archived = e.Archived
			return nil
		}
		voteRepo := noopVoteRepo()
		voteRepo.entryTallyFn = func(_ context.Context, _ uint) (*models.Tally, error) {
			return &models.Tally{Upvotes: 10}, nil
		}
		reportRepo := noopReportRepo()
		reportRepo.entryCountFn = func(_ context.Context, _ uint) (int64, error) { return 3, nil }
		svc := newReportService(entryRepo, noopCommentRepo(), voteRepo, reportRepo)

		res, err := svc.ReportEntry(ctx, FileReportInput{
			TargetID: 1, Reason: "spam", Identifier: cookieIdent("a"),
		})
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.True(t, res.Moderated)
		assert.Equal(t, int64(3), res.Reports)
		assert.True(t, archived)
	})

	t.Run("reason is sanitized before storage", func(t *testing.T) {
		t.Parallel()
		reportRepo := noopReportRepo()
		var stored *models.Report
		reportRepo.fileEntryFn = func(_ context.Context, r *models.Report) (bool, error) {
			stored = r
			return true, nil
		}
		svc := newReportService(noopEntryRepo(), noopCommentRepo(), noopVoteRepo(), reportRepo)

		_, err := svc.ReportEntry(ctx, FileReportInput{
			TargetID: 1, Reason: `offensive <script>x()</script> content`, Identifier: cookieIdent("a"),
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "offensive  content", stored.Reason)
	})
}

func TestReportService_ReportComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("report crossing the threshold removes the comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		deleted := uint(0)
		commentRepo.hardDeleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		voteRepo := noopVoteRepo()
		voteRepo.commentTallyFn = func(_ context.Context, _ uint) (*models.Tally, error) {
			return &models.Tally{Upvotes: 5}, nil
		}
		reportRepo := noopReportRepo()
		reportRepo.commentCountFn = func(_ context.Context, _ uint) (int64, error) { return 1, nil }
		svc := newReportService(noopEntryRepo(), commentRepo, voteRepo, reportRepo)

		res, err := svc.ReportComment(ctx, FileReportInput{TargetID: 4, Identifier: cookieIdent("a")})
		require.NoError(t, err)
		assert.True(t, res.Moderated, "1/5 ratio exceeds the comment threshold")
		assert.Equal(t, uint(4), deleted)
	})

	t.Run("deleted comment is locked", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Deleted: true}, nil
		}
		svc := newReportService(noopEntryRepo(), commentRepo, noopVoteRepo(), noopReportRepo())

		_, err := svc.ReportComment(ctx, FileReportInput{TargetID: 4, Identifier: cookieIdent("a")})
		assertLockedError(t, err)
	})
}
