package service

import (
	"context"
	"testing"
	"time"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryRepoStub is a stub for repository.EntryRepository.
type entryRepoStub struct {
	createFn         func(context.Context, *models.Entry) error
	getByIDFn        func(context.Context, uint) (*models.Entry, error)
	getByUniqueIDFn  func(context.Context, string) (*models.Entry, error)
	listFn           func(context.Context, int, int) ([]*models.Entry, error)
	listDeletedFn    func(context.Context) ([]*models.Entry, error)
	expiredDeletedFn func(context.Context, time.Time) ([]*models.Entry, error)
	updateFn         func(context.Context, *models.Entry) error
	incrementViewFn  func(context.Context, uint) error
	hardDeleteFn     func(context.Context, uint) error
	statsFn          func(context.Context) (*models.DashboardStats, error)
}

func (s *entryRepoStub) Create(ctx context.Context, e *models.Entry) error { return s.createFn(ctx, e) }
func (s *entryRepoStub) GetByID(ctx context.Context, id uint) (*models.Entry, error) {
	return s.getByIDFn(ctx, id)
}
func (s *entryRepoStub) GetByUniqueID(ctx context.Context, uid string) (*models.Entry, error) {
	return s.getByUniqueIDFn(ctx, uid)
}
func (s *entryRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Entry, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *entryRepoStub) ListDeleted(ctx context.Context) ([]*models.Entry, error) {
	return s.listDeletedFn(ctx)
}
func (s *entryRepoStub) ExpiredDeleted(ctx context.Context, cutoff time.Time) ([]*models.Entry, error) {
	return s.expiredDeletedFn(ctx, cutoff)
}
func (s *entryRepoStub) Update(ctx context.Context, e *models.Entry) error { return s.updateFn(ctx, e) }
func (s *entryRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewFn(ctx, id)
}
func (s *entryRepoStub) HardDelete(ctx context.Context, id uint) error { return s.hardDeleteFn(ctx, id) }
func (s *entryRepoStub) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.statsFn(ctx)
}

func noopEntryRepo() *entryRepoStub {
	return &entryRepoStub{
		createFn:        func(_ context.Context, _ *models.Entry) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Entry, error) { return &models.Entry{ID: id}, nil },
		getByUniqueIDFn: func(_ context.Context, _ string) (*models.Entry, error) { return &models.Entry{}, nil },
		listFn:          func(_ context.Context, _, _ int) ([]*models.Entry, error) { return nil, nil },
		listDeletedFn:   func(_ context.Context) ([]*models.Entry, error) { return nil, nil },
		expiredDeletedFn: func(_ context.Context, _ time.Time) ([]*models.Entry, error) {
			return nil, nil
		},
		updateFn:        func(_ context.Context, _ *models.Entry) error { return nil },
		incrementViewFn: func(_ context.Context, _ uint) error { return nil },
		hardDeleteFn:    func(_ context.Context, _ uint) error { return nil },
		statsFn:         func(_ context.Context) (*models.DashboardStats, error) { return &models.DashboardStats{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByEntryFn func(context.Context, uint) ([]*models.Comment, error)
	hardDeleteFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByEntry(ctx context.Context, entryID uint) ([]*models.Comment, error) {
	return s.listByEntryFn(ctx, entryID)
}
func (s *commentRepoStub) HardDelete(ctx context.Context, id uint) error {
	return s.hardDeleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByEntryFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		hardDeleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	castEntryFn    func(context.Context, *models.Vote) (bool, error)
	castCommentFn  func(context.Context, *models.CommentVote) (bool, error)
	entryTallyFn   func(context.Context, uint) (*models.Tally, error)
	commentTallyFn func(context.Context, uint) (*models.Tally, error)
}

func (s *voteRepoStub) CastEntryVote(ctx context.Context, v *models.Vote) (bool, error) {
	return s.castEntryFn(ctx, v)
}
func (s *voteRepoStub) CastCommentVote(ctx context.Context, v *models.CommentVote) (bool, error) {
	return s.castCommentFn(ctx, v)
}
func (s *voteRepoStub) EntryTally(ctx context.Context, id uint) (*models.Tally, error) {
	return s.entryTallyFn(ctx, id)
}
func (s *voteRepoStub) CommentTally(ctx context.Context, id uint) (*models.Tally, error) {
	return s.commentTallyFn(ctx, id)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		castEntryFn:    func(_ context.Context, _ *models.Vote) (bool, error) { return true, nil },
		castCommentFn:  func(_ context.Context, _ *models.CommentVote) (bool, error) { return true, nil },
		entryTallyFn:   func(_ context.Context, _ uint) (*models.Tally, error) { return &models.Tally{}, nil },
		commentTallyFn: func(_ context.Context, _ uint) (*models.Tally, error) { return &models.Tally{}, nil },
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	fileEntryFn       func(context.Context, *models.Report) (bool, error)
	fileCommentFn     func(context.Context, *models.CommentReport) (bool, error)
	entryCountFn      func(context.Context, uint) (int64, error)
	commentCountFn    func(context.Context, uint) (int64, error)
	flaggedEntriesFn  func(context.Context) ([]models.FlaggedItem, error)
	flaggedCommentsFn func(context.Context) ([]models.FlaggedItem, error)
}

func (s *reportRepoStub) FileEntryReport(ctx context.Context, r *models.Report) (bool, error) {
	return s.fileEntryFn(ctx, r)
}
func (s *reportRepoStub) FileCommentReport(ctx context.Context, r *models.CommentReport) (bool, error) {
	return s.fileCommentFn(ctx, r)
}
func (s *reportRepoStub) EntryReportCount(ctx context.Context, id uint) (int64, error) {
	return s.entryCountFn(ctx, id)
}
func (s *reportRepoStub) CommentReportCount(ctx context.Context, id uint) (int64, error) {
	return s.commentCountFn(ctx, id)
}
func (s *reportRepoStub) FlaggedEntries(ctx context.Context) ([]models.FlaggedItem, error) {
	return s.flaggedEntriesFn(ctx)
}
func (s *reportRepoStub) FlaggedComments(ctx context.Context) ([]models.FlaggedItem, error) {
	return s.flaggedCommentsFn(ctx)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		fileEntryFn:       func(_ context.Context, _ *models.Report) (bool, error) { return true, nil },
		fileCommentFn:     func(_ context.Context, _ *models.CommentReport) (bool, error) { return true, nil },
		entryCountFn:      func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		commentCountFn:    func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		flaggedEntriesFn:  func(_ context.Context) ([]models.FlaggedItem, error) { return nil, nil },
		flaggedCommentsFn: func(_ context.Context) ([]models.FlaggedItem, error) { return nil, nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func assertLockedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, models.CodeLocked, appErr.Code)
}
