package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"murmur/internal/cache"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/sanitize"

	"github.com/google/uuid"
)

const maxEntryContentLen = 2000

type EntryService struct {
	entryRepo  repository.EntryRepository
	reportRepo repository.ReportRepository

	retention    time.Duration
	defaultLimit int
	maxLimit     int
}

type SubmitEntryInput struct {
	Content     string
	Tags        string
	Images      []string
	Video       string
	BrowserInfo string
}

type ListEntriesInput struct {
	Limit  int
	Offset int
}

func NewEntryService(
	entryRepo repository.EntryRepository,
	reportRepo repository.ReportRepository,
	retention time.Duration,
	defaultLimit, maxLimit int,
) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		reportRepo:   reportRepo,
		retention:    retention,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *EntryService) SubmitEntry(ctx context.Context, in SubmitEntryInput) (*models.EntryView, error) {
	content := sanitize.Clean(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxEntryContentLen {
		return nil, models.NewValidationError("Content too long (max 2000 characters)")
	}

	entry := &models.Entry{
		UniqueID:    uuid.NewString(),
		Content:     content,
		Tags:        sanitize.Clean(in.Tags),
		Images:      strings.Join(in.Images, ","),
		Video:       in.Video,
		BrowserInfo: in.BrowserInfo,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, models.NewInternalError(err)
	}
	return entry.View(), nil
}

// ListEntries returns one page of the public feed. The retention reaper runs
// lazily here, so expired recycle bin entries disappear without a scheduler.
func (s *EntryService) ListEntries(ctx context.Context, in ListEntriesInput) ([]*models.EntryView, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	if _, err := s.ReapExpired(ctx); err != nil {
		middleware.Logger.ErrorContext(ctx, "retention reaper failed", slog.String("error", err.Error()))
	}

	var views []*models.EntryView
	err := cache.Aside(ctx, cache.EntriesListKey(limit, offset), &views, cache.ListTTL, func() error {
		entries, err := s.entryRepo.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		views = make([]*models.EntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, e.View())
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}

// RecordView bumps the view counter. Archived entries still count views;
// only soft-deleted ones are locked.
func (s *EntryService) RecordView(ctx context.Context, id uint) error {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewNotFoundError("Entry", id)
	}
	if entry.Deleted {
		return models.NewLockedError("Entry has been deleted")
	}
	if err := s.entryRepo.IncrementViewCount(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEntry(ctx, id)
	return nil
}

// ReapExpired purges soft-deleted entries older than the retention window,
// comments and ledgers included. Returns how many entries were purged.
func (s *EntryService) ReapExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)
	expired, err := s.entryRepo.ExpiredDeleted(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	reaped := 0
	for _, entry := range expired {
		if err := s.entryRepo.HardDelete(ctx, entry.ID); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to purge expired entry",
				slog.Uint64("entry_id", uint64(entry.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		reaped++
		middleware.EntriesReaped.Inc()
	}
	if reaped > 0 {
		middleware.Logger.InfoContext(ctx, "retention reaper purged entries", slog.Int("count", reaped))
	}
	return reaped, nil
}
