// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// EntryRepository defines the interface for entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uint) (*models.Entry, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.Entry, error)
	List(ctx context.Context, limit, offset int) ([]*models.Entry, error)
	ListDeleted(ctx context.Context) ([]*models.Entry, error)
	ExpiredDeleted(ctx context.Context, cutoff time.Time) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	IncrementViewCount(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// entryRepository implements EntryRepository
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if err == nil {
		cache.InvalidateEntriesList(ctx)
	}
	return err
}

func (r *entryRepository) GetByID(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.applyEntryDetails(r.db.WithContext(ctx)).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.Entry, error) {
	var entry models.Entry
	err := r.applyEntryDetails(r.db.WithContext(ctx)).
		Where("entries.unique_id = ?", uniqueID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the public feed: live entries only, pinned first, newest first
// within each group.
func (r *entryRepository) List(ctx context.Context, limit, offset int) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := r.applyEntryDetails(r.db.WithContext(ctx)).
		Where("entries.deleted = ? AND entries.archived = ?", false, false).
		Order("entries.is_pinned DESC, entries.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) ListDeleted(ctx context.Context) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := r.applyEntryDetails(r.db.WithContext(ctx)).
		Where("entries.deleted = ?", true).
		Order("entries.deleted_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ExpiredDeleted returns soft-deleted entries whose deletion timestamp is at
// or before the cutoff. The reaper purges these.
func (r *entryRepository) ExpiredDeleted(ctx context.Context, cutoff time.Time) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := r.db.WithContext(ctx).
		Where("deleted = ? AND deleted_at <= ?", true, cutoff).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	err := r.db.WithContext(ctx).Save(entry).Error
	if err == nil {
		cache.InvalidateEntry(ctx, entry.ID)
		cache.InvalidateEntriesList(ctx)
	}
	return err
}

func (r *entryRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// HardDelete removes the entry row together with its comments and every
// ledger row referencing it, in one transaction.
func (r *entryRepository) HardDelete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("entry_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentReport{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("entry_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Entry{}, id).Error
	})
	if err == nil {
		cache.InvalidateEntry(ctx, id)
		cache.InvalidateEntriesList(ctx)
	}
	return err
}

func (r *entryRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalEntries, db.Model(&models.Entry{})},
		{&stats.ActiveEntries, db.Model(&models.Entry{}).Where("deleted = ? AND archived = ?", false, false)},
		{&stats.ArchivedEntries, db.Model(&models.Entry{}).Where("archived = ?", true)},
		{&stats.DeletedEntries, db.Model(&models.Entry{}).Where("deleted = ?", true)},
		{&stats.TotalComments, db.Model(&models.Comment{}).Where("deleted = ?", false)},
		{&stats.TotalVotes, db.Model(&models.Vote{})},
		{&stats.TotalReports, db.Model(&models.Report{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// applyEntryDetails adds subqueries to fetch ledger tallies in a single query.
func (r *entryRepository) applyEntryDetails(db *gorm.DB) *gorm.DB {
	selectQuery := "entries.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entry_id = entries.id AND votes.vote = 1) as tallied_upvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entry_id = entries.id AND votes.vote = -1) as tallied_downvotes, " +
		"(SELECT COUNT(*) FROM reports WHERE reports.entry_id = entries.id) as report_count"
	return db.Select(selectQuery)
}
