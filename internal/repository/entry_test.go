package repository

import (
	"context"
	"testing"
	"time"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		entry := makeEntry(t, db, "hello board")

		fetched, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello board", fetched.Content)
		assert.Equal(t, 0, fetched.TalliedUpvotes)
		assert.Equal(t, 0, fetched.ReportCount)

		byUnique, err := repo.GetByUniqueID(ctx, entry.UniqueID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, byUnique.ID)
	})

	t.Run("GetIncludesLedgerTallies", func(t *testing.T) {
		entry := makeEntry(t, db, "tallied")
		db.Create(cookieVote(entry.ID, "c1", models.VoteUp))
		db.Create(cookieVote(entry.ID, "c2", models.VoteUp))
		db.Create(cookieVote(entry.ID, "c3", models.VoteDown))
		db.Create(&models.Report{EntryID: entry.ID, Identifier: "c1", IdentifierType: models.IdentifierCookie})

		fetched, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, fetched.TalliedUpvotes)
		assert.Equal(t, 1, fetched.TalliedDownvotes)
		assert.Equal(t, 1, fetched.ReportCount)
	})

	t.Run("ListOrdersPinnedFirstThenNewest", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewEntryRepository(db)

		older := makeEntry(t, db, "older")
		pinned := makeEntry(t, db, "pinned")
		newest := makeEntry(t, db, "newest")
		require.NoError(t, db.Model(pinned).Update("is_pinned", true).Error)

		entries, err := repo.List(ctx, 20, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, pinned.ID, entries[0].ID)
		assert.Equal(t, newest.ID, entries[1].ID)
		assert.Equal(t, older.ID, entries[2].ID)
	})

	t.Run("ListExcludesArchivedAndDeleted", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewEntryRepository(db)

		live := makeEntry(t, db, "live")
		archived := makeEntry(t, db, "archived")
		deleted := makeEntry(t, db, "deleted")
		now := time.Now()
		require.NoError(t, db.Model(archived).Updates(map[string]interface{}{"archived": true, "archived_at": now}).Error)
		require.NoError(t, db.Model(deleted).Updates(map[string]interface{}{"deleted": true, "deleted_at": now}).Error)

		entries, err := repo.List(ctx, 20, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, live.ID, entries[0].ID)
	})

	t.Run("IncrementViewCount", func(t *testing.T) {
		entry := makeEntry(t, db, "viewed")
		require.NoError(t, repo.IncrementViewCount(ctx, entry.ID))
		require.NoError(t, repo.IncrementViewCount(ctx, entry.ID))

		fetched, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, fetched.ViewCount)
	})

	t.Run("ExpiredDeleted", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewEntryRepository(db)

		old := makeEntry(t, db, "expired")
		recent := makeEntry(t, db, "still held")
		longAgo := time.Now().Add(-8 * 24 * time.Hour)
		justNow := time.Now()
		require.NoError(t, db.Model(old).Updates(map[string]interface{}{"deleted": true, "deleted_at": longAgo}).Error)
		require.NoError(t, db.Model(recent).Updates(map[string]interface{}{"deleted": true, "deleted_at": justNow}).Error)

		expired, err := repo.ExpiredDeleted(ctx, time.Now().Add(-7*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, old.ID, expired[0].ID)
	})

	t.Run("HardDeleteCascades", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewEntryRepository(db)

		entry := makeEntry(t, db, "doomed")
		comment := makeComment(t, db, entry.ID, "doomed too")
		db.Create(cookieVote(entry.ID, "c1", models.VoteUp))
		db.Create(&models.Report{EntryID: entry.ID, Identifier: "c1", IdentifierType: models.IdentifierCookie})
		db.Create(&models.CommentVote{CommentID: comment.ID, Identifier: "c1", IdentifierType: models.IdentifierCookie, Value: models.VoteUp})
		db.Create(&models.CommentReport{CommentID: comment.ID, Identifier: "c1", IdentifierType: models.IdentifierCookie})

		require.NoError(t, repo.HardDelete(ctx, entry.ID))

		var count int64
		db.Model(&models.Entry{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.Comment{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.Vote{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.Report{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.CommentVote{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.CommentReport{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Stats", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewEntryRepository(db)

		live := makeEntry(t, db, "live")
		archived := makeEntry(t, db, "archived")
		require.NoError(t, db.Model(archived).Update("archived", true).Error)
		makeComment(t, db, live.ID, "a comment")
		db.Create(cookieVote(live.ID, "c1", models.VoteUp))
		db.Create(&models.Report{EntryID: live.ID, Identifier: "c1", IdentifierType: models.IdentifierCookie})

		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalEntries)
		assert.Equal(t, int64(1), stats.ActiveEntries)
		assert.Equal(t, int64(1), stats.ArchivedEntries)
		assert.Equal(t, int64(0), stats.DeletedEntries)
		assert.Equal(t, int64(1), stats.TotalComments)
		assert.Equal(t, int64(1), stats.TotalVotes)
		assert.Equal(t, int64(1), stats.TotalReports)
	})
}
