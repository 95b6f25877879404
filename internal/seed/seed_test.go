package seed

import (
	"testing"

	"murmur/internal/database"
	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{
		NumEntries:        10,
		CommentsPerEntry:  4,
		VotersPerEntry:    6,
		ReportedShare:     1.0,
		IncludeRecycleBin: true,
	})
	require.NoError(t, err)

	var entries int64
	db.Model(&models.Entry{}).Count(&entries)
	assert.Equal(t, int64(10), entries)

	var reports int64
	db.Model(&models.Report{}).Count(&reports)
	assert.Positive(t, reports, "every entry had a report chance of 1.0")

	var binned int64
	db.Model(&models.Entry{}).Where("deleted = ?", true).Count(&binned)
	assert.Equal(t, int64(1), binned)
}

func TestSeedCleanWipesPreviousRun(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumEntries: 5, CommentsPerEntry: 2, VotersPerEntry: 2}))
	require.NoError(t, Seed(db, Options{NumEntries: 3, ShouldClean: true}))

	var entries int64
	db.Model(&models.Entry{}).Count(&entries)
	assert.Equal(t, int64(3), entries)

	var comments int64
	db.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, comments)
}

func TestFactoryVotesAreDistinctVisitors(t *testing.T) {
	db := setupSeedDB(t)
	f := NewFactory(db)

	entries, err := f.CreateEntries(1)
	require.NoError(t, err)

	n, err := f.CastVotes(entries[0], 20)
	require.NoError(t, err)
	assert.Equal(t, 20, n, "unique identifiers never collide on the ledger index")
}
