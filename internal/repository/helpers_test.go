package repository

import (
	"testing"
	"time"

	"murmur/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Entry{},
		&models.Comment{},
		&models.Vote{},
		&models.CommentVote{},
		&models.Report{},
		&models.CommentReport{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func makeEntry(t *testing.T, db *gorm.DB, content string) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		UniqueID: uuid.NewString(),
		Content:  content,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	return entry
}

func makeComment(t *testing.T, db *gorm.DB, entryID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		EntryID:        entryID,
		Content:        content,
		Identifier:     "10.0.0.1",
		IdentifierType: models.IdentifierIP,
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return comment
}

func cookieVote(entryID uint, value string, dir int) *models.Vote {
	return &models.Vote{
		EntryID:        entryID,
		Identifier:     value,
		IdentifierType: models.IdentifierCookie,
		Value:          dir,
		CreatedAt:      time.Now(),
	}
}
