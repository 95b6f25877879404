// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumEntries        int
	CommentsPerEntry  int
	VotersPerEntry    int
	ReportedShare     float64
	ShouldClean       bool
	IncludeRecycleBin bool
}

var tagSets = []string{
	"confession,work", "rant", "advice,relationships", "funny", "late-night",
	"campus,overheard", "wholesome", "unpopular-opinion", "question", "vent,family",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d entries...", opts.NumEntries)

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	entries, err := f.CreateEntries(opts.NumEntries)
	if err != nil {
		return fmt.Errorf("failed to create entries: %w", err)
	}
	log.Printf("Created %d entries", len(entries))

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	var commentTotal, voteTotal, reportTotal int
	for _, entry := range entries {
		comments, err := f.CreateComments(entry, r.Intn(opts.CommentsPerEntry+1))
		if err != nil {
			return fmt.Errorf("failed to create comments: %w", err)
		}
		commentTotal += len(comments)

		votes, err := f.CastVotes(entry, r.Intn(opts.VotersPerEntry+1))
		if err != nil {
			return fmt.Errorf("failed to cast votes: %w", err)
		}
		voteTotal += votes

		if r.Float64() < opts.ReportedShare {
			reports, err := f.FileReports(entry, 1+r.Intn(2))
			if err != nil {
				return fmt.Errorf("failed to file reports: %w", err)
			}
			reportTotal += reports
		}
	}
	log.Printf("Created %d comments, %d votes, %d reports", commentTotal, voteTotal, reportTotal)

	if opts.IncludeRecycleBin && len(entries) > 2 {
		if err := f.MoveToRecycleBin(entries[len(entries)-1]); err != nil {
			return fmt.Errorf("failed to populate recycle bin: %w", err)
		}
		log.Println("Moved one entry to the recycle bin")
	}

	log.Println("Seeding complete")
	return nil
}

// ClearAll removes all seeded rows. Ledger tables go first so the
// foreign keys never dangle mid-wipe.
func ClearAll(db *gorm.DB) error {
	tables := []interface{}{
		&models.CommentVote{},
		&models.CommentReport{},
		&models.Vote{},
		&models.Report{},
		&models.Comment{},
		&models.Entry{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
