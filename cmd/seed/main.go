// Command main runs the database seeder for Murmur.
package main

import (
	"flag"
	"log"

	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/seed"
)

func main() {
	numEntries := flag.Int("entries", 50, "Number of entries to create")
	commentsPer := flag.Int("comments", 5, "Max comments per entry")
	votersPer := flag.Int("voters", 10, "Max voters per entry")
	reportedShare := flag.Float64("reported", 0.2, "Share of entries that receive reports")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d entries, clean=%v\n", *numEntries, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(database.DB, seed.Options{
		NumEntries:        *numEntries,
		CommentsPerEntry:  *commentsPer,
		VotersPerEntry:    *votersPer,
		ReportedShare:     *reportedShare,
		ShouldClean:       *shouldClean,
		IncludeRecycleBin: true,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
}
