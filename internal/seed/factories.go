package seed

import (
	"fmt"
	"math/rand"
	"time"

	"murmur/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// BuildEntry constructs an entry without persisting it.
func (f *Factory) BuildEntry() *models.Entry {
	entry := &models.Entry{
		UniqueID: uuid.NewString(),
		Content:  gofakeit.Paragraph(1, 2, 8, " "),
		Tags:     tagSets[f.r.Intn(len(tagSets))],
		BrowserInfo: fmt.Sprintf(`{"user_agent":%q,"accept_language":"en-US"}`,
			gofakeit.UserAgent()),
	}

	// realistic created_at spread over the last month
	daysBack := f.r.Intn(30)
	hoursBack := f.r.Intn(24)
	entry.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	return entry
}

// CreateEntries persists n generated entries in a single batch.
func (f *Factory) CreateEntries(n int) ([]*models.Entry, error) {
	entries := make([]*models.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, f.BuildEntry())
	}
	if len(entries) == 0 {
		return entries, nil
	}
	if err := f.db.Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateComments attaches n generated comments to the entry.
func (f *Factory) CreateComments(entry *models.Entry, n int) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0, n)
	for i := 0; i < n; i++ {
		comments = append(comments, &models.Comment{
			EntryID:        entry.ID,
			Content:        gofakeit.Sentence(f.r.Intn(12) + 3),
			Identifier:     gofakeit.UUID(),
			IdentifierType: models.IdentifierCookie,
			CreatedAt:      entry.CreatedAt.Add(time.Duration(i+1) * time.Minute),
		})
	}
	if len(comments) == 0 {
		return comments, nil
	}
	if err := f.db.Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CastVotes casts n votes on the entry from distinct synthetic visitors,
// skewed toward upvotes the way live traffic is.
func (f *Factory) CastVotes(entry *models.Entry, n int) (int, error) {
	votes := make([]*models.Vote, 0, n)
	for i := 0; i < n; i++ {
		value := models.VoteUp
		if f.r.Float64() < 0.3 {
			value = models.VoteDown
		}
		votes = append(votes, &models.Vote{
			EntryID:        entry.ID,
			Identifier:     gofakeit.UUID(),
			IdentifierType: models.IdentifierCookie,
			Value:          value,
		})
	}
	if len(votes) == 0 {
		return 0, nil
	}
	if err := f.db.Create(&votes).Error; err != nil {
		return 0, err
	}
	return len(votes), nil
}

// FileReports files n reports on the entry from distinct synthetic visitors.
func (f *Factory) FileReports(entry *models.Entry, n int) (int, error) {
	reasons := []string{"spam", "harassment", "off topic", "doxxing", ""}
	reports := make([]*models.Report, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, &models.Report{
			EntryID:        entry.ID,
			Identifier:     gofakeit.UUID(),
			IdentifierType: models.IdentifierIP,
			Reason:         reasons[f.r.Intn(len(reasons))],
		})
	}
	if len(reports) == 0 {
		return 0, nil
	}
	if err := f.db.Create(&reports).Error; err != nil {
		return 0, err
	}
	return len(reports), nil
}

// MoveToRecycleBin soft-deletes the entry so the admin dashboard has
// something in its bin out of the box.
func (f *Factory) MoveToRecycleBin(entry *models.Entry) error {
	now := time.Now()
	return f.db.Model(entry).Updates(map[string]interface{}{
		"deleted":    true,
		"deleted_at": now,
	}).Error
}
