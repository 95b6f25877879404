package models

import "time"

// Comment is attached to exactly one entry. Comments have no recycle bin:
// the moderation policy hard-deletes the row when its report ratio is
// exceeded.
type Comment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	EntryID        uint           `gorm:"not null;index" json:"entry_id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Identifier     string         `gorm:"size:128;not null" json:"-"`
	IdentifierType IdentifierType `gorm:"size:16;not null" json:"-"`
	Deleted        bool           `gorm:"default:false" json:"-"`
	CreatedAt      time.Time      `json:"ts"`

	// TalliedUpvotes is not persisted; computed from the comment vote ledger
	TalliedUpvotes int `gorm:"->" json:"-"`
	// TalliedDownvotes is not persisted; computed from the comment vote ledger
	TalliedDownvotes int `gorm:"->" json:"-"`
	// ReportCount is not persisted; computed from the comment report ledger
	ReportCount int `gorm:"->" json:"-"`
}

// CommentView is the public JSON shape of a comment.
type CommentView struct {
	ID        uint      `json:"id"`
	EntryID   uint      `json:"entry_id"`
	Content   string    `json:"content"`
	TS        time.Time `json:"ts"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
}

// View builds the public projection of a comment.
func (c *Comment) View() *CommentView {
	return &CommentView{
		ID:        c.ID,
		EntryID:   c.EntryID,
		Content:   c.Content,
		TS:        c.CreatedAt,
		Upvotes:   c.TalliedUpvotes,
		Downvotes: c.TalliedDownvotes,
	}
}
