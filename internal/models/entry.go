// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Entry represents an anonymous submission on the board.
//
// Upvotes/Downvotes are stored override counters: they are ignored for
// display until an admin adjusts votes, which sets Manipulated. From that
// point on the stored counters are authoritative and the vote ledger is
// only consulted for deduplication, never for display.
type Entry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UniqueID string `gorm:"uniqueIndex;size:36;not null" json:"unique_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Tags     string `json:"tags"`
	// Images holds up to three stored media references, comma-joined.
	Images string `json:"-"`
	Video  string `json:"video"`

	Upvotes   int `gorm:"default:0" json:"-"`
	Downvotes int `gorm:"default:0" json:"-"`

	Archived      bool       `gorm:"default:false;index" json:"archived"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	Deleted       bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	IsPinned      bool       `gorm:"default:false" json:"is_pinned"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	Manipulated   bool       `gorm:"default:false" json:"manipulated"`
	ManipulatedAt *time.Time `json:"manipulated_at,omitempty"`

	// BrowserInfo is an opaque submitter metadata blob, admin-only.
	BrowserInfo string    `json:"-"`
	CreatedAt   time.Time `json:"ts"`

	// TalliedUpvotes is not persisted; computed from the vote ledger at query time
	TalliedUpvotes int `gorm:"->" json:"-"`
	// TalliedDownvotes is not persisted; computed from the vote ledger at query time
	TalliedDownvotes int `gorm:"->" json:"-"`
	// ReportCount is not persisted; computed from the report ledger at query time
	ReportCount int `gorm:"->" json:"-"`
}

// ImageList splits the comma-joined stored references into a slice.
func (e *Entry) ImageList() []string {
	if e.Images == "" {
		return []string{}
	}
	return strings.Split(e.Images, ",")
}

// DisplayUpvotes returns the upvote count shown to clients: the stored
// override counter once the entry is manipulated, the ledger tally otherwise.
func (e *Entry) DisplayUpvotes() int {
	if e.Manipulated {
		return e.Upvotes
	}
	return e.TalliedUpvotes
}

// DisplayDownvotes is the downvote counterpart of DisplayUpvotes.
func (e *Entry) DisplayDownvotes() int {
	if e.Manipulated {
		return e.Downvotes
	}
	return e.TalliedDownvotes
}

// EntryView is the public JSON shape of an entry.
type EntryView struct {
	ID          uint      `json:"id"`
	UniqueID    string    `json:"unique_id"`
	Content     string    `json:"content"`
	Tags        string    `json:"tags"`
	Images      []string  `json:"images"`
	Video       string    `json:"video"`
	TS          time.Time `json:"ts"`
	IsPinned    bool      `json:"is_pinned"`
	ViewCount   int       `json:"view_count"`
	Manipulated bool      `json:"manipulated"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	Reports     int       `json:"reports"`
}

// View builds the public projection, applying the manipulated override.
func (e *Entry) View() *EntryView {
	return &EntryView{
		ID:          e.ID,
		UniqueID:    e.UniqueID,
		Content:     e.Content,
		Tags:        e.Tags,
		Images:      e.ImageList(),
		Video:       e.Video,
		TS:          e.CreatedAt,
		IsPinned:    e.IsPinned,
		ViewCount:   e.ViewCount,
		Manipulated: e.Manipulated,
		Upvotes:     e.DisplayUpvotes(),
		Downvotes:   e.DisplayDownvotes(),
		Reports:     e.ReportCount,
	}
}
