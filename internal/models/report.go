package models

import "time"

// Report is one abuse report on an entry. Reports are idempotent per
// identifier: the composite unique index guarantees a second report from
// the same visitor never creates a second row.
type Report struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	EntryID        uint           `gorm:"not null;uniqueIndex:idx_reports_target_identifier" json:"entry_id"`
	Identifier     string         `gorm:"size:128;not null;uniqueIndex:idx_reports_target_identifier" json:"-"`
	IdentifierType IdentifierType `gorm:"size:16;not null;uniqueIndex:idx_reports_target_identifier" json:"-"`
	Reason         string         `gorm:"size:500" json:"reason"`
	CreatedAt      time.Time      `json:"ts"`
}

// CommentReport is the comment-ledger counterpart of Report.
type CommentReport struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CommentID      uint           `gorm:"not null;uniqueIndex:idx_comment_reports_target_identifier" json:"comment_id"`
	Identifier     string         `gorm:"size:128;not null;uniqueIndex:idx_comment_reports_target_identifier" json:"-"`
	IdentifierType IdentifierType `gorm:"size:16;not null;uniqueIndex:idx_comment_reports_target_identifier" json:"-"`
	Reason         string         `gorm:"size:500" json:"reason"`
	CreatedAt      time.Time      `json:"ts"`
}

// FlaggedItem is one row of the admin dashboard report rollup.
type FlaggedItem struct {
	Type        string `json:"type"` // "entry" or "comment"
	TargetID    uint   `json:"target_id"`
	Upvotes     int    `json:"upvotes"`
	ReportCount int    `json:"report_count"`
	Reason      string `json:"reason"`
}
