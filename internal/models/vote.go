package models

import "time"

// Vote values accepted by both ledgers.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one signed vote on an entry. The composite unique index is the
// invariant enforcement mechanism: at most one row per
// (entry, identifier, identifier type) regardless of concurrent casts.
type Vote struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	EntryID        uint           `gorm:"not null;uniqueIndex:idx_votes_target_identifier" json:"entry_id"`
	Identifier     string         `gorm:"size:128;not null;uniqueIndex:idx_votes_target_identifier" json:"-"`
	IdentifierType IdentifierType `gorm:"size:16;not null;uniqueIndex:idx_votes_target_identifier" json:"-"`
	Value          int            `gorm:"column:vote;not null" json:"vote"`
	CreatedAt      time.Time      `json:"ts"`
}

// CommentVote is the comment-ledger counterpart of Vote.
type CommentVote struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CommentID      uint           `gorm:"not null;uniqueIndex:idx_comment_votes_target_identifier" json:"comment_id"`
	Identifier     string         `gorm:"size:128;not null;uniqueIndex:idx_comment_votes_target_identifier" json:"-"`
	IdentifierType IdentifierType `gorm:"size:16;not null;uniqueIndex:idx_comment_votes_target_identifier" json:"-"`
	Value          int            `gorm:"column:vote;not null" json:"vote"`
	CreatedAt      time.Time      `json:"ts"`
}

// Tally holds aggregate counts for one vote ledger target.
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}
