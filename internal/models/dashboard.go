package models

// DashboardStats is the aggregate counters block of the admin dashboard.
type DashboardStats struct {
	TotalEntries    int64 `json:"total_entries"`
	ActiveEntries   int64 `json:"active_entries"`
	ArchivedEntries int64 `json:"archived_entries"`
	DeletedEntries  int64 `json:"deleted_entries"`
	TotalComments   int64 `json:"total_comments"`
	TotalVotes      int64 `json:"total_votes"`
	TotalReports    int64 `json:"total_reports"`
}

// Dashboard is the full admin dashboard payload.
type Dashboard struct {
	Stats           DashboardStats `json:"stats"`
	FlaggedEntries  []FlaggedItem  `json:"flagged_entries"`
	FlaggedComments []FlaggedItem  `json:"flagged_comments"`
	RecycleBin      []*EntryView   `json:"recycle_bin"`
}
