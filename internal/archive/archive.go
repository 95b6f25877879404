// Package archive persists snapshots of entries pulled from public view by
// the moderation policy, plus an append-only audit log of those actions.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"murmur/internal/models"
)

// Snapshot is the on-disk JSON shape of an archived entry.
type Snapshot struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	Tags       string    `json:"tags"`
	TS         time.Time `json:"ts"`
	ArchivedAt time.Time `json:"archived_at"`
	Reports    int       `json:"reports"`
	Upvotes    int       `json:"upvotes"`
}

// Result reports the outcome of both side-channel writes. Either write can
// fail without affecting the other, and neither failure rolls back the
// archival itself.
type Result struct {
	SnapshotPath string
	SnapshotErr  error
	AuditErr     error
}

// Archiver writes snapshots and audit lines under its configured directories.
type Archiver struct {
	dir    string
	logDir string
}

// New creates an Archiver. Directories are created lazily on first write.
func New(dir, logDir string) *Archiver {
	return &Archiver{dir: dir, logDir: logDir}
}

// Write records one archival: a snapshot file named after the entry id and an
// audit line appended to the shared log.
func (a *Archiver) Write(entry *models.Entry, archivedAt time.Time, reports, upvotes int) Result {
	var res Result

	snap := Snapshot{
		ID:         entry.ID,
		Content:    entry.Content,
		Tags:       entry.Tags,
		TS:         entry.CreatedAt,
		ArchivedAt: archivedAt,
		Reports:    reports,
		Upvotes:    upvotes,
	}

	res.SnapshotPath = filepath.Join(a.dir, fmt.Sprintf("entry-%d.json", entry.ID))
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		res.SnapshotErr = err
	} else if data, err := json.MarshalIndent(snap, "", "  "); err != nil {
		res.SnapshotErr = err
	} else if err := os.WriteFile(res.SnapshotPath, data, 0o644); err != nil {
		res.SnapshotErr = err
	}

	res.AuditErr = a.appendAudit(entry.ID, archivedAt, reports, upvotes)
	return res
}

func (a *Archiver) appendAudit(entryID uint, archivedAt time.Time, reports, upvotes int) error {
	if err := os.MkdirAll(a.logDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(a.logDir, "archive.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s ARCHIVE entry %d reports=%d upvotes=%d\n",
		archivedAt.UTC().Format(time.RFC3339), entryID, reports, upvotes)
	_, err = f.WriteString(line)
	return err
}
