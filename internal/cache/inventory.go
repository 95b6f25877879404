package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	EntryKeyPrefix    = "entry:%d"
	EntriesListPrefix = "entries:list:%d:%d"
	CommentsKeyPrefix = "entry:%d:comments"
	DashboardKey      = "admin:dashboard"
)

const (
	EntryTTL     = 5 * time.Minute
	ListTTL      = 30 * time.Second
	CommentsTTL  = 1 * time.Minute
	DashboardTTL = 15 * time.Second
)

func EntryKey(entryID uint) string {
	return fmt.Sprintf(EntryKeyPrefix, entryID)
}

func EntriesListKey(limit, offset int) string {
	return fmt.Sprintf(EntriesListPrefix, limit, offset)
}

func CommentsKey(entryID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, entryID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateEntry drops the single entry key plus its comment thread.
func InvalidateEntry(ctx context.Context, entryID uint) {
	Invalidate(ctx, EntryKey(entryID))
	Invalidate(ctx, CommentsKey(entryID))
}

// InvalidateEntriesList drops every cached page of the public listing.
// Paged keys share the entries:list: prefix so a SCAN covers them all.
func InvalidateEntriesList(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "entries:list:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateDashboard(ctx context.Context) {
	Invalidate(ctx, DashboardKey)
}
