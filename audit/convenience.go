package audit

import (
	"context"

	"github.com/vneid/admin-dashboard/docstore"
)

// The functions below build a Logger with default settings for one-off calls,
// such as scripts that hold only a store handle.

func RecordCreation(ctx context.Context, store docstore.Store, admin string, summary CreationSummary, origin string) bool {
	return NewLogger(store).RecordCreation(ctx, admin, summary, origin).OK()
}

func RecordUpdate(ctx context.Context, store docstore.Store, admin, targetID, targetLabel string, changes map[string]any, collection, origin string) bool {
	return NewLogger(store).RecordUpdate(ctx, admin, targetID, targetLabel, changes, collection, origin).OK()
}

func RecordDeletion(ctx context.Context, store docstore.Store, admin, targetID, targetLabel string, affected []string, cascade bool, origin string) bool {
	return NewLogger(store).RecordDeletion(ctx, admin, targetID, targetLabel, affected, cascade, origin).OK()
}

func Query(ctx context.Context, store docstore.Store, f Filters) []Record {
	return NewLogger(store).Query(ctx, f)
}

func PurgeOlderThan(ctx context.Context, store docstore.Store, retentionDays int) int {
	return NewLogger(store).PurgeOlderThan(ctx, retentionDays)
}
