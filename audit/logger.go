// Package audit keeps the trail of administrative mutations. Writes are
// best-effort: a failed write is logged and counted but never returned as an
// error to the action being audited.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/userctx"
)

const (
	DefaultCollection    = "audit_logs"
	DefaultRetentionDays = 365
	DefaultBatchSize     = 500
	DefaultLimit         = 100
)

// Result is the outcome of a write. Err is nil on success.
type Result struct {
	RecordID string
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

// Filters narrows Query. Zero-valued fields are ignored; the rest are ANDed.
// Start and End are both inclusive.
type Filters struct {
	TargetID      string
	AdminIdentity string
	ActionKind    ActionKind
	Start         time.Time
	End           time.Time
	Limit         int
}

// Logger writes and reads audit records in a single collection. It is safe for
// concurrent use.
type Logger struct {
	store         docstore.Store
	collection    string
	retentionDays int
	batchSize     int
	defaultLimit  int
	logger        zerolog.Logger
	metrics       *Metrics
	now           func() time.Time
}

type Option func(*Logger)

func WithCollection(name string) Option {
	return func(l *Logger) {
		if name != "" {
			l.collection = name
		}
	}
}

func WithRetentionDays(days int) Option {
	return func(l *Logger) {
		if days > 0 {
			l.retentionDays = days
		}
	}
}

// WithBatchSize bounds the number of deletes issued per purge round trip.
func WithBatchSize(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

func WithDefaultLimit(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.defaultLimit = n
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Logger) { l.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(l *Logger) { l.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger returns a Logger over store. It performs no I/O; the collection
// is created by the store on the first append.
func NewLogger(store docstore.Store, opts ...Option) *Logger {
	l := &Logger{
		store:         store,
		collection:    DefaultCollection,
		retentionDays: DefaultRetentionDays,
		batchSize:     DefaultBatchSize,
		defaultLimit:  DefaultLimit,
		logger:        log.Logger,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With().Str("component", "audit").Str("collection", l.collection).Logger()
	return l
}

// timestamp is the record time at millisecond precision. SQLite julianday
// and BSON dates both compare at that precision, so stored timestamps sit on
// the millisecond grid and query bounds are snapped onto it.
func (l *Logger) timestamp() time.Time {
	return l.now().UTC().Truncate(time.Millisecond)
}

// ceilMillis rounds t up to the next whole millisecond.
func ceilMillis(t time.Time) time.Time {
	if tr := t.Truncate(time.Millisecond); !tr.Equal(t) {
		return tr.Add(time.Millisecond)
	}
	return t
}

func (l *Logger) Collection() string { return l.collection }

func (l *Logger) RetentionDays() int { return l.retentionDays }

// RecordCreation records a create. The summary must carry an ID and a label.
func (l *Logger) RecordCreation(ctx context.Context, admin string, summary CreationSummary, origin string) Result {
	now := l.timestamp()
	rec := l.newRecord(ctx, now, admin, ActionCreate, summary.ID, summary.Label, origin)
	rec.Details = creationDetails(summary, now.Format(time.RFC3339))

	if summary.ID == "" || summary.Label == "" {
		return l.fail(rec, fmt.Errorf("creation summary needs an id and a label: %w", ErrMalformedRecord))
	}
	return l.write(ctx, rec)
}

// RecordUpdate records an update. Only the post-update values in changes are
// kept, and fields_modified is the sorted list of their keys.
func (l *Logger) RecordUpdate(ctx context.Context, admin, targetID, targetLabel string, changes map[string]any, collection, origin string) Result {
	now := l.timestamp()
	rec := l.newRecord(ctx, now, admin, ActionUpdate, targetID, targetLabel, origin)
	rec.Details = updateDetails(changes, collection, now.Format(time.RFC3339))

	if _, err := json.Marshal(changes); err != nil {
		return l.fail(rec, fmt.Errorf("changes are not serializable: %w", errors.Join(ErrMalformedRecord, err)))
	}
	return l.write(ctx, rec)
}

// RecordDeletion records a delete together with every collection it touched.
func (l *Logger) RecordDeletion(ctx context.Context, admin, targetID, targetLabel string, affected []string, cascade bool, origin string) Result {
	now := l.timestamp()
	rec := l.newRecord(ctx, now, admin, ActionDelete, targetID, targetLabel, origin)
	rec.Details = DeleteDetails{
		DeletedID:          targetID,
		DeletedLabel:       targetLabel,
		DeletedCollections: append([]string{}, affected...),
		Cascade:            cascade,
		DeletedAt:          now.Format(time.RFC3339),
	}
	return l.write(ctx, rec)
}

func (l *Logger) newRecord(ctx context.Context, now time.Time, admin string, kind ActionKind, targetID, targetLabel, origin string) Record {
	return Record{
		Timestamp:     now,
		AdminIdentity: admin,
		ActionKind:    kind,
		TargetID:      targetID,
		TargetLabel:   targetLabel,
		OriginAddress: origin,
		SchemaVersion: SchemaVersion,
		SessionToken:  userctx.GetSessionToken(ctx),
	}
}

func (l *Logger) write(ctx context.Context, rec Record) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = l.fail(rec, fmt.Errorf("audit write panicked: %v", p))
		}
	}()

	if err := rec.validate(); err != nil {
		return l.fail(rec, err)
	}

	id, err := l.store.Add(ctx, l.collection, rec.document())
	if err != nil {
		return l.fail(rec, fmt.Errorf("failed to append audit record: %w", err))
	}

	l.metrics.incWritten(rec.ActionKind)
	l.logger.Info().
		Str("record_id", id).
		Str("action", string(rec.ActionKind)).
		Str("target_id", rec.TargetID).
		Str("admin", rec.AdminIdentity).
		Msg("audit record written")
	return Result{RecordID: id}
}

func (l *Logger) fail(rec Record, err error) Result {
	l.metrics.incWriteFailure(rec.ActionKind)
	l.logger.Error().
		Err(err).
		Str("action", string(rec.ActionKind)).
		Str("admin", rec.AdminIdentity).
		Str("target_id", rec.TargetID).
		Str("target_label", rec.TargetLabel).
		Str("origin", rec.OriginAddress).
		Time("timestamp", rec.Timestamp).
		Interface("details", rec.Details).
		Msg("failed to write audit record")
	return Result{Err: err}
}

// Query returns matching records, newest first. A store failure yields an
// empty slice and an error log.
func (l *Logger) Query(ctx context.Context, f Filters) []Record {
	q := docstore.Query{
		Collection: l.collection,
		OrderBy:    "timestamp",
		Descending: true,
		Limit:      f.Limit,
	}
	if q.Limit <= 0 {
		q.Limit = l.defaultLimit
	}
	if f.TargetID != "" {
		q.Filters = append(q.Filters, docstore.Where("target_id", docstore.OpEqual, f.TargetID))
	}
	if f.AdminIdentity != "" {
		q.Filters = append(q.Filters, docstore.Where("admin_identity", docstore.OpEqual, f.AdminIdentity))
	}
	if f.ActionKind != "" {
		q.Filters = append(q.Filters, docstore.Where("action_kind", docstore.OpEqual, string(f.ActionKind)))
	}
	if !f.Start.IsZero() {
		q.Filters = append(q.Filters, docstore.Where("timestamp", docstore.OpGreaterOrEqual, ceilMillis(f.Start.UTC())))
	}
	if !f.End.IsZero() {
		q.Filters = append(q.Filters, docstore.Where("timestamp", docstore.OpLessOrEqual, f.End.UTC().Truncate(time.Millisecond)))
	}

	docs, err := l.store.Query(ctx, q)
	if err != nil {
		l.metrics.incQueryFailure()
		l.logger.Error().Err(err).Interface("filters", f).Msg("failed to query audit records")
		return []Record{}
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeRecord(doc)
		if err != nil {
			l.logger.Warn().Err(err).Str("record_id", doc.ID).Msg("skipping unreadable audit record")
			continue
		}
		records = append(records, rec)
	}

	l.logger.Debug().Int("count", len(records)).Msg("audit records retrieved")
	return records
}

// PurgeOlderThan deletes records with a timestamp before now minus
// retentionDays, in batches. A non-positive retentionDays uses the configured
// retention. It returns the number of records actually deleted, including on
// partial failure.
func (l *Logger) PurgeOlderThan(ctx context.Context, retentionDays int) int {
	if retentionDays <= 0 {
		retentionDays = l.retentionDays
	}
	cutoff := ceilMillis(l.now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour))
	logger := l.logger.With().Int("retention_days", retentionDays).Time("cutoff", cutoff).Logger()

	deleted := 0
	defer func() { l.metrics.addPurged(deleted) }()

	for {
		docs, err := l.store.Query(ctx, docstore.Query{
			Collection: l.collection,
			Filters:    []docstore.Filter{docstore.Where("timestamp", docstore.OpLess, cutoff)},
			Limit:      l.batchSize,
		})
		if err != nil {
			logger.Error().Err(err).Int("deleted", deleted).Msg("failed to list expired audit records")
			return deleted
		}
		if len(docs) == 0 {
			break
		}

		ids := make([]string, len(docs))
		for i, doc := range docs {
			ids[i] = doc.ID
		}

		n, err := l.store.DeleteBatch(ctx, l.collection, ids)
		deleted += n
		if err != nil {
			logger.Error().Err(err).Int("deleted", deleted).Msg("failed to delete expired audit records")
			return deleted
		}
		if n == 0 {
			logger.Warn().Int("candidates", len(ids)).Msg("purge batch deleted nothing, stopping")
			break
		}
	}

	logger.Info().Int("deleted", deleted).Msg("purged expired audit records")
	return deleted
}
