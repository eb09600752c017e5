package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vneid/admin-dashboard/database"
	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/docstore/mocks"
	"github.com/vneid/admin-dashboard/userctx"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestStore(t *testing.T) docstore.Store {
	db, err := database.Open(filepath.Join(t.TempDir(), "audit_test.db"))
	require.NoError(t, err)

	store := docstore.NewSQLite(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestLogger(store docstore.Store, clock *testClock, opts ...Option) *Logger {
	opts = append([]Option{WithClock(clock.Now), WithLogger(zerolog.Nop())}, opts...)
	return NewLogger(store, opts...)
}

func countRecords(t *testing.T, store docstore.Store) int {
	n, err := store.Count(context.Background(), docstore.Query{Collection: DefaultCollection})
	require.NoError(t, err)
	return n
}

func userSummary(id, name string) CreationSummary {
	return CreationSummary{
		ID:      id,
		Label:   name,
		Profile: map[string]string{"full_name": name, "citizen_id": id},
		Related: []RelatedEntity{
			{Name: "citizen_card", Created: true, Summary: map[string]string{"citizen_id": id}},
			{Name: "residence", Created: false},
		},
	}
}

func TestLogger_WritesOneRecordPerCall(t *testing.T) {
	store := setupTestStore(t)
	clock := &testClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	logger := newTestLogger(store, clock)
	ctx := context.Background()

	tests := []struct {
		name  string
		kind  ActionKind
		write func() Result
	}{
		{"creation", ActionCreate, func() Result {
			return logger.RecordCreation(ctx, "a@x.com", userSummary("u1", "Nguyen Van A"), "10.0.0.1")
		}},
		{"update", ActionUpdate, func() Result {
			return logger.RecordUpdate(ctx, "a@x.com", "u1", "Nguyen Van A", map[string]any{"email": "a@b.vn"}, "users", "10.0.0.1")
		}},
		{"deletion", ActionDelete, func() Result {
			return logger.RecordDeletion(ctx, "a@x.com", "u1", "Nguyen Van A", []string{"users", "citizen_cards"}, true, "10.0.0.1")
		}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(time.Minute)
			before := countRecords(t, store)

			res := tt.write()
			require.True(t, res.OK(), "write failed: %v", res.Err)
			assert.NotEmpty(t, res.RecordID)
			assert.Equal(t, before+1, countRecords(t, store))

			records := logger.Query(ctx, Filters{Limit: 1})
			require.Len(t, records, 1)
			assert.Equal(t, res.RecordID, records[0].ID)
			assert.Equal(t, tt.kind, records[0].ActionKind)
			assert.Equal(t, tt.kind, records[0].Details.Kind())
			assert.Equal(t, SchemaVersion, records[0].SchemaVersion)
			assert.Equal(t, "10.0.0.1", records[0].OriginAddress)
			assert.True(t, clock.Now().Equal(records[0].Timestamp))
			assert.Equal(t, i+1, countRecords(t, store))
		})
	}
}

func TestLogger_StoreFailureReturnsFalse(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now().UTC()}

	failures := []error{docstore.ErrUnavailable, docstore.ErrPermissionDenied, docstore.ErrMalformed}
	for _, storeErr := range failures {
		t.Run(storeErr.Error(), func(t *testing.T) {
			store := mocks.NewMockStore(t)
			store.EXPECT().Add(mock.Anything, DefaultCollection, mock.Anything).Return("", storeErr).Times(3)

			metrics := NewMetrics(prometheus.NewRegistry())
			logger := newTestLogger(store, clock, WithMetrics(metrics))

			results := []Result{
				logger.RecordCreation(ctx, "a@x.com", userSummary("u1", "A"), ""),
				logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"name": "B"}, "users", ""),
				logger.RecordDeletion(ctx, "a@x.com", "u1", "A", nil, false, ""),
			}
			for _, res := range results {
				assert.False(t, res.OK())
				assert.ErrorIs(t, res.Err, storeErr)
				assert.Empty(t, res.RecordID)
			}

			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WriteFailures.WithLabelValues("create")))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WriteFailures.WithLabelValues("update")))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WriteFailures.WithLabelValues("delete")))
		})
	}
}

func TestLogger_StorePanicIsContained(t *testing.T) {
	store := mocks.NewMockStore(t)
	store.EXPECT().Add(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string, any) (string, error) {
			panic("connection reset")
		})

	logger := newTestLogger(store, &testClock{now: time.Now()})

	var res Result
	assert.NotPanics(t, func() {
		res = logger.RecordDeletion(context.Background(), "a@x.com", "u1", "A", nil, false, "")
	})
	assert.False(t, res.OK())
}

func TestLogger_MalformedRecordsAreNotWritten(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore(t)
	logger := newTestLogger(store, &testClock{now: time.Now()})

	res := logger.RecordCreation(ctx, "a@x.com", CreationSummary{ID: "u1"}, "")
	assert.ErrorIs(t, res.Err, ErrMalformedRecord)
	assert.ErrorIs(t, res.Err, docstore.ErrMalformed)

	res = logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"bad": make(chan int)}, "users", "")
	assert.ErrorIs(t, res.Err, ErrMalformedRecord)

	res = logger.RecordDeletion(ctx, "a@x.com", "", "A", nil, false, "")
	assert.ErrorIs(t, res.Err, ErrMalformedRecord)

	res = logger.RecordDeletion(ctx, "", "u1", "A", nil, false, "")
	assert.ErrorIs(t, res.Err, ErrMalformedRecord)

	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecord_ValidateRejectsMismatchedDetails(t *testing.T) {
	rec := Record{
		AdminIdentity: "a@x.com",
		ActionKind:    ActionCreate,
		TargetID:      "u1",
		Details:       DeleteDetails{DeletedID: "u1"},
	}
	assert.ErrorIs(t, rec.validate(), ErrMalformedRecord)

	rec.ActionKind = "archive"
	assert.ErrorIs(t, rec.validate(), ErrMalformedRecord)

	rec.ActionKind = ActionDelete
	assert.NoError(t, rec.validate())
}

func TestLogger_QueryByActionKind(t *testing.T) {
	store := setupTestStore(t)
	clock := &testClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	logger := newTestLogger(store, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clock.Advance(time.Minute)
		require.True(t, logger.RecordCreation(ctx, "a@x.com", userSummary("u1", "A"), "").OK())
		clock.Advance(time.Minute)
		require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"name": "B"}, "users", "").OK())
		clock.Advance(time.Minute)
		require.True(t, logger.RecordDeletion(ctx, "b@x.com", "u2", "C", []string{"users"}, false, "").OK())
	}

	deletes := logger.Query(ctx, Filters{ActionKind: ActionDelete})
	require.Len(t, deletes, 3)
	for i, rec := range deletes {
		assert.Equal(t, ActionDelete, rec.ActionKind)
		if i > 0 {
			assert.True(t, rec.Timestamp.Before(deletes[i-1].Timestamp), "results are newest first")
		}
	}

	byAdmin := logger.Query(ctx, Filters{AdminIdentity: "a@x.com", ActionKind: ActionUpdate})
	assert.Len(t, byAdmin, 3)

	none := logger.Query(ctx, Filters{AdminIdentity: "b@x.com", ActionKind: ActionCreate})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLogger_QueryTimeRangeIsInclusive(t *testing.T) {
	store := setupTestStore(t)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{now: start}
	logger := newTestLogger(store, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		clock.now = start.Add(time.Duration(i) * time.Hour)
		require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"n": i}, "users", "").OK())
	}

	t1 := start.Add(1 * time.Hour)
	t2 := start.Add(3 * time.Hour)
	records := logger.Query(ctx, Filters{Start: t1, End: t2})
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.False(t, rec.Timestamp.Before(t1))
		assert.False(t, rec.Timestamp.After(t2))
	}
	assert.True(t, t2.Equal(records[0].Timestamp))
	assert.True(t, t1.Equal(records[2].Timestamp))
}

func TestLogger_QueryBoundsBelowOneMillisecond(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{}
	logger := newTestLogger(store, clock)
	ctx := context.Background()

	for _, offset := range []time.Duration{
		200 * time.Microsecond,
		1700 * time.Microsecond,
		2400 * time.Microsecond,
		3900 * time.Microsecond,
	} {
		clock.now = base.Add(offset)
		require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"n": offset.String()}, "users", "").OK())
	}

	all := logger.Query(ctx, Filters{})
	require.Len(t, all, 4)
	assert.True(t, base.Add(3*time.Millisecond).Equal(all[0].Timestamp), "stored at millisecond precision")

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"start 50us after a record", base.Add(time.Millisecond + 50*time.Microsecond), time.Time{}, 2},
		{"end 50us before a record", time.Time{}, base.Add(3*time.Millisecond - 50*time.Microsecond), 3},
		{"both bounds inside one millisecond", base.Add(2100 * time.Microsecond), base.Add(2900 * time.Microsecond), 0},
		{"bounds on stored instants", base.Add(time.Millisecond), base.Add(2 * time.Millisecond), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := logger.Query(ctx, Filters{Start: tt.start, End: tt.end})
			assert.Len(t, records, tt.want)
			for _, rec := range records {
				if !tt.start.IsZero() {
					assert.False(t, rec.Timestamp.Before(tt.start), "%s before start", rec.Timestamp)
				}
				if !tt.end.IsZero() {
					assert.False(t, rec.Timestamp.After(tt.end), "%s after end", rec.Timestamp)
				}
			}
		})
	}
}

func TestLogger_PurgeCutoffBelowOneMillisecond(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 700_000, time.UTC)
	day := 24 * time.Hour
	clock := &testClock{}
	logger := newTestLogger(store, clock)
	ctx := context.Background()

	clock.now = now.Add(-day - 400*time.Microsecond)
	require.True(t, logger.RecordDeletion(ctx, "a@x.com", "old", "A", nil, false, "").OK())
	clock.now = now.Add(-day + 400*time.Microsecond)
	require.True(t, logger.RecordDeletion(ctx, "a@x.com", "new", "B", nil, false, "").OK())
	clock.now = now

	assert.Equal(t, 1, logger.PurgeOlderThan(ctx, 1))

	cutoff := now.Add(-day)
	remaining := logger.Query(ctx, Filters{})
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].TargetID)
	assert.False(t, remaining[0].Timestamp.Before(cutoff))

	assert.Equal(t, 0, logger.PurgeOlderThan(ctx, 1))
}

func TestCeilMillis(t *testing.T) {
	exact := time.Date(2024, 6, 1, 0, 0, 0, 3_000_000, time.UTC)
	assert.Equal(t, exact, ceilMillis(exact))
	assert.Equal(t, exact, ceilMillis(exact.Add(-999*time.Microsecond)))
	assert.Equal(t, exact, ceilMillis(exact.Add(-time.Nanosecond)))
}

func TestLogger_QueryDefaultLimit(t *testing.T) {
	store := setupTestStore(t)
	clock := &testClock{now: time.Now().UTC()}
	logger := newTestLogger(store, clock, WithDefaultLimit(2))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		require.True(t, logger.RecordDeletion(ctx, "a@x.com", "u1", "A", nil, false, "").OK())
	}

	assert.Len(t, logger.Query(ctx, Filters{}), 2)
	assert.Len(t, logger.Query(ctx, Filters{Limit: 4}), 4)
}

func TestLogger_QueryFailureReturnsEmpty(t *testing.T) {
	store := mocks.NewMockStore(t)
	store.EXPECT().Query(mock.Anything, mock.Anything).Return(nil, docstore.ErrUnavailable)

	metrics := NewMetrics(prometheus.NewRegistry())
	logger := newTestLogger(store, &testClock{now: time.Now()}, WithMetrics(metrics))

	records := logger.Query(context.Background(), Filters{TargetID: "u1"})
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueryFailures))
}

func TestLogger_PurgeOlderThan(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &testClock{}
	metrics := NewMetrics(prometheus.NewRegistry())
	logger := newTestLogger(store, clock, WithBatchSize(2), WithMetrics(metrics))
	ctx := context.Background()

	ages := []time.Duration{400, 390, 380, 366, 364, 10, 0}
	for _, days := range ages {
		clock.now = now.Add(-days * 24 * time.Hour)
		require.True(t, logger.RecordDeletion(ctx, "a@x.com", "u1", "A", nil, false, "").OK())
	}
	clock.now = now

	before := countRecords(t, store)
	deleted := logger.PurgeOlderThan(ctx, 365)
	after := countRecords(t, store)

	assert.Equal(t, 4, deleted)
	assert.Equal(t, before-after, deleted)
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.RecordsPurged))

	cutoff := now.Add(-365 * 24 * time.Hour)
	remaining := logger.Query(ctx, Filters{})
	require.Len(t, remaining, 3)
	for _, rec := range remaining {
		assert.False(t, rec.Timestamp.Before(cutoff))
	}

	assert.Equal(t, 0, logger.PurgeOlderThan(ctx, 365), "a second purge finds nothing")
	assert.Equal(t, after, countRecords(t, store))
}

func TestLogger_PurgeUsesConfiguredRetention(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &testClock{now: now.Add(-31 * 24 * time.Hour)}
	logger := newTestLogger(store, clock, WithRetentionDays(30))
	ctx := context.Background()

	require.True(t, logger.RecordDeletion(ctx, "a@x.com", "u1", "A", nil, false, "").OK())
	clock.now = now
	require.True(t, logger.RecordDeletion(ctx, "a@x.com", "u2", "B", nil, false, "").OK())

	assert.Equal(t, 1, logger.PurgeOlderThan(ctx, 0))
	assert.Equal(t, 1, countRecords(t, store))
}

func TestLogger_PurgePartialFailure(t *testing.T) {
	store := mocks.NewMockStore(t)
	batch := []*docstore.Document{docstore.NewDocument("r1", nil), docstore.NewDocument("r2", nil)}

	store.EXPECT().Query(mock.Anything, mock.MatchedBy(func(q docstore.Query) bool {
		return q.Limit == 2 && len(q.Filters) == 1 && q.Filters[0].Op == docstore.OpLess
	})).Return(batch, nil).Once()
	store.EXPECT().DeleteBatch(mock.Anything, DefaultCollection, []string{"r1", "r2"}).Return(2, nil).Once()
	store.EXPECT().Query(mock.Anything, mock.Anything).Return(nil, docstore.ErrUnavailable).Once()

	logger := newTestLogger(store, &testClock{now: time.Now()}, WithBatchSize(2))
	assert.Equal(t, 2, logger.PurgeOlderThan(context.Background(), 30))
}

func TestLogger_PurgeStopsWhenNothingIsDeleted(t *testing.T) {
	store := mocks.NewMockStore(t)
	batch := []*docstore.Document{docstore.NewDocument("r1", nil)}

	store.EXPECT().Query(mock.Anything, mock.Anything).Return(batch, nil).Once()
	store.EXPECT().DeleteBatch(mock.Anything, DefaultCollection, []string{"r1"}).Return(0, nil).Once()

	logger := newTestLogger(store, &testClock{now: time.Now()})
	assert.Equal(t, 0, logger.PurgeOlderThan(context.Background(), 30))
}

func TestLogger_PurgeDeleteFailure(t *testing.T) {
	store := mocks.NewMockStore(t)
	batch := []*docstore.Document{docstore.NewDocument("r1", nil), docstore.NewDocument("r2", nil)}

	store.EXPECT().Query(mock.Anything, mock.Anything).Return(batch, nil).Once()
	store.EXPECT().DeleteBatch(mock.Anything, DefaultCollection, mock.Anything).
		Return(1, errors.New("bulk writer: 1 of 2 failed")).Once()

	logger := newTestLogger(store, &testClock{now: time.Now()})
	assert.Equal(t, 1, logger.PurgeOlderThan(context.Background(), 30))
}

func TestLogger_CreationWithNestedCitizenCard(t *testing.T) {
	store := setupTestStore(t)
	logger := newTestLogger(store, &testClock{now: time.Now().UTC()})
	ctx := context.Background()

	require.True(t, logger.RecordCreation(ctx, "a@x.com", userSummary("u1", "Nguyen Van A"), "").OK())
	require.True(t, logger.RecordCreation(ctx, "a@x.com", userSummary("u2", "Tran Thi B"), "").OK())

	records := logger.Query(ctx, Filters{TargetID: "u1"})
	require.Len(t, records, 1)

	details, ok := records[0].Details.(CreateDetails)
	require.True(t, ok)
	assert.True(t, details.RelatedEntitiesCreated["citizen_card"])
	assert.False(t, details.RelatedEntitiesCreated["residence"])
	assert.Equal(t, map[string]string{"citizen_id": "u1"}, details.RelatedEntities["citizen_card"])
	assert.NotContains(t, details.RelatedEntities, "residence")
	assert.Equal(t, "Nguyen Van A", details.Profile["full_name"])
	assert.Equal(t, "a@x.com", records[0].AdminIdentity)
	assert.Equal(t, "Nguyen Van A", records[0].TargetLabel)
}

func TestLogger_UpdateFieldsModified(t *testing.T) {
	store := setupTestStore(t)
	logger := newTestLogger(store, &testClock{now: time.Now().UTC()})
	ctx := context.Background()

	res := logger.RecordUpdate(ctx, "a@x.com", "u1", "Old Name", map[string]any{"name": "New Name"}, "users", "")
	require.True(t, res.OK())

	doc, err := store.Get(ctx, DefaultCollection, res.RecordID)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, doc.DataTo(&raw))
	details := raw["details"].(map[string]any)
	assert.Equal(t, []any{"name"}, details["fields_modified"])
	assert.Equal(t, map[string]any{"name": "New Name"}, details["changes"])
	assert.Equal(t, "users", details["updated_collection"])
	assert.NotContains(t, details, "deleted_id")

	records := logger.Query(ctx, Filters{TargetID: "u1", ActionKind: ActionUpdate})
	require.Len(t, records, 1)
	assert.Equal(t, []string{"name"}, records[0].Details.(UpdateDetails).FieldsModified)
}

func TestLogger_UpdateFieldsAreSorted(t *testing.T) {
	store := setupTestStore(t)
	logger := newTestLogger(store, &testClock{now: time.Now().UTC()})
	ctx := context.Background()

	require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"phone": "1", "email": "e", "address": "x"}, "users", "").OK())
	require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u2", "B", nil, "users", "").OK())

	rec := logger.Query(ctx, Filters{TargetID: "u1"})[0]
	assert.Equal(t, []string{"address", "email", "phone"}, rec.Details.(UpdateDetails).FieldsModified)

	empty := logger.Query(ctx, Filters{TargetID: "u2"})[0]
	assert.Empty(t, empty.Details.(UpdateDetails).FieldsModified)
}

func TestLogger_SessionTokenFromContext(t *testing.T) {
	store := setupTestStore(t)
	logger := newTestLogger(store, &testClock{now: time.Now().UTC()})
	ctx := userctx.SetSessionToken(context.Background(), "sess-42")

	require.True(t, logger.RecordDeletion(ctx, "a@x.com", "u1", "A", []string{"users"}, false, "").OK())

	records := logger.Query(ctx, Filters{TargetID: "u1"})
	require.Len(t, records, 1)
	assert.Equal(t, "sess-42", records[0].SessionToken)
	assert.Equal(t, DeleteDetails{
		DeletedID:          "u1",
		DeletedLabel:       "A",
		DeletedCollections: []string{"users"},
		DeletedAt:          records[0].Timestamp.Format(time.RFC3339),
	}, records[0].Details)
}

func TestLogger_MetricsOnSuccess(t *testing.T) {
	store := setupTestStore(t)
	metrics := NewMetrics(prometheus.NewRegistry())
	logger := newTestLogger(store, &testClock{now: time.Now().UTC()}, WithMetrics(metrics))
	ctx := context.Background()

	require.True(t, logger.RecordCreation(ctx, "a@x.com", userSummary("u1", "A"), "").OK())
	require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "A", map[string]any{"name": "B"}, "users", "").OK())
	require.True(t, logger.RecordUpdate(ctx, "a@x.com", "u1", "B", map[string]any{"name": "C"}, "users", "").OK())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecordsWritten.WithLabelValues("create")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RecordsWritten.WithLabelValues("update")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WriteFailures.WithLabelValues("update")))
}

func TestConvenienceFunctions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.True(t, RecordCreation(ctx, store, "a@x.com", userSummary("u1", "A"), ""))
	assert.True(t, RecordUpdate(ctx, store, "a@x.com", "u1", "A", map[string]any{"name": "B"}, "users", ""))
	assert.True(t, RecordDeletion(ctx, store, "a@x.com", "u1", "B", []string{"users"}, false, ""))
	assert.False(t, RecordDeletion(ctx, store, "a@x.com", "", "B", nil, false, ""))

	assert.Len(t, Query(ctx, store, Filters{TargetID: "u1"}), 3)
	assert.Equal(t, 0, PurgeOlderThan(ctx, store, 1))
}

func TestParseActionKind(t *testing.T) {
	k, err := ParseActionKind("delete")
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, k)

	k, err = ParseActionKind("")
	require.NoError(t, err)
	assert.Empty(t, k)

	_, err = ParseActionKind("archive")
	assert.Error(t, err)
}
