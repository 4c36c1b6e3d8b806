package storedb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewatch/storewatch/schema"
)

// newTestStore migrates and opens a throwaway SQLite store.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insertObservation(t *testing.T, s *Store, storeID string, ts time.Time, status schema.Status) {
	t.Helper()
	query := s.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, timestamp_utc, status) VALUES (?, ?, ?)", storeStatusTable))
	_, err := s.db.ExecContext(context.Background(), query, storeID, s.formatTime(ts), string(status))
	require.NoError(t, err)
}

// TestListStoreIDs tests distinct, sorted store id listing.
func TestListStoreIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)

	insertObservation(t, store, "b", now, schema.ActiveStatus)
	insertObservation(t, store, "a", now, schema.ActiveStatus)
	insertObservation(t, store, "a", now.Add(time.Minute), schema.InactiveStatus)

	ids, err := store.ListStoreIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

// TestGetObservationsPadding tests range padding with the nearest neighbors.
func TestGetObservationsPadding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)

	insertObservation(t, store, "s1", now.Add(-2*time.Hour), schema.ActiveStatus)
	insertObservation(t, store, "s1", now.Add(-30*time.Minute), schema.InactiveStatus)
	insertObservation(t, store, "s1", now.Add(30*time.Minute), schema.ActiveStatus)
	insertObservation(t, store, "other", now.Add(-10*time.Minute), schema.ActiveStatus)

	obs, err := store.GetObservations(ctx, "s1", now.Add(-time.Hour), now)
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.True(t, obs[0].Timestamp.Equal(now.Add(-2*time.Hour)))
	assert.True(t, obs[1].Timestamp.Equal(now.Add(-30*time.Minute)))
	assert.True(t, obs[2].Timestamp.Equal(now.Add(30*time.Minute)))
	assert.Equal(t, schema.InactiveStatus, obs[1].Status)
	for _, o := range obs {
		assert.Equal(t, "s1", o.StoreID)
	}
}

// TestGetObservationsSubSecondOrdering tests that mixed-precision timestamps
// within the same whole second come back in chronological order. The stored
// SQLite text must be fixed-width for the range queries to sort correctly.
func TestGetObservationsSubSecondOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)

	half := now.Add(500 * time.Millisecond)
	micro := now.Add(time.Second + 123456*time.Microsecond)
	insertObservation(t, store, "s1", half, schema.InactiveStatus)
	insertObservation(t, store, "s1", now, schema.ActiveStatus)
	insertObservation(t, store, "s1", micro, schema.ActiveStatus)

	obs, err := store.GetObservations(ctx, "s1", now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.True(t, obs[0].Timestamp.Equal(now))
	assert.True(t, obs[1].Timestamp.Equal(half))
	assert.True(t, obs[2].Timestamp.Equal(micro))
}

// TestGetTimezone tests timezone lookup with and without a record.
func TestGetTimezone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	query := store.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, timezone) VALUES (?, ?)", storeTimezonesTable))
	_, err := store.db.ExecContext(ctx, query, "s1", "America/Denver")
	require.NoError(t, err)

	tz, found, err := store.GetTimezone(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "America/Denver", tz)

	_, found, err = store.GetTimezone(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestGetBusinessHours tests rule retrieval ordering.
func TestGetBusinessHours(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	query := store.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, day_of_week, start_sec, end_sec) VALUES (?, ?, ?, ?)", businessHoursTable))
	for _, row := range [][]any{
		{"s1", 1, 14 * 3600, 18 * 3600},
		{"s1", 0, 9 * 3600, 17 * 3600},
		{"s1", 1, 9 * 3600, 12 * 3600},
	} {
		_, err := store.db.ExecContext(ctx, query, row...)
		require.NoError(t, err)
	}

	rules, err := store.GetBusinessHours(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, 0, rules[0].DayOfWeek)
	assert.Equal(t, 1, rules[1].DayOfWeek)
	assert.Equal(t, schema.TimeOfDay(9*3600), rules[1].StartLocal)
	assert.Equal(t, schema.TimeOfDay(14*3600), rules[2].StartLocal)

	none, err := store.GetBusinessHours(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestMaxObservationTime tests the report anchor query.
func TestMaxObservationTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts, err := store.MaxObservationTime(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	latest := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)
	insertObservation(t, store, "s1", latest.Add(-time.Hour), schema.ActiveStatus)
	insertObservation(t, store, "s1", latest, schema.InactiveStatus)

	ts, err = store.MaxObservationTime(ctx)
	require.NoError(t, err)
	assert.True(t, ts.Equal(latest))
}

// TestReportLifecycle tests report job record transitions.
func TestReportLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateReport(ctx, "job-1", schema.ReportRunning, created))

	record, err := store.GetReport(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, schema.ReportRunning, record.State)
	assert.True(t, record.CreatedAt.Equal(created))
	assert.Nil(t, record.CompletedAt)

	completed := created.Add(time.Minute)
	require.NoError(t, store.UpdateReportState(ctx, "job-1", schema.ReportComplete, "", &completed))

	record, err = store.GetReport(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, schema.ReportComplete, record.State)
	require.NotNil(t, record.CompletedAt)
	assert.True(t, record.CompletedAt.Equal(completed))

	_, err = store.GetReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	err = store.UpdateReportState(ctx, "missing", schema.ReportFailed, "boom", nil)
	assert.Error(t, err)
}

// TestSummary tests the status subcommand's counts.
func TestSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)

	insertObservation(t, store, "s1", now.Add(-time.Hour), schema.ActiveStatus)
	insertObservation(t, store, "s1", now, schema.ActiveStatus)
	insertObservation(t, store, "s2", now, schema.InactiveStatus)

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Connected)
	assert.Equal(t, string(schema.SQLiteBackend), summary.Backend)
	assert.Equal(t, int64(2), summary.StoreCount)
	assert.Equal(t, int64(3), summary.ObservationCount)
	assert.True(t, summary.LatestTimestamp.Equal(now))
	assert.True(t, summary.OldestTimestamp.Equal(now.Add(-time.Hour)))
	assert.Equal(t, int64(3), summary.TableSizes[storeStatusTable])
}

// TestRebind tests placeholder rewriting for the PostgreSQL backend.
func TestRebind(t *testing.T) {
	pg := &Store{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT $1, $2, $3", pg.rebind("SELECT ?, ?, ?"))

	lite := &Store{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT ?, ?", lite.rebind("SELECT ?, ?"))
}
