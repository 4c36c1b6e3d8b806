package storedb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

// MockStatusStore is a mock implementation of StatusStore for testing.
type MockStatusStore struct {
	mock.Mock
}

var _ contract.StatusStore = &MockStatusStore{} // Compile-time check

// ListStoreIDs implements the StatusStore interface.
func (m *MockStatusStore) ListStoreIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// GetBusinessHours implements the StatusStore interface.
func (m *MockStatusStore) GetBusinessHours(ctx context.Context, storeID string) ([]schema.BusinessHoursRule, error) {
	args := m.Called(ctx, storeID)
	rules, _ := args.Get(0).([]schema.BusinessHoursRule)
	return rules, args.Error(1)
}

// GetTimezone implements the StatusStore interface.
func (m *MockStatusStore) GetTimezone(ctx context.Context, storeID string) (string, bool, error) {
	args := m.Called(ctx, storeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// GetObservations implements the StatusStore interface.
func (m *MockStatusStore) GetObservations(ctx context.Context, storeID string, from, to time.Time) ([]schema.Observation, error) {
	args := m.Called(ctx, storeID, from, to)
	obs, _ := args.Get(0).([]schema.Observation)
	return obs, args.Error(1)
}

// MaxObservationTime implements the StatusStore interface.
func (m *MockStatusStore) MaxObservationTime(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).(time.Time)
	return ts, args.Error(1)
}

// Close implements the StatusStore interface.
func (m *MockStatusStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MemStatusStore is an in-memory StatusStore seeded from plain slices and
// maps, used where tests want realistic lookups rather than call assertions.
type MemStatusStore struct {
	Rules        map[string][]schema.BusinessHoursRule
	Timezones    map[string]string
	Observations map[string][]schema.Observation // Must be sorted ascending
}

var _ contract.StatusStore = &MemStatusStore{} // Compile-time check

// NewMemStatusStore builds an empty in-memory status store.
func NewMemStatusStore() *MemStatusStore {
	return &MemStatusStore{
		Rules:        make(map[string][]schema.BusinessHoursRule),
		Timezones:    make(map[string]string),
		Observations: make(map[string][]schema.Observation),
	}
}

// ListStoreIDs implements the StatusStore interface.
func (m *MemStatusStore) ListStoreIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.Observations))
	for id := range m.Observations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetBusinessHours implements the StatusStore interface.
func (m *MemStatusStore) GetBusinessHours(_ context.Context, storeID string) ([]schema.BusinessHoursRule, error) {
	return m.Rules[storeID], nil
}

// GetTimezone implements the StatusStore interface.
func (m *MemStatusStore) GetTimezone(_ context.Context, storeID string) (string, bool, error) {
	tz, ok := m.Timezones[storeID]
	return tz, ok, nil
}

// GetObservations implements the StatusStore interface, padding the range
// with the nearest observation on each side like the SQL store does.
func (m *MemStatusStore) GetObservations(_ context.Context, storeID string, from, to time.Time) ([]schema.Observation, error) {
	all := m.Observations[storeID]
	var out []schema.Observation
	var before *schema.Observation
	var after *schema.Observation
	for i := range all {
		o := all[i]
		switch {
		case o.Timestamp.Before(from):
			before = &all[i]
		case o.Timestamp.After(to):
			if after == nil {
				after = &all[i]
			}
		default:
			out = append(out, o)
		}
	}
	if before != nil {
		out = append([]schema.Observation{*before}, out...)
	}
	if after != nil {
		out = append(out, *after)
	}
	return out, nil
}

// MaxObservationTime implements the StatusStore interface.
func (m *MemStatusStore) MaxObservationTime(context.Context) (time.Time, error) {
	var latest time.Time
	for _, obs := range m.Observations {
		for _, o := range obs {
			if o.Timestamp.After(latest) {
				latest = o.Timestamp
			}
		}
	}
	return latest, nil
}

// Close implements the StatusStore interface.
func (m *MemStatusStore) Close() error { return nil }

// MemReportStore is an in-memory ReportStore for job lifecycle tests.
type MemReportStore struct {
	mu      sync.Mutex
	records map[string]schema.ReportRecord
}

var _ contract.ReportStore = &MemReportStore{} // Compile-time check

// NewMemReportStore builds an empty in-memory report store.
func NewMemReportStore() *MemReportStore {
	return &MemReportStore{records: make(map[string]schema.ReportRecord)}
}

// CreateReport implements the ReportStore interface.
func (m *MemReportStore) CreateReport(_ context.Context, reportID string, state schema.ReportState, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[reportID] = schema.ReportRecord{ReportID: reportID, State: state, CreatedAt: createdAt}
	return nil
}

// UpdateReportState implements the ReportStore interface.
func (m *MemReportStore) UpdateReportState(_ context.Context, reportID string, state schema.ReportState, reason string, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[reportID]
	if !ok {
		return ErrReportNotFound
	}
	record.State = state
	record.Reason = reason
	record.CompletedAt = completedAt
	m.records[reportID] = record
	return nil
}

// GetReport implements the ReportStore interface.
func (m *MemReportStore) GetReport(_ context.Context, reportID string) (schema.ReportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[reportID]
	if !ok {
		return schema.ReportRecord{}, ErrReportNotFound
	}
	return record, nil
}
