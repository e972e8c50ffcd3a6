package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"pinstats/internal/models"
	"pinstats/internal/providers"
	"pinstats/internal/source"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were logged at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockResolver implements geo.ResolverInterface with a fixed table.
// Coordinates outside the table resolve to nothing.
type MockResolver struct {
	Table map[[2]float64]string
}

func (m *MockResolver) Resolve(lat, lng float64) (string, bool) {
	if m.Table == nil {
		return "", false
	}
	label, ok := m.Table[[2]float64{lat, lng}]
	return label, ok
}

// StaticResolver resolves every coordinate to the same label.
type StaticResolver struct {
	Label string
}

func (s *StaticResolver) Resolve(lat, lng float64) (string, bool) {
	if s.Label == "" {
		return "", false
	}
	return s.Label, true
}

// MockFetcher implements source.FetcherInterface from canned data.
type MockFetcher struct {
	mu sync.Mutex

	Catalog        []models.PinRecord
	CuratedCatalog []models.PinRecord
	CatalogErr     error
	CuratedErr     error

	IDDetails    map[int64]source.IDDetail
	IDDetailsErr error

	Details   map[string]*models.DetailRecord // key: author/permlink
	DetailErr error

	CatalogCalls int
	DetailCalls  int
}

func (m *MockFetcher) FetchCatalog(_ context.Context, curatedOnly bool) ([]models.PinRecord, error) {
	m.mu.Lock()
	m.CatalogCalls++
	m.mu.Unlock()
	if curatedOnly {
		if m.CuratedErr != nil {
			return nil, m.CuratedErr
		}
		return append([]models.PinRecord(nil), m.CuratedCatalog...), nil
	}
	if m.CatalogErr != nil {
		return nil, m.CatalogErr
	}
	return append([]models.PinRecord(nil), m.Catalog...), nil
}

func (m *MockFetcher) FetchDetailsByIDs(_ context.Context, ids []int64) (map[int64]source.IDDetail, error) {
	if m.IDDetailsErr != nil {
		return nil, m.IDDetailsErr
	}
	out := make(map[int64]source.IDDetail)
	for _, id := range ids {
		if d, ok := m.IDDetails[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (m *MockFetcher) FetchDetail(_ context.Context, author, permlink string) (*models.DetailRecord, error) {
	m.mu.Lock()
	m.DetailCalls++
	m.mu.Unlock()
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	if d, ok := m.Details[author+"/"+permlink]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

func (m *MockFetcher) FetchDetails(ctx context.Context, records []models.PinRecord) []*models.DetailRecord {
	out := make([]*models.DetailRecord, len(records))
	for i, rec := range records {
		if rec.Author == "" {
			continue
		}
		d, err := m.FetchDetail(ctx, rec.Author, rec.Permlink)
		if err != nil {
			continue
		}
		out[i] = d
	}
	return out
}

// MockKV is an in-memory checkpoint.KVStoreInterface with failure taps.
type MockKV struct {
	mu   sync.Mutex
	Data map[string][]byte

	GetErr    error
	PutErr    error
	DeleteErr error

	PutCalls    int
	DeleteCalls int
}

func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string][]byte)}
}

func (m *MockKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MockKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.Data[key] = cp
	return nil
}

func (m *MockKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Data, key)
	return nil
}

// MockCache is an in-memory providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.Data[key] = cp
}

func (m *MockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics counts provider calls.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	CatalogSize      int
	RecordsProcessed int
	Batches          int
	DetailFailures   int
	Resumes          int
	RunDurations     int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) SetCatalogSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CatalogSize = count
}
func (m *MockMetrics) AddRecordsProcessed(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsProcessed += count
}
func (m *MockMetrics) IncBatchesPersisted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches++
}
func (m *MockMetrics) IncDetailFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailFailures++
}
func (m *MockMetrics) IncResumes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resumes++
}
func (m *MockMetrics) ObserveRunDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunDurations++
}
