package checkpoint

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstats/internal/models"
	"pinstats/internal/structures"
	"pinstats/internal/testutil"
)

func testConfig() *structures.Config {
	conf := &structures.Config{}
	conf.Pipeline.RunKey = "test"
	return conf
}

func sampleCheckpoint(total int) *models.Checkpoint {
	acc := models.NewAccumulators()
	acc.AddCountry("Norway", 5.0, 10, 2)
	byPayout := models.NewTopKLeaderboard(models.MetricPayout)
	byPayout.Offer(models.BoardEntry{Author: "alice", Permlink: "trip", Payout: 5.0})

	return &models.Checkpoint{
		Version:        models.CheckpointVersion,
		TotalRecords:   total,
		ProcessedCount: 40,
		ResumeIndex:    40,
		TotalPayout:    5.0,
		TotalVotes:     10,
		TotalComments:  2,
		Accumulators:   acc,
		ByPayout:       byPayout,
		ByVotes:        models.NewTopKLeaderboard(models.MetricVotes),
		ByComments:     models.NewTopKLeaderboard(models.MetricComments),
		Last:           models.LastProcessed{ID: 40, Author: "alice", Permlink: "trip"},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	kv := testutil.NewMockKV()
	store := NewStore(testConfig(), kv, &testutil.MockLogger{})

	store.Save(sampleCheckpoint(100))

	cp := store.Load(100)
	require.NotNil(t, cp)
	assert.Equal(t, 40, cp.ProcessedCount)
	assert.Equal(t, int64(40), cp.Last.ID)
	assert.Equal(t, 1, cp.Accumulators.Countries["Norway"].Count)
	require.Len(t, cp.ByPayout.Entries, 1)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(testConfig(), testutil.NewMockKV(), &testutil.MockLogger{})
	assert.Nil(t, store.Load(100))
}

func TestStore_RejectsTotalMismatch(t *testing.T) {
	kv := testutil.NewMockKV()
	logger := &testutil.MockLogger{}
	store := NewStore(testConfig(), kv, logger)

	store.Save(sampleCheckpoint(100))

	assert.Nil(t, store.Load(101))
	assert.Equal(t, 1, logger.CountLevel("warn"))
}

func TestStore_RejectsUnknownVersion(t *testing.T) {
	kv := testutil.NewMockKV()
	store := NewStore(testConfig(), kv, &testutil.MockLogger{})

	cp := sampleCheckpoint(100)
	cp.Version = models.CheckpointVersion + 1
	store.Save(cp)

	assert.Nil(t, store.Load(100))
}

func TestStore_RejectsCorruptPayload(t *testing.T) {
	kv := testutil.NewMockKV()
	store := NewStore(testConfig(), kv, &testutil.MockLogger{})

	require.NoError(t, kv.Put("checkpoint:test", []byte("{not json")))
	assert.Nil(t, store.Load(100))
}

func TestStore_LoadRepairsNilState(t *testing.T) {
	kv := testutil.NewMockKV()
	store := NewStore(testConfig(), kv, &testutil.MockLogger{})

	raw, err := json.Marshal(map[string]interface{}{
		"version":      models.CheckpointVersion,
		"totalRecords": 100,
	})
	require.NoError(t, err)
	require.NoError(t, kv.Put("checkpoint:test", raw))

	cp := store.Load(100)
	require.NotNil(t, cp)
	require.NotNil(t, cp.Accumulators)
	require.NotNil(t, cp.ByPayout)
	require.NotNil(t, cp.ByVotes)
	require.NotNil(t, cp.ByComments)
}

func TestStore_SaveSwallowsWriteErrors(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.PutErr = errors.New("disk full")
	logger := &testutil.MockLogger{}
	store := NewStore(testConfig(), kv, logger)

	store.Save(sampleCheckpoint(100))
	assert.Equal(t, 1, logger.CountLevel("error"))
}

func TestStore_ClearSwallowsDeleteErrors(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.DeleteErr = errors.New("nope")
	logger := &testutil.MockLogger{}
	store := NewStore(testConfig(), kv, logger)

	store.Clear()
	assert.Equal(t, 1, kv.DeleteCalls)
	assert.Equal(t, 1, logger.CountLevel("error"))
}

func TestStore_ResultRoundtrip(t *testing.T) {
	kv := testutil.NewMockKV()
	store := NewStore(testConfig(), kv, &testutil.MockLogger{})

	assert.Nil(t, store.LoadResult())

	store.SaveResult(&models.StatsSnapshot{ProcessedRecords: 7, Complete: true})

	snap := store.LoadResult()
	require.NotNil(t, snap)
	assert.Equal(t, 7, snap.ProcessedRecords)
	assert.True(t, snap.Complete)
}

func newTestFileKV(t *testing.T) *FileKV {
	t.Helper()
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	return NewFileKV(t.TempDir(), compressor, &testutil.MockLogger{})
}

func TestFileKV_Roundtrip(t *testing.T) {
	kv := newTestFileKV(t)

	payload := []byte(`{"version":1}`)
	require.NoError(t, kv.Put("checkpoint:test", payload))

	got, ok, err := kv.Get("checkpoint:test")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestFileKV_MissingKey(t *testing.T) {
	kv := newTestFileKV(t)

	_, ok, err := kv.Get("checkpoint:absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileKV_DeleteIsIdempotent(t *testing.T) {
	kv := newTestFileKV(t)

	require.NoError(t, kv.Put("checkpoint:test", []byte("x")))
	require.NoError(t, kv.Delete("checkpoint:test"))
	require.NoError(t, kv.Delete("checkpoint:test"))

	_, ok, err := kv.Get("checkpoint:test")
	require.NoError(t, err)
	assert.False(t, ok)
}
