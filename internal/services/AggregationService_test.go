package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstats/internal/models"
	"pinstats/internal/testutil"
)

func newTestService(resolver *testutil.MockResolver) (AggregationServiceInterface, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	if resolver == nil {
		resolver = &testutil.MockResolver{}
	}
	return NewAggregationService(resolver, logger), logger
}

func TestIngest_DetailOverridesCatalogFields(t *testing.T) {
	svc, _ := newTestService(&testutil.MockResolver{
		Table: map[[2]float64]string{{61.0, -45.0}: "Greenland"},
	})

	record := &models.PinRecord{
		ID: 1, Latitude: 61.0, Longitude: -45.0,
		Author: "alice", Permlink: "trip",
		Title: "coarse title", Created: "2024-01-01", Payout: 0.5,
	}
	detail := &models.DetailRecord{
		Title:         "Full title",
		Created:       "2024-03-01T10:00:00",
		MetadataBlob:  `{"tags":["travel","arctic"]}`,
		PendingPayout: 4.0,
		NetVotes:      12,
		ChildCount:    3,
	}

	svc.Ingest(record, detail)

	snap := svc.Snapshot(1, 1, true)
	assert.Equal(t, 4.0, snap.TotalPayout)
	assert.Equal(t, 12, snap.TotalVotes)
	assert.Equal(t, 3, snap.TotalComments)

	require.Len(t, snap.Countries, 1)
	assert.Equal(t, "Greenland", snap.Countries[0].Country)
	assert.Equal(t, "Greenland", snap.Countries[0].MapLabel)
	assert.Equal(t, 4.0, snap.Countries[0].Payout)

	require.Len(t, snap.Tags, 2)
	require.Len(t, snap.Daily, 1)
	assert.Equal(t, "2024-03-01", snap.Daily[0].Bucket)

	require.Len(t, snap.TopByPayout, 1)
	assert.Equal(t, "Full title", snap.TopByPayout[0].Title)
	assert.Equal(t, 4.0, snap.TopByPayout[0].Payout)
}

func TestIngest_NilDetailDegradesToCatalog(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.Ingest(&models.PinRecord{
		ID: 1, Author: "alice", Permlink: "trip",
		Title: "coarse", Created: "2024-01-01", Payout: 0.5, Votes: 2, Comments: 1,
		Tags: []string{"travel"},
	}, nil)

	snap := svc.Snapshot(1, 1, true)
	assert.Equal(t, 0.5, snap.TotalPayout)
	assert.Equal(t, 2, snap.TotalVotes)
	require.Len(t, snap.Tags, 1)
	assert.Equal(t, "travel", snap.Tags[0].Tag)
}

func TestIngest_UnresolvedCountryStillCounts(t *testing.T) {
	svc, logger := newTestService(&testutil.MockResolver{})

	svc.Ingest(&models.PinRecord{
		ID: 1, Latitude: 0.0, Longitude: -160.0,
		Author: "alice", Permlink: "at-sea", Payout: 2.0, Created: "2024-03-01",
	}, nil)

	snap := svc.Snapshot(1, 1, true)
	assert.Empty(t, snap.Countries)
	assert.Equal(t, 2.0, snap.TotalPayout)

	// The user is still counted, with no country attributed.
	require.Len(t, snap.Users, 1)
	assert.Equal(t, 0, snap.Users[0].Countries)
	assert.Equal(t, 1, logger.CountLevel("debug"))
}

func TestIngest_AnonymousRecordSkipsUserTotals(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.Ingest(&models.PinRecord{ID: 1, Payout: 1.0}, nil)

	snap := svc.Snapshot(1, 1, true)
	assert.Empty(t, snap.Users)
	assert.Equal(t, 1.0, snap.TotalPayout)
}

func TestIngest_UnparsableDateLogged(t *testing.T) {
	svc, logger := newTestService(nil)

	svc.Ingest(&models.PinRecord{ID: 1, Created: "bogus"}, nil)

	snap := svc.Snapshot(1, 1, true)
	assert.Empty(t, snap.Daily)
	assert.Equal(t, 1, logger.CountLevel("warn"))
}

func TestCheckpointExportRestoreRoundtrip(t *testing.T) {
	svc, _ := newTestService(&testutil.MockResolver{
		Table: map[[2]float64]string{{59.9, 10.7}: "Norway"},
	})

	svc.Ingest(&models.PinRecord{
		ID: 1, Latitude: 59.9, Longitude: 10.7,
		Author: "alice", Permlink: "oslo", Payout: 3.0, Votes: 5, Created: "2024-03-01",
	}, nil)

	cp := svc.ExportCheckpoint(10, 1, 1, models.LastProcessed{ID: 1, Author: "alice", Permlink: "oslo"})
	require.Equal(t, models.CheckpointVersion, cp.Version)
	require.Equal(t, 10, cp.TotalRecords)

	restored, _ := newTestService(nil)
	restored.RestoreCheckpoint(cp)

	before := svc.Snapshot(1, 10, false)
	after := restored.Snapshot(1, 10, false)
	before.GeneratedAt = after.GeneratedAt
	assert.Equal(t, before, after)
}

func TestReset(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.Ingest(&models.PinRecord{ID: 1, Author: "alice", Payout: 3.0}, nil)
	svc.Reset()

	snap := svc.Snapshot(0, 0, false)
	assert.Zero(t, snap.TotalPayout)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.TopByPayout)
}
