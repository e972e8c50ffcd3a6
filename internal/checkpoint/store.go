package checkpoint

import (
	json "github.com/goccy/go-json"

	"pinstats/internal/models"
	"pinstats/internal/providers"
	"pinstats/internal/structures"
)

// Store serializes aggregation progress to the key-value boundary.
// It is parameterized by a run key so independent pipeline runs never
// collide on the same checkpoint.
type Store struct {
	kv            KVStoreInterface
	checkpointKey string
	resultKey     string
	logger        providers.Logger
}

func NewStore(conf *structures.Config, kv KVStoreInterface, logger providers.Logger) *Store {
	return &Store{
		kv:            kv,
		checkpointKey: "checkpoint:" + conf.Pipeline.RunKey,
		resultKey:     "result:" + conf.Pipeline.RunKey,
		logger:        logger,
	}
}

// Load returns the stored checkpoint, or nil when none exists, it fails
// to deserialize, its version is unknown, or its totalRecords disagrees
// with the freshly fetched catalog size. A stale checkpoint is worse
// than starting over.
func (s *Store) Load(expectedTotal int) *models.Checkpoint {
	raw, ok, err := s.kv.Get(s.checkpointKey)
	if err != nil {
		s.logger.Errorf(providers.TypePipeline, "Checkpoint read failed: %s", err)
		return nil
	}
	if !ok {
		return nil
	}

	var cp models.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		s.logger.Warnf(providers.TypePipeline, "Discarding unreadable checkpoint: %s", err)
		return nil
	}

	if cp.Version != models.CheckpointVersion {
		s.logger.Warnf(providers.TypePipeline, "Discarding checkpoint with version %d (want %d)", cp.Version, models.CheckpointVersion)
		return nil
	}
	if cp.TotalRecords != expectedTotal {
		s.logger.Warnf(providers.TypePipeline, "Discarding stale checkpoint: stored total %d, catalog has %d", cp.TotalRecords, expectedTotal)
		return nil
	}

	if cp.Accumulators == nil {
		cp.Accumulators = models.NewAccumulators()
	}
	cp.Accumulators.Normalize()
	if cp.ByPayout == nil {
		cp.ByPayout = models.NewTopKLeaderboard(models.MetricPayout)
	}
	if cp.ByVotes == nil {
		cp.ByVotes = models.NewTopKLeaderboard(models.MetricVotes)
	}
	if cp.ByComments == nil {
		cp.ByComments = models.NewTopKLeaderboard(models.MetricComments)
	}

	return &cp
}

// Save overwrites the stored checkpoint. A failed write degrades
// resumability but must not abort the run in progress.
func (s *Store) Save(cp *models.Checkpoint) {
	raw, err := json.Marshal(cp)
	if err != nil {
		s.logger.Errorf(providers.TypePipeline, "Checkpoint marshal failed: %s", err)
		return
	}
	if err := s.kv.Put(s.checkpointKey, raw); err != nil {
		s.logger.Errorf(providers.TypePipeline, "Checkpoint write failed: %s", err)
	}
}

// Clear removes the checkpoint; called only after a fully successful run.
func (s *Store) Clear() {
	if err := s.kv.Delete(s.checkpointKey); err != nil {
		s.logger.Errorf(providers.TypePipeline, "Checkpoint delete failed: %s", err)
	}
}

// SaveResult persists the completed snapshot under the run's result key.
func (s *Store) SaveResult(snap *models.StatsSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		s.logger.Errorf(providers.TypePipeline, "Result marshal failed: %s", err)
		return
	}
	if err := s.kv.Put(s.resultKey, raw); err != nil {
		s.logger.Errorf(providers.TypePipeline, "Result write failed: %s", err)
	}
}

// LoadResult returns the last completed snapshot, or nil when absent.
func (s *Store) LoadResult() *models.StatsSnapshot {
	raw, ok, err := s.kv.Get(s.resultKey)
	if err != nil {
		s.logger.Errorf(providers.TypePipeline, "Result read failed: %s", err)
		return nil
	}
	if !ok {
		return nil
	}

	var snap models.StatsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warnf(providers.TypePipeline, "Discarding unreadable result: %s", err)
		return nil
	}
	return &snap
}
