package models

import "time"

// CheckpointVersion is bumped whenever the envelope layout changes;
// loads of a different version are discarded.
const CheckpointVersion = 1

// LastProcessed is the identity of the final record of the last
// persisted batch, used for resume matching.
type LastProcessed struct {
	ID       int64  `json:"id"`
	Author   string `json:"author"`
	Permlink string `json:"permlink"`
}

// Checkpoint is the persisted envelope of aggregation progress. It is
// created after the first batch, overwritten after every subsequent
// batch and discarded on successful completion, or on load when its
// TotalRecords no longer matches the freshly fetched catalog size.
type Checkpoint struct {
	Version        int              `json:"version"`
	TotalRecords   int              `json:"totalRecords"`
	ProcessedCount int              `json:"processedCount"`
	ResumeIndex    int              `json:"resumeIndex"`
	TotalPayout    float64          `json:"totalPayout"`
	TotalVotes     int              `json:"totalVotes"`
	TotalComments  int              `json:"totalComments"`
	Accumulators   *Accumulators    `json:"accumulators"`
	ByPayout       *TopKLeaderboard `json:"byPayout"`
	ByVotes        *TopKLeaderboard `json:"byVotes"`
	ByComments     *TopKLeaderboard `json:"byComments"`
	Last           LastProcessed    `json:"last"`
	SavedAt        time.Time        `json:"savedAt"`
}
