package services

import (
	"time"

	"pinstats/internal/geo"
	"pinstats/internal/models"
	"pinstats/internal/providers"
)

// AggregationServiceInterface is the single-pass aggregation engine.
// Ingest is not idempotent: re-ingesting a record double-counts it.
// Exactly-once semantics are the driver's job via the resume cursor.
type AggregationServiceInterface interface {
	Ingest(record *models.PinRecord, detail *models.DetailRecord)
	Snapshot(processed, total int, complete bool) *models.StatsSnapshot
	ExportCheckpoint(total, processed, resumeIndex int, last models.LastProcessed) *models.Checkpoint
	RestoreCheckpoint(cp *models.Checkpoint)
	Reset()
}

type AggregationService struct {
	resolver geo.ResolverInterface
	logger   providers.Logger
	features []string

	acc           *models.Accumulators
	totalPayout   float64
	totalVotes    int
	totalComments int
	byPayout      *models.TopKLeaderboard
	byVotes       *models.TopKLeaderboard
	byComments    *models.TopKLeaderboard
}

func NewAggregationService(resolver geo.ResolverInterface, logger providers.Logger) AggregationServiceInterface {
	svc := &AggregationService{
		resolver: resolver,
		logger:   logger,
		features: geo.MapFeatureLabels(),
	}
	svc.Reset()
	return svc
}

func (as *AggregationService) Reset() {
	as.acc = models.NewAccumulators()
	as.totalPayout = 0
	as.totalVotes = 0
	as.totalComments = 0
	as.byPayout = models.NewTopKLeaderboard(models.MetricPayout)
	as.byVotes = models.NewTopKLeaderboard(models.MetricVotes)
	as.byComments = models.NewTopKLeaderboard(models.MetricComments)
}

// Ingest merges the catalog record with its optional detail record and
// updates every accumulator family and all three leaderboards. Detail
// fetch failures degrade to the coarse catalog fields.
func (as *AggregationService) Ingest(record *models.PinRecord, detail *models.DetailRecord) {
	title := record.Title
	created := record.Created
	payout := record.Payout
	votes := record.Votes
	comments := record.Comments
	var tags []string

	if detail != nil {
		if detail.Title != "" {
			title = detail.Title
		}
		if detail.Created != "" {
			created = detail.Created
		}
		payout = models.DerivePayout(detail.PendingPayout, detail.TotalPayout, detail.CuratorPayout)
		votes = detail.NetVotes
		comments = detail.ChildCount
		tags = models.ParseTags(detail.MetadataBlob)
	} else if len(record.Tags) > 0 {
		tags = record.Tags
	}

	as.totalPayout += payout
	as.totalVotes += votes
	as.totalComments += comments

	country, resolved := as.resolver.Resolve(record.Latitude, record.Longitude)
	if resolved {
		as.acc.AddCountry(country, payout, votes, comments)
	} else {
		as.logger.Debugf(providers.TypePipeline, "No country for record %d at (%f, %f)", record.ID, record.Latitude, record.Longitude)
		country = ""
	}

	if record.Author != "" {
		as.acc.AddUser(record.Author, country, payout, votes, comments)
	}

	as.acc.AddTags(tags, payout)

	if t, ok := models.ParseCreated(created); ok {
		as.acc.AddTimeBuckets(t, record.Curated)
	} else if created != "" {
		as.logger.Warnf(providers.TypePipeline, "Unparsable date %q on record %d", created, record.ID)
	}

	entry := models.BoardEntry{
		Title:    title,
		Author:   record.Author,
		Permlink: record.Permlink,
		Payout:   payout,
		Votes:    votes,
		Comments: comments,
		Created:  created,
	}
	as.byPayout.Offer(entry)
	as.byVotes.Offer(entry)
	as.byComments.Offer(entry)
}

func (as *AggregationService) Snapshot(processed, total int, complete bool) *models.StatsSnapshot {
	snap := models.BuildSnapshot(as.acc, as.totalPayout, as.totalVotes, as.totalComments,
		as.byPayout, as.byVotes, as.byComments, processed, total, complete)
	models.JoinFeatureNames(snap.Countries, as.features, geo.LabelsEquivalent)
	return snap
}

func (as *AggregationService) ExportCheckpoint(total, processed, resumeIndex int, last models.LastProcessed) *models.Checkpoint {
	return &models.Checkpoint{
		Version:        models.CheckpointVersion,
		TotalRecords:   total,
		ProcessedCount: processed,
		ResumeIndex:    resumeIndex,
		TotalPayout:    as.totalPayout,
		TotalVotes:     as.totalVotes,
		TotalComments:  as.totalComments,
		Accumulators:   as.acc,
		ByPayout:       as.byPayout,
		ByVotes:        as.byVotes,
		ByComments:     as.byComments,
		Last:           last,
		SavedAt:        time.Now().UTC(),
	}
}

func (as *AggregationService) RestoreCheckpoint(cp *models.Checkpoint) {
	as.acc = cp.Accumulators
	as.totalPayout = cp.TotalPayout
	as.totalVotes = cp.TotalVotes
	as.totalComments = cp.TotalComments
	as.byPayout = cp.ByPayout
	as.byVotes = cp.ByVotes
	as.byComments = cp.ByComments
}
