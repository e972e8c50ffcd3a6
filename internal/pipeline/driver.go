package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"pinstats/internal/checkpoint"
	"pinstats/internal/models"
	"pinstats/internal/providers"
	"pinstats/internal/services"
	"pinstats/internal/source"
	"pinstats/internal/structures"
)

// ErrAlreadyRunning is returned when a second run is started against a
// driver whose previous run has not finished. The checkpoint and cache
// keys tolerate at most one concurrent writer.
var ErrAlreadyRunning = errors.New("a pipeline run is already in progress")

const ModeFull = "full"

// Driver orchestrates a full aggregation run:
// fetch catalog → load checkpoint → resume-match → iterate in batches →
// enrich → ingest → persist checkpoint → emit snapshot → finalize.
type Driver struct {
	conf    *structures.Config
	logger  providers.Logger
	fetcher source.FetcherInterface
	service services.AggregationServiceInterface
	store   *checkpoint.Store
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface

	running  atomic.Bool
	progress *progressTracker

	snapMu   sync.RWMutex
	lastSnap *models.StatsSnapshot
}

func NewDriver(conf *structures.Config, logger providers.Logger, fetcher source.FetcherInterface,
	service services.AggregationServiceInterface, store *checkpoint.Store,
	cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *Driver {
	return &Driver{
		conf:     conf,
		logger:   logger,
		fetcher:  fetcher,
		service:  service,
		store:    store,
		cache:    cache,
		metrics:  metrics,
		progress: newProgressTracker(),
	}
}

// Progress returns the current run state for the progress endpoint.
func (d *Driver) Progress() Progress {
	return d.progress.get()
}

// IsRunning reports whether a run is currently in flight.
func (d *Driver) IsRunning() bool {
	return d.running.Load()
}

// LatestSnapshot returns the most recent completed snapshot, falling
// back to the persisted result when the process restarted since.
func (d *Driver) LatestSnapshot() *models.StatsSnapshot {
	d.snapMu.RLock()
	snap := d.lastSnap
	d.snapMu.RUnlock()
	if snap != nil {
		return snap
	}
	return d.store.LoadResult()
}

// Run executes one pipeline run. A fatal catalog failure aborts with no
// partial state; everything after that point is recoverable, and an
// interrupted run resumes from the last persisted checkpoint.
func (d *Driver) Run(ctx context.Context, report ProgressFunc) (*models.StatsSnapshot, error) {
	if !d.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer d.running.Store(false)

	if report == nil {
		report = func(int, string) {}
	}
	start := time.Now()
	full := d.conf.Pipeline.Mode == ModeFull

	d.report(report, StateFetchingCatalog, 0, "Fetching pin catalog", 0, 0)

	catalog, err := d.fetcher.FetchCatalog(ctx, false)
	if err != nil {
		d.progress.set(StateIdle, 0, "Catalog fetch failed", 0, 0)
		return nil, err
	}

	curated, err := d.fetcher.FetchCatalog(ctx, true)
	if err != nil {
		d.progress.set(StateIdle, 0, "Catalog fetch failed", 0, 0)
		return nil, err
	}
	curatedIDs := make(map[int64]struct{}, len(curated))
	for i := range curated {
		curatedIDs[curated[i].ID] = struct{}{}
	}
	for i := range catalog {
		_, ok := curatedIDs[catalog[i].ID]
		catalog[i].Curated = ok
	}

	total := len(catalog)
	d.metrics.SetCatalogSize(total)
	d.report(report, StateFetchingCatalog, 3, fmt.Sprintf("Catalog fetched: %d pins", total), 0, total)

	if !full {
		d.bulkEnrich(ctx, catalog)
	}

	d.service.Reset()
	processed := 0
	startIndex := 0
	var last models.LastProcessed

	if full {
		d.report(report, StateResumeMatching, 4, "Checking for a resumable run", 0, total)
		if cp := d.store.Load(total); cp != nil {
			startIndex = resumeIndex(catalog, cp)
			d.service.RestoreCheckpoint(cp)
			processed = cp.ProcessedCount
			last = cp.Last
			d.metrics.IncResumes()
			d.logger.Infof(providers.TypePipeline, "Resuming run at record %d of %d (%d already processed)", startIndex, total, processed)
			d.report(report, StateResumeMatching, batchPercent(processed, total),
				fmt.Sprintf("Resuming: %d of %d pins already processed", processed, total), processed, total)
		}
	}

	batchSize := d.conf.Pipeline.BatchSize
	for i := startIndex; i < total; i += batchSize {
		if err := ctx.Err(); err != nil {
			// The last checkpoint survives; the next run resumes here.
			d.progress.set(StateIdle, batchPercent(processed, total), "Run interrupted", processed, total)
			return nil, err
		}

		end := i + batchSize
		if end > total {
			end = total
		}
		batch := catalog[i:end]

		var details []*models.DetailRecord
		if full {
			details = d.fetcher.FetchDetails(ctx, batch)
		}

		for j := range batch {
			rec := &batch[j]
			var detail *models.DetailRecord
			if full {
				detail = details[j]
				if detail == nil && rec.Author != "" {
					d.metrics.IncDetailFailures()
				}
			}
			d.service.Ingest(rec, detail)
			processed++
			last = models.LastProcessed{ID: rec.ID, Author: rec.Author, Permlink: rec.Permlink}
		}
		d.metrics.AddRecordsProcessed(len(batch))

		if full {
			d.store.Save(d.service.ExportCheckpoint(total, processed, end, last))
			d.metrics.IncBatchesPersisted()
		}
		d.pushIntermediate(processed, total)

		d.report(report, StateBatching, batchPercent(processed, total),
			fmt.Sprintf("Processed %d of %d pins", processed, total), processed, total)

		if end < total && d.conf.Pipeline.BatchDelay > 0 {
			if err := sleepCtx(ctx, d.conf.Pipeline.BatchDelay); err != nil {
				d.progress.set(StateIdle, batchPercent(processed, total), "Run interrupted", processed, total)
				return nil, err
			}
		}
	}

	d.report(report, StateFinalizing, 99, "Building final snapshot", processed, total)

	snap := d.service.Snapshot(processed, total, true)
	d.store.SaveResult(snap)
	if full {
		d.store.Clear()
	}
	d.cacheSnapshot(snap)

	d.snapMu.Lock()
	d.lastSnap = snap
	d.snapMu.Unlock()

	d.metrics.ObserveRunDuration(time.Since(start))
	d.report(report, StateDone, 100, fmt.Sprintf("Completed: %d pins aggregated", processed), processed, total)
	d.logger.Infof(providers.TypePipeline, "Run completed: %d records in %s", processed, time.Since(start))

	return snap, nil
}

// bulkEnrich backfills title/date from the detail-by-id source in basic
// mode. Failure here is recoverable: the coarse catalog fields stand.
func (d *Driver) bulkEnrich(ctx context.Context, catalog []models.PinRecord) {
	ids := make([]int64, len(catalog))
	for i := range catalog {
		ids[i] = catalog[i].ID
	}

	details, err := d.fetcher.FetchDetailsByIDs(ctx, ids)
	if err != nil {
		d.logger.Warnf(providers.TypePipeline, "Bulk detail fetch failed, keeping catalog fields: %s", err)
		return
	}

	for i := range catalog {
		det, ok := details[catalog[i].ID]
		if !ok {
			continue
		}
		if det.Title != "" {
			catalog[i].Title = det.Title
		}
		if det.Date != "" {
			catalog[i].Created = det.Date
		}
		if catalog[i].Author == "" {
			if author, permlink, ok := models.ExtractAuthorPermlink(det.Link); ok {
				catalog[i].Author = author
				catalog[i].Permlink = permlink
			}
		}
	}
}

// resumeIndex locates where a resumed run should continue: the record
// id anywhere in the fresh catalog first, then the normalized
// author/permlink slug, then the stored index clamped to no less than
// the processed count.
func resumeIndex(catalog []models.PinRecord, cp *models.Checkpoint) int {
	for i := range catalog {
		if catalog[i].ID == cp.Last.ID {
			return i + 1
		}
	}

	if cp.Last.Author != "" && cp.Last.Permlink != "" {
		slug := models.NormalizeSlug(cp.Last.Author, cp.Last.Permlink)
		for i := range catalog {
			if models.NormalizeSlug(catalog[i].Author, catalog[i].Permlink) == slug {
				return i + 1
			}
		}
	}

	idx := cp.ResumeIndex
	if idx < cp.ProcessedCount {
		idx = cp.ProcessedCount
	}
	if idx > len(catalog) {
		idx = len(catalog)
	}
	return idx
}

func (d *Driver) pushIntermediate(processed, total int) {
	snap := d.service.Snapshot(processed, total, false)
	d.cacheSnapshot(snap)
}

func (d *Driver) cacheSnapshot(snap *models.StatsSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		d.logger.Errorf(providers.TypePipeline, "Snapshot marshal failed: %s", err)
		return
	}
	d.cache.Set("stats:"+d.conf.Pipeline.RunKey, raw)
}

func (d *Driver) report(fn ProgressFunc, state State, percent int, message string, processed, total int) {
	d.progress.set(state, percent, message, processed, total)
	fn(percent, message)
}

// batchPercent maps batch progress into the 5..99 band; the edges are
// reserved for catalog fetch and finalize.
func batchPercent(processed, total int) int {
	if total <= 0 {
		return 5
	}
	pct := 5 + processed*94/total
	if pct > 99 {
		pct = 99
	}
	return pct
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
