package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/alitto/pond/v2"
	json "github.com/goccy/go-json"

	"pinstats/internal/models"
	"pinstats/internal/providers"
	"pinstats/internal/structures"
)

const maxResponseBodySize = 64 << 20 // 64 MB

type IDDetail struct {
	Title string
	Date  string
	Link  string
}

type FetcherInterface interface {
	FetchCatalog(ctx context.Context, curatedOnly bool) ([]models.PinRecord, error)
	FetchDetailsByIDs(ctx context.Context, ids []int64) (map[int64]IDDetail, error)
	FetchDetail(ctx context.Context, author, permlink string) (*models.DetailRecord, error)
	FetchDetails(ctx context.Context, records []models.PinRecord) []*models.DetailRecord
}

// Fetcher talks to the two upstream data sources: the paginated pin
// catalog and the rate-limited per-record content endpoint.
type Fetcher struct {
	conf   *structures.Config
	client *http.Client
	logger providers.Logger
}

func NewFetcher(conf *structures.Config, logger providers.Logger) FetcherInterface {
	return &Fetcher{
		conf: conf,
		client: &http.Client{
			Timeout: conf.Source.Timeout,
		},
		logger: logger,
	}
}

type catalogFilter struct {
	CuratedOnly bool `json:"curatedOnly"`
	PageSize    int  `json:"pageSize"`
}

type catalogRecord struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PostLink  string  `json:"postLink"`
	PostTitle string  `json:"postTitle"`
	PostDate  string  `json:"postDate"`
}

// FetchCatalog retrieves the record catalog in a single large-page call.
// Records whose post link does not carry an @author/permlink pair are
// kept; they just resume-match by id only.
func (f *Fetcher) FetchCatalog(ctx context.Context, curatedOnly bool) ([]models.PinRecord, error) {
	body, err := json.Marshal(catalogFilter{CuratedOnly: curatedOnly, PageSize: f.conf.Source.PageSize})
	if err != nil {
		return nil, err
	}

	var wire []catalogRecord
	if err := f.postJSON(ctx, f.conf.Source.CatalogURL, body, &wire); err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}

	records := make([]models.PinRecord, 0, len(wire))
	for _, cr := range wire {
		rec := models.PinRecord{
			ID:        cr.ID,
			Latitude:  cr.Latitude,
			Longitude: cr.Longitude,
			Title:     cr.PostTitle,
			Created:   cr.PostDate,
			Curated:   curatedOnly,
		}
		if author, permlink, ok := models.ExtractAuthorPermlink(cr.PostLink); ok {
			rec.Author = author
			rec.Permlink = permlink
		} else {
			f.logger.Debugf(providers.TypeSource, "No author/permlink in post link %q (id=%d)", cr.PostLink, cr.ID)
		}
		records = append(records, rec)
	}

	f.logger.Infof(providers.TypeSource, "Fetched catalog: %d records (curatedOnly=%v)", len(records), curatedOnly)
	return records, nil
}

type idsFilter struct {
	IDs []int64 `json:"ids"`
}

type idDetailRecord struct {
	ID        int64  `json:"id"`
	PostTitle string `json:"postTitle"`
	PostDate  string `json:"postDate"`
	PostLink  string `json:"postLink"`
}

// FetchDetailsByIDs bulk-loads coarse title/date metadata for the given
// record ids, paging by the configured id batch size.
func (f *Fetcher) FetchDetailsByIDs(ctx context.Context, ids []int64) (map[int64]IDDetail, error) {
	out := make(map[int64]IDDetail, len(ids))
	batchSize := f.conf.Source.IDBatchSize

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		body, err := json.Marshal(idsFilter{IDs: ids[start:end]})
		if err != nil {
			return nil, err
		}

		var wire []idDetailRecord
		if err := f.postJSON(ctx, f.conf.Source.DetailByIDURL, body, &wire); err != nil {
			return nil, fmt.Errorf("detail-by-id fetch: %w", err)
		}
		for _, d := range wire {
			out[d.ID] = IDDetail{Title: d.PostTitle, Date: d.PostDate, Link: d.PostLink}
		}
	}
	return out, nil
}

type contentWire struct {
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Permlink      string      `json:"permlink"`
	Created       string      `json:"created"`
	Body          string      `json:"body"`
	MetadataBlob  string      `json:"metadataBlob"`
	PendingPayout interface{} `json:"pendingPayout"`
	TotalPayout   interface{} `json:"totalPayout"`
	CuratorPayout interface{} `json:"curatorPayout"`
	NetVotes      int         `json:"netVotes"`
	ChildCount    int         `json:"childCount"`
}

// FetchDetail performs one per-record enrichment call. Callers must
// treat a nil result as "use the coarse catalog fields"; a missing
// detail record never aborts a batch.
func (f *Fetcher) FetchDetail(ctx context.Context, author, permlink string) (*models.DetailRecord, error) {
	u, err := url.Parse(f.conf.Source.ContentURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("author", author)
	q.Set("permlink", permlink)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content endpoint returned %d for @%s/%s", resp.StatusCode, author, permlink)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, err
	}

	var wire contentWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	return &models.DetailRecord{
		Title:         wire.Title,
		Author:        wire.Author,
		Permlink:      wire.Permlink,
		Created:       wire.Created,
		Body:          wire.Body,
		MetadataBlob:  wire.MetadataBlob,
		PendingPayout: models.ParseAmount(wire.PendingPayout),
		TotalPayout:   models.ParseAmount(wire.TotalPayout),
		CuratorPayout: models.ParseAmount(wire.CuratorPayout),
		NetVotes:      wire.NetVotes,
		ChildCount:    wire.ChildCount,
	}, nil
}

// FetchDetails enriches one batch concurrently. The result slice is
// index-aligned with records; failed lookups yield nil entries and are
// logged, never fatal.
func (f *Fetcher) FetchDetails(ctx context.Context, records []models.PinRecord) []*models.DetailRecord {
	details := make([]*models.DetailRecord, len(records))

	pool := pond.NewPool(f.conf.Pipeline.DetailConcurrency)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i := range records {
		i := i
		rec := records[i]
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				return
			}
			if rec.Author == "" || rec.Permlink == "" {
				return
			}
			detail, err := f.FetchDetail(groupCtx, rec.Author, rec.Permlink)
			if err != nil {
				f.logger.Warnf(providers.TypeSource, "Detail fetch failed for @%s/%s: %s", rec.Author, rec.Permlink, err)
				return
			}
			details[i] = detail
		})
	}

	_ = group.Wait()
	return details
}

func (f *Fetcher) postJSON(ctx context.Context, endpoint string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
