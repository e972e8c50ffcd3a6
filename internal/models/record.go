package models

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// PinRecord is one travel-location entry from the catalog source.
// Immutable once read; only its contribution to the accumulators is kept.
type PinRecord struct {
	ID        int64    `json:"id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Author    string   `json:"author"`
	Permlink  string   `json:"permlink"`
	Title     string   `json:"title"`
	Created   string   `json:"created"`
	Payout    float64  `json:"payout"`
	Votes     int      `json:"votes"`
	Comments  int      `json:"comments"`
	Tags      []string `json:"tags,omitempty"`
	Curated   bool     `json:"curated"`
}

// DetailRecord is the per-record enrichment payload.
type DetailRecord struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Permlink      string  `json:"permlink"`
	Created       string  `json:"created"`
	Body          string  `json:"body"`
	MetadataBlob  string  `json:"metadataBlob"`
	PendingPayout float64 `json:"pendingPayout"`
	TotalPayout   float64 `json:"totalPayout"`
	CuratorPayout float64 `json:"curatorPayout"`
	NetVotes      int     `json:"netVotes"`
	ChildCount    int     `json:"childCount"`
}

// DerivePayout prefers a non-zero pending payout; otherwise the sum of
// total and curator payouts.
func DerivePayout(pending, total, curator float64) float64 {
	if pending > 0 {
		return pending
	}
	return total + curator
}

// ParseAmount converts upstream amount values to float64. The APIs return
// amounts either as numbers or as strings like "1.234 HBD"; the currency
// suffix is dropped.
func ParseAmount(v interface{}) float64 {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if i := strings.IndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return 0
		}
		return f
	}
	return cast.ToFloat64(v)
}

// ExtractAuthorPermlink pulls the "@author/permlink" pair out of a post link.
func ExtractAuthorPermlink(postLink string) (author, permlink string, ok bool) {
	at := strings.IndexByte(postLink, '@')
	if at < 0 {
		return "", "", false
	}
	rest := postLink[at+1:]
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", false
	}
	author = rest[:slash]
	permlink = rest[slash+1:]
	for _, cut := range []byte{'?', '#'} {
		if i := strings.IndexByte(permlink, cut); i >= 0 {
			permlink = permlink[:i]
		}
	}
	if permlink == "" {
		return "", "", false
	}
	return author, permlink, true
}

// NormalizeSlug builds the identity key used for resume matching.
func NormalizeSlug(author, permlink string) string {
	return strings.ToLower(strings.TrimSpace(author)) + "/" + strings.ToLower(strings.TrimSpace(permlink))
}

const (
	layoutDateTime = "2006-01-02T15:04:05"
	layoutDate     = "2006-01-02"
)

// ParseCreated accepts "YYYY-MM-DD", "YYYY-MM-DD HH:MM:SS" (space rewritten
// to the ISO separator) and fully-qualified RFC3339 timestamps. Anything
// else yields ok=false; the record still counts toward totals, just not
// toward the time series.
func ParseCreated(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i] + "T" + s[i+1:]
	}
	for _, layout := range []string{layoutDateTime, layoutDate, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseTags extracts the tag list from a post's raw metadata blob.
// A parse failure yields an empty list.
func ParseTags(blob string) []string {
	if blob == "" {
		return nil
	}
	var meta struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		return nil
	}
	tags := meta.Tags[:0:0]
	for _, tag := range meta.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
