package models

import "sort"

// LeaderboardLimit bounds every leaderboard to its top entries.
const LeaderboardLimit = 10

type Metric string

const (
	MetricPayout   Metric = "payout"
	MetricVotes    Metric = "votes"
	MetricComments Metric = "comments"
)

// BoardEntry is one ranked post. Identity key is (author, permlink).
type BoardEntry struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Permlink string  `json:"permlink"`
	Payout   float64 `json:"payout"`
	Votes    int     `json:"votes"`
	Comments int     `json:"comments"`
	Created  string  `json:"created"`
}

// TopKLeaderboard is a bounded, deduplicated, sorted accumulator for a
// single ranking metric. Offering an entry whose identity already exists
// replaces it in place before re-sorting.
type TopKLeaderboard struct {
	Metric  Metric       `json:"metric"`
	Entries []BoardEntry `json:"entries"`
}

func NewTopKLeaderboard(metric Metric) *TopKLeaderboard {
	return &TopKLeaderboard{Metric: metric}
}

func (l *TopKLeaderboard) metricValue(e *BoardEntry) float64 {
	switch l.Metric {
	case MetricVotes:
		return float64(e.Votes)
	case MetricComments:
		return float64(e.Comments)
	default:
		return e.Payout
	}
}

func (l *TopKLeaderboard) Offer(entry BoardEntry) {
	replaced := false
	for i := range l.Entries {
		if l.Entries[i].Author == entry.Author && l.Entries[i].Permlink == entry.Permlink {
			l.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		l.Entries = append(l.Entries, entry)
	}

	sort.SliceStable(l.Entries, func(i, j int) bool {
		return l.metricValue(&l.Entries[i]) > l.metricValue(&l.Entries[j])
	})

	if len(l.Entries) > LeaderboardLimit {
		l.Entries = l.Entries[:LeaderboardLimit]
	}
}

// Snapshot returns the current ordered list without mutation.
func (l *TopKLeaderboard) Snapshot() []BoardEntry {
	out := make([]BoardEntry, len(l.Entries))
	copy(out, l.Entries)
	return out
}
