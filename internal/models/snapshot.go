package models

import (
	"sort"
	"time"
)

type CountryStat struct {
	Country  string  `json:"country"`
	MapLabel string  `json:"mapLabel,omitempty"`
	Count    int     `json:"count"`
	Payout   float64 `json:"payout"`
	Votes    int     `json:"votes"`
	Comments int     `json:"comments"`
}

type UserStat struct {
	Author    string  `json:"author"`
	Pins      int     `json:"pins"`
	Payout    float64 `json:"payout"`
	AvgPayout float64 `json:"avgPayout"`
	Countries int     `json:"countries"`
	Votes     int     `json:"votes"`
	Comments  int     `json:"comments"`
}

type TagStat struct {
	Tag    string  `json:"tag"`
	Count  int     `json:"count"`
	Payout float64 `json:"payout"`
}

type TimePoint struct {
	Bucket  string `json:"bucket"`
	Count   int    `json:"count"`
	Curated int    `json:"curated"`
}

// StatsSnapshot is a derived, stateless view of the accumulator state.
// It is never a source of truth and can be rebuilt at any time; building
// it twice from the same state yields identical output.
type StatsSnapshot struct {
	GeneratedAt      time.Time     `json:"generatedAt"`
	ProcessedRecords int           `json:"processedRecords"`
	TotalRecords     int           `json:"totalRecords"`
	Complete         bool          `json:"complete"`
	TotalPayout      float64       `json:"totalPayout"`
	TotalVotes       int           `json:"totalVotes"`
	TotalComments    int           `json:"totalComments"`
	Countries        []CountryStat `json:"countries"`
	Users            []UserStat    `json:"users"`
	Tags             []TagStat     `json:"tags"`
	Daily            []TimePoint   `json:"daily"`
	Monthly          []TimePoint   `json:"monthly"`
	TopByPayout      []BoardEntry  `json:"topByPayout"`
	TopByVotes       []BoardEntry  `json:"topByVotes"`
	TopByComments    []BoardEntry  `json:"topByComments"`
}

// BuildSnapshot materializes the accumulators into sorted lists.
// Ordering is deterministic: primary metric descending, key ascending.
func BuildSnapshot(acc *Accumulators, totalPayout float64, totalVotes, totalComments int,
	byPayout, byVotes, byComments *TopKLeaderboard, processed, total int, complete bool) *StatsSnapshot {

	snap := &StatsSnapshot{
		GeneratedAt:      time.Now().UTC(),
		ProcessedRecords: processed,
		TotalRecords:     total,
		Complete:         complete,
		TotalPayout:      totalPayout,
		TotalVotes:       totalVotes,
		TotalComments:    totalComments,
		TopByPayout:      byPayout.Snapshot(),
		TopByVotes:       byVotes.Snapshot(),
		TopByComments:    byComments.Snapshot(),
	}

	snap.Countries = make([]CountryStat, 0, len(acc.Countries))
	for country, ct := range acc.Countries {
		snap.Countries = append(snap.Countries, CountryStat{
			Country:  country,
			Count:    ct.Count,
			Payout:   ct.Payout,
			Votes:    ct.Votes,
			Comments: ct.Comments,
		})
	}
	sort.Slice(snap.Countries, func(i, j int) bool {
		if snap.Countries[i].Count != snap.Countries[j].Count {
			return snap.Countries[i].Count > snap.Countries[j].Count
		}
		return snap.Countries[i].Country < snap.Countries[j].Country
	})

	snap.Users = make([]UserStat, 0, len(acc.Users))
	for author, ut := range acc.Users {
		us := UserStat{
			Author:    author,
			Pins:      ut.Pins,
			Payout:    ut.Payout,
			Countries: len(ut.Countries),
			Votes:     ut.Votes,
			Comments:  ut.Comments,
		}
		if ut.Pins > 0 {
			us.AvgPayout = ut.Payout / float64(ut.Pins)
		}
		snap.Users = append(snap.Users, us)
	}
	sort.Slice(snap.Users, func(i, j int) bool {
		if snap.Users[i].Pins != snap.Users[j].Pins {
			return snap.Users[i].Pins > snap.Users[j].Pins
		}
		return snap.Users[i].Author < snap.Users[j].Author
	})

	snap.Tags = make([]TagStat, 0, len(acc.Tags))
	for tag, tt := range acc.Tags {
		snap.Tags = append(snap.Tags, TagStat{Tag: tag, Count: tt.Count, Payout: tt.Payout})
	}
	sort.Slice(snap.Tags, func(i, j int) bool {
		if snap.Tags[i].Count != snap.Tags[j].Count {
			return snap.Tags[i].Count > snap.Tags[j].Count
		}
		return snap.Tags[i].Tag < snap.Tags[j].Tag
	})

	snap.Daily = buildSeries(acc.Daily, acc.DailyCurated)
	snap.Monthly = buildSeries(acc.Monthly, acc.MonthlyCurated)

	return snap
}

func buildSeries(all, curated map[string]int) []TimePoint {
	series := make([]TimePoint, 0, len(all))
	for bucket, count := range all {
		series = append(series, TimePoint{Bucket: bucket, Count: count, Curated: curated[bucket]})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Bucket < series[j].Bucket })
	return series
}

// JoinFeatureNames attaches the matching map-dataset label to each
// country stat, using the supplied equivalence matcher. Entries with no
// matching feature keep an empty MapLabel.
func JoinFeatureNames(countries []CountryStat, features []string, equivalent func(a, b string) bool) {
	for i := range countries {
		for _, feature := range features {
			if equivalent(countries[i].Country, feature) {
				countries[i].MapLabel = feature
				break
			}
		}
	}
}
