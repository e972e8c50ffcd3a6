package models

import "time"

type CountryTotals struct {
	Count    int     `json:"count"`
	Payout   float64 `json:"payout"`
	Votes    int     `json:"votes"`
	Comments int     `json:"comments"`
}

type UserTotals struct {
	Pins      int             `json:"pins"`
	Payout    float64         `json:"payout"`
	Votes     int             `json:"votes"`
	Comments  int             `json:"comments"`
	Countries map[string]bool `json:"countries"`
}

type TagTotals struct {
	Count  int     `json:"count"`
	Payout float64 `json:"payout"`
}

// Accumulators holds every grouping dimension of the aggregation engine.
// All maps are written from the single-threaded ingest loop only.
type Accumulators struct {
	Countries      map[string]*CountryTotals `json:"countries"`
	Users          map[string]*UserTotals    `json:"users"`
	Tags           map[string]*TagTotals     `json:"tags"`
	Daily          map[string]int            `json:"daily"`
	Monthly        map[string]int            `json:"monthly"`
	DailyCurated   map[string]int            `json:"dailyCurated"`
	MonthlyCurated map[string]int            `json:"monthlyCurated"`
}

func NewAccumulators() *Accumulators {
	return &Accumulators{
		Countries:      make(map[string]*CountryTotals),
		Users:          make(map[string]*UserTotals),
		Tags:           make(map[string]*TagTotals),
		Daily:          make(map[string]int),
		Monthly:        make(map[string]int),
		DailyCurated:   make(map[string]int),
		MonthlyCurated: make(map[string]int),
	}
}

// Normalize repairs nil maps after deserialization of older checkpoints.
func (a *Accumulators) Normalize() {
	if a.Countries == nil {
		a.Countries = make(map[string]*CountryTotals)
	}
	if a.Users == nil {
		a.Users = make(map[string]*UserTotals)
	}
	if a.Tags == nil {
		a.Tags = make(map[string]*TagTotals)
	}
	if a.Daily == nil {
		a.Daily = make(map[string]int)
	}
	if a.Monthly == nil {
		a.Monthly = make(map[string]int)
	}
	if a.DailyCurated == nil {
		a.DailyCurated = make(map[string]int)
	}
	if a.MonthlyCurated == nil {
		a.MonthlyCurated = make(map[string]int)
	}
}

// AddCountry books one record under a resolved country label.
// A record contributes to exactly one country key, or to none at all.
func (a *Accumulators) AddCountry(label string, payout float64, votes, comments int) {
	ct, ok := a.Countries[label]
	if !ok {
		ct = &CountryTotals{}
		a.Countries[label] = ct
	}
	ct.Count++
	ct.Payout += payout
	ct.Votes += votes
	ct.Comments += comments
}

// AddUser books one record under its author. country may be empty when
// resolution failed; the distinct-country set only grows on success.
func (a *Accumulators) AddUser(author, country string, payout float64, votes, comments int) {
	ut, ok := a.Users[author]
	if !ok {
		ut = &UserTotals{Countries: make(map[string]bool)}
		a.Users[author] = ut
	}
	if ut.Countries == nil {
		ut.Countries = make(map[string]bool)
	}
	ut.Pins++
	ut.Payout += payout
	ut.Votes += votes
	ut.Comments += comments
	if country != "" {
		ut.Countries[country] = true
	}
}

// AddTags fans one record out to all of its tag entries.
func (a *Accumulators) AddTags(tags []string, payout float64) {
	for _, tag := range tags {
		tt, ok := a.Tags[tag]
		if !ok {
			tt = &TagTotals{}
			a.Tags[tag] = tt
		}
		tt.Count++
		tt.Payout += payout
	}
}

// AddTimeBuckets books one record into the daily and monthly series,
// plus the curated variants when the record is curated.
func (a *Accumulators) AddTimeBuckets(created time.Time, curated bool) {
	day := created.UTC().Format("2006-01-02")
	month := created.UTC().Format("2006-01")
	a.Daily[day]++
	a.Monthly[month]++
	if curated {
		a.DailyCurated[day]++
		a.MonthlyCurated[month]++
	}
}
