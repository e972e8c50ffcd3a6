package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestAccumulators() *Accumulators {
	acc := NewAccumulators()
	acc.AddCountry("Norway", 5.0, 10, 1)
	acc.AddCountry("Norway", 3.0, 2, 0)
	acc.AddCountry("Sweden", 3.0, 2, 0)
	acc.AddCountry("Finland", 3.0, 2, 0)
	acc.AddUser("alice", "Norway", 4.0, 5, 1)
	acc.AddUser("alice", "Sweden", 2.0, 1, 0)
	acc.AddUser("bob", "Finland", 5.0, 8, 0)
	acc.AddTags([]string{"travel", "hiking"}, 2.0)
	acc.AddTags([]string{"travel"}, 3.0)
	acc.AddTimeBuckets(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true)
	acc.AddTimeBuckets(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), false)
	return acc
}

func buildTestBoards() (byPayout, byVotes, byComments *TopKLeaderboard) {
	byPayout = NewTopKLeaderboard(MetricPayout)
	byVotes = NewTopKLeaderboard(MetricVotes)
	byComments = NewTopKLeaderboard(MetricComments)
	byPayout.Offer(BoardEntry{Author: "alice", Permlink: "a", Payout: 4.0})
	byVotes.Offer(BoardEntry{Author: "bob", Permlink: "b", Votes: 8})
	byComments.Offer(BoardEntry{Author: "alice", Permlink: "a", Comments: 1})
	return
}

func TestBuildSnapshot_DeterministicOrdering(t *testing.T) {
	acc := buildTestAccumulators()
	p, v, c := buildTestBoards()

	snap := BuildSnapshot(acc, 11.0, 14, 1, p, v, c, 4, 4, true)

	// Countries by count desc, then name asc for ties.
	require.Len(t, snap.Countries, 3)
	assert.Equal(t, "Norway", snap.Countries[0].Country)
	assert.Equal(t, "Finland", snap.Countries[1].Country)
	assert.Equal(t, "Sweden", snap.Countries[2].Country)

	require.Len(t, snap.Users, 2)
	assert.Equal(t, "alice", snap.Users[0].Author)
	assert.Equal(t, 2, snap.Users[0].Countries)
	assert.Equal(t, 3.0, snap.Users[0].AvgPayout)

	require.Len(t, snap.Tags, 2)
	assert.Equal(t, "travel", snap.Tags[0].Tag)
	assert.Equal(t, 5.0, snap.Tags[0].Payout)

	require.Len(t, snap.Daily, 2)
	assert.Equal(t, "2024-03-01", snap.Daily[0].Bucket)
	assert.Equal(t, 1, snap.Daily[0].Curated)
	assert.Equal(t, 0, snap.Daily[1].Curated)
	require.Len(t, snap.Monthly, 1)
	assert.Equal(t, 2, snap.Monthly[0].Count)
}

func TestBuildSnapshot_Idempotent(t *testing.T) {
	acc := buildTestAccumulators()
	p, v, c := buildTestBoards()

	first := BuildSnapshot(acc, 11.0, 14, 1, p, v, c, 4, 4, true)
	second := BuildSnapshot(acc, 11.0, 14, 1, p, v, c, 4, 4, true)

	// Everything except the generation timestamp must match.
	first.GeneratedAt = second.GeneratedAt
	assert.Equal(t, first, second)
}

func TestBuildSnapshot_DoesNotMutateState(t *testing.T) {
	acc := buildTestAccumulators()
	p, v, c := buildTestBoards()

	_ = BuildSnapshot(acc, 11.0, 14, 1, p, v, c, 4, 4, false)

	assert.Equal(t, 2, acc.Countries["Norway"].Count)
	assert.Len(t, p.Entries, 1)
}

func TestJoinFeatureNames(t *testing.T) {
	countries := []CountryStat{
		{Country: "United States"},
		{Country: "Atlantis"},
	}
	features := []string{"United States of America", "Norway"}

	JoinFeatureNames(countries, features, func(a, b string) bool {
		return strings.HasPrefix(b, a)
	})

	assert.Equal(t, "United States of America", countries[0].MapLabel)
	assert.Empty(t, countries[1].MapLabel)
}
