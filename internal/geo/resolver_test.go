package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) ResolverInterface {
	t.Helper()
	r, err := NewResolver()
	require.NoError(t, err)
	return r
}

func TestResolve_GreenlandOverride(t *testing.T) {
	r := newTestResolver(t)

	// Southern Greenland coast, a spot the polygon dataset gets wrong.
	label, ok := r.Resolve(61.0, -45.0)
	require.True(t, ok)
	assert.Equal(t, "Greenland", label)
}

func TestResolve_IcelandCarveOut(t *testing.T) {
	r := newTestResolver(t)

	// Inside the Greenland box but also inside the Iceland carve-out.
	label, ok := r.Resolve(64.9, -18.0)
	require.True(t, ok)
	assert.Equal(t, "Iceland", label)
}

func TestResolve_MainlandCountry(t *testing.T) {
	r := newTestResolver(t)

	label, ok := r.Resolve(48.85, 2.35)
	require.True(t, ok)
	assert.Equal(t, "France", label)
}

func TestResolve_Deterministic(t *testing.T) {
	r := newTestResolver(t)

	coords := [][2]float64{{61.0, -45.0}, {48.85, 2.35}, {0.0, -160.0}}
	for _, c := range coords {
		first, okFirst := r.Resolve(c[0], c[1])
		second, okSecond := r.Resolve(c[0], c[1])
		assert.Equal(t, okFirst, okSecond)
		assert.Equal(t, first, second)
	}
}

func TestResolve_OpenOcean(t *testing.T) {
	r := newTestResolver(t)

	_, ok := r.Resolve(0.0, -160.0)
	assert.False(t, ok)
}

func TestResolve_InvalidCoordinates(t *testing.T) {
	r := newTestResolver(t)

	cases := [][2]float64{
		{math.NaN(), 10.0},
		{10.0, math.NaN()},
		{91.0, 0.0},
		{-91.0, 0.0},
		{0.0, 181.0},
		{0.0, -181.0},
	}
	for _, c := range cases {
		_, ok := r.Resolve(c[0], c[1])
		assert.False(t, ok, "lat=%v lng=%v", c[0], c[1])
	}
}

func TestNormalizeLabel_Table(t *testing.T) {
	assert.Equal(t, "United States", NormalizeLabel("United States of America"))
	assert.Equal(t, "Russia", NormalizeLabel("Russian Federation"))
	assert.Equal(t, "Dem. Rep. Congo", NormalizeLabel("Democratic Republic of the Congo"))
	assert.Equal(t, "South Korea", NormalizeLabel("Republic of Korea"))
}

func TestNormalizeLabel_GenericStripping(t *testing.T) {
	assert.Equal(t, "Gambia", NormalizeLabel("The Gambia"))
	assert.Equal(t, "Thailand", NormalizeLabel("Kingdom of Thailand"))
}

func TestMapFeatureLabels(t *testing.T) {
	labels := MapFeatureLabels()
	assert.Contains(t, labels, "Greenland")
	assert.Contains(t, labels, "United States")
	assert.Contains(t, labels, "Dem. Rep. Congo")
	assert.IsIncreasing(t, labels)
}

func TestNormalizeLabel_PassThrough(t *testing.T) {
	assert.Equal(t, "Norway", NormalizeLabel(" Norway "))
	assert.Equal(t, "", NormalizeLabel("   "))
}
