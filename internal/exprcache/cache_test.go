package exprcache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/exprcache"
	"github.com/jexl-go/jexl/internal/jexlparser"
)

func TestCache_ParseCachesIdenticalSource(t *testing.T) {
	c := exprcache.New(8, 0)
	p1, errs := c.Parse("1 + 2;", jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	p2, errs := c.Parse("1 + 2;", jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	require.Same(t, p1, p2, "expected the second Parse to return the cached *Program instance")
	require.Equal(t, 1, c.Len())
}

func TestCache_DistinctFeaturesDoNotShareAnEntry(t *testing.T) {
	c := exprcache.New(8, 0)
	all := jexlparser.NewFeatures()
	noLoops := all.Without(jexlparser.FeatureLoops)
	p1, errs := c.Parse("1 + 2;", all, true)
	require.Empty(t, errs)
	p2, errs := c.Parse("1 + 2;", noLoops, true)
	require.Empty(t, errs)
	require.NotSame(t, p1, p2)
	require.Equal(t, 2, c.Len())
}

func TestCache_BypassesSourceOverThreshold(t *testing.T) {
	c := exprcache.New(8, 8)
	long := strings.Repeat("1 + ", 10) + "1;"
	require.Greater(t, len(long), 8)
	p1, errs := c.Parse(long, jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	p2, errs := c.Parse(long, jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	require.NotSame(t, p1, p2, "over-threshold sources must never be cached")
	require.Equal(t, 0, c.Len())
}

func TestCache_NonPositiveSizeDisablesCacheEntirely(t *testing.T) {
	c := exprcache.New(0, 0)
	p1, errs := c.Parse("1 + 2;", jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	p2, errs := c.Parse("1 + 2;", jexlparser.NewFeatures(), true)
	require.Empty(t, errs)
	require.NotSame(t, p1, p2)
	require.Equal(t, 0, c.Len())
}

func TestCache_ParseErrorsAreNeverCached(t *testing.T) {
	c := exprcache.New(8, 0)
	_, errs := c.Parse("1 +;", jexlparser.NewFeatures(), true)
	require.NotEmpty(t, errs)
	require.Equal(t, 0, c.Len())
}

func TestCache_LookupMissOnEmptyCache(t *testing.T) {
	c := exprcache.New(8, 0)
	_, ok := c.Lookup("1 + 2;", jexlparser.NewFeatures(), true)
	require.False(t, ok)
}
