package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escort-directory/internal/profiles"
)

func TestValidSort(t *testing.T) {
	for _, s := range []string{
		SortFeatured, SortRating, SortNewest, SortLastActive,
		SortViewCount, SortName, SortAgeAsc, SortAgeDesc,
		SortPriceAsc, SortPriceDesc,
	} {
		assert.True(t, ValidSort(s), s)
	}

	assert.False(t, ValidSort("random"))
	assert.False(t, ValidSort(""))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	list := []*profiles.Profile{
		escort("b", func(p *profiles.Profile) { p.Rating = 1 }),
		escort("a", func(p *profiles.Profile) { p.Rating = 5 }),
	}

	got := Sort(list, SortRating)

	assert.Equal(t, "b", list[0].ID, "input order untouched")
	assert.Equal(t, "a", got[0].ID)
}

func TestSortFeaturedFirstThenNewest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []*profiles.Profile{
		escort("old-plain", func(p *profiles.Profile) { p.CreatedAt = base }),
		escort("new-plain", func(p *profiles.Profile) { p.CreatedAt = base.AddDate(0, 2, 0) }),
		escort("old-featured", func(p *profiles.Profile) {
			p.Featured = true
			p.CreatedAt = base.AddDate(0, 1, 0)
		}),
		escort("new-featured", func(p *profiles.Profile) {
			p.Featured = true
			p.CreatedAt = base.AddDate(0, 3, 0)
		}),
	}

	got := Sort(list, SortFeatured)
	require.Len(t, got, 4)
	assert.Equal(t, "new-featured", got[0].ID)
	assert.Equal(t, "old-featured", got[1].ID)
	assert.Equal(t, "new-plain", got[2].ID)
	assert.Equal(t, "old-plain", got[3].ID)
}

func TestSortIsStableOnTies(t *testing.T) {
	list := []*profiles.Profile{
		escort("first", func(p *profiles.Profile) { p.Rating = 4 }),
		escort("second", func(p *profiles.Profile) { p.Rating = 4 }),
		escort("third", func(p *profiles.Profile) { p.Rating = 4 }),
	}

	got := Sort(list, SortRating)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestSortNameFallsBackToUsername(t *testing.T) {
	list := []*profiles.Profile{
		escort("zoe", nil),
		escort("mia", func(p *profiles.Profile) { p.DisplayName = strPtr("Amelie") }),
	}

	got := Sort(list, SortName)
	assert.Equal(t, "mia", got[0].ID, "display name Amelie sorts before username zoe")
}

func TestSortAgeMissingValuesSortLastBothDirections(t *testing.T) {
	list := []*profiles.Profile{
		escort("no-age", nil),
		escort("young", func(p *profiles.Profile) { p.Age = intPtr(22) }),
		escort("older", func(p *profiles.Profile) { p.Age = intPtr(35) }),
	}

	asc := Sort(list, SortAgeAsc)
	assert.Equal(t, "young", asc[0].ID)
	assert.Equal(t, "older", asc[1].ID)
	assert.Equal(t, "no-age", asc[2].ID)

	desc := Sort(list, SortAgeDesc)
	assert.Equal(t, "older", desc[0].ID)
	assert.Equal(t, "young", desc[1].ID)
	assert.Equal(t, "no-age", desc[2].ID)
}

func TestSortPriceMissingValuesSortLastBothDirections(t *testing.T) {
	list := []*profiles.Profile{
		escort("no-rate", nil),
		escort("cheap", func(p *profiles.Profile) { p.RateHourly = strPtr("200") }),
		escort("pricey", func(p *profiles.Profile) { p.Rates = strPtr("$800/hour") }),
	}

	asc := Sort(list, SortPriceAsc)
	assert.Equal(t, "cheap", asc[0].ID)
	assert.Equal(t, "pricey", asc[1].ID)
	assert.Equal(t, "no-rate", asc[2].ID)

	desc := Sort(list, SortPriceDesc)
	assert.Equal(t, "pricey", desc[0].ID)
	assert.Equal(t, "cheap", desc[1].ID)
	assert.Equal(t, "no-rate", desc[2].ID)
}

func TestSortUnknownStrategyFallsBackToFeatured(t *testing.T) {
	list := []*profiles.Profile{
		escort("plain", nil),
		escort("featured", func(p *profiles.Profile) { p.Featured = true }),
	}

	got := Sort(list, "bogus")
	assert.Equal(t, "featured", got[0].ID)
}
