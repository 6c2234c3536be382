package directory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escort-directory/internal/profiles"
)

func escort(id string, mutate func(*profiles.Profile)) *profiles.Profile {
	p := &profiles.Profile{
		ID:       id,
		Username: id,
		Role:     profiles.RoleEscort,
		Status:   profiles.StatusApproved,
		IsActive: true,
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestApplyEmptyFilterKeepsEverythingInOrder(t *testing.T) {
	list := []*profiles.Profile{
		escort("a", nil),
		escort("b", nil),
		escort("c", nil),
	}

	var f FilterState
	require.True(t, f.IsEmpty())

	got := Apply(list, &f)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestResetClearsEveryConstraint(t *testing.T) {
	f := FilterState{
		SearchQuery:  "anna",
		Ethnicity:    "Asian",
		MinAge:       intPtr(21),
		Services:     []string{"massage"},
		VerifiedOnly: true,
		ActiveToday:  true,
	}
	require.False(t, f.IsEmpty())

	f.Reset()
	assert.True(t, f.IsEmpty())
}

func TestApplyCombinesConstraintsWithAnd(t *testing.T) {
	list := []*profiles.Profile{
		escort("match", func(p *profiles.Profile) {
			p.Ethnicity = strPtr("Asian")
			p.Verified = true
			p.Age = intPtr(25)
		}),
		escort("wrong-ethnicity", func(p *profiles.Profile) {
			p.Ethnicity = strPtr("Latina")
			p.Verified = true
			p.Age = intPtr(25)
		}),
		escort("not-verified", func(p *profiles.Profile) {
			p.Ethnicity = strPtr("Asian")
			p.Age = intPtr(25)
		}),
		escort("too-young", func(p *profiles.Profile) {
			p.Ethnicity = strPtr("Asian")
			p.Verified = true
			p.Age = intPtr(19)
		}),
	}

	f := FilterState{
		Ethnicity:    "Asian",
		VerifiedOnly: true,
		MinAge:       intPtr(21),
	}

	got := Apply(list, &f)
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)
}

func TestApplyRangeFiltersKeepMissingValues(t *testing.T) {
	list := []*profiles.Profile{
		escort("no-age", nil),
		escort("in-range", func(p *profiles.Profile) { p.Age = intPtr(30) }),
		escort("out-of-range", func(p *profiles.Profile) { p.Age = intPtr(45) }),
		escort("unparseable-height", func(p *profiles.Profile) {
			p.Age = intPtr(30)
			p.Height = strPtr("tall")
		}),
	}

	f := FilterState{
		MinAge:    intPtr(20),
		MaxAge:    intPtr(40),
		MinHeight: intPtr(160),
	}

	got := Apply(list, &f)
	require.Len(t, got, 3)
	assert.Equal(t, "no-age", got[0].ID)
	assert.Equal(t, "in-range", got[1].ID)
	assert.Equal(t, "unparseable-height", got[2].ID)
}

func TestApplyPriceRangeUsesEffectiveHourlyRate(t *testing.T) {
	list := []*profiles.Profile{
		escort("structured", func(p *profiles.Profile) { p.RateHourlyIncall = strPtr("400") }),
		escort("legacy", func(p *profiles.Profile) { p.Rates = strPtr("$900/hour") }),
		escort("no-rate", nil),
	}

	f := FilterState{MaxPrice: intPtr(500)}

	got := Apply(list, &f)
	require.Len(t, got, 2)
	assert.Equal(t, "structured", got[0].ID)
	assert.Equal(t, "no-rate", got[1].ID)
}

func TestApplyMultiSelectUsesOrSemantics(t *testing.T) {
	list := []*profiles.Profile{
		escort("massage", func(p *profiles.Profile) { p.Services = strPtr("Massage, GFE") }),
		escort("dinner", func(p *profiles.Profile) { p.Services = strPtr("Dinner dates") }),
		escort("neither", func(p *profiles.Profile) { p.Services = strPtr("Travel companion") }),
		escort("unset", nil),
	}

	f := FilterState{Services: []string{"massage", "dinner"}}

	got := Apply(list, &f)
	require.Len(t, got, 2)
	assert.Equal(t, "massage", got[0].ID)
	assert.Equal(t, "dinner", got[1].ID)
}

func TestApplyLocationIsCaseInsensitiveSubstring(t *testing.T) {
	list := []*profiles.Profile{
		escort("downtown", func(p *profiles.Profile) { p.Location = strPtr("Downtown Las Vegas") }),
		escort("other", func(p *profiles.Profile) { p.Location = strPtr("Henderson") }),
		escort("no-location", nil),
	}

	f := FilterState{Location: "las vegas"}

	got := Apply(list, &f)
	require.Len(t, got, 1)
	assert.Equal(t, "downtown", got[0].ID)
}

// A non-empty search query decides inclusion by itself, ignoring the other
// active constraints. This is the shipped behavior; keep these assertions in
// sync with any deliberate change to it.
func TestSearchQueryBypassesOtherFilters(t *testing.T) {
	list := []*profiles.Profile{
		escort("anna", func(p *profiles.Profile) {
			p.DisplayName = strPtr("Anna")
			p.Verified = false
		}),
		escort("bella", func(p *profiles.Profile) {
			p.DisplayName = strPtr("Bella")
			p.Verified = true
		}),
	}

	f := FilterState{
		SearchQuery:  "anna",
		VerifiedOnly: true,
	}

	got := Apply(list, &f)
	require.Len(t, got, 1)
	assert.Equal(t, "anna", got[0].ID, "search match wins despite failing verified_only")
}

func TestSearchMatchesAcrossDescriptiveFields(t *testing.T) {
	list := []*profiles.Profile{
		escort("by-name", func(p *profiles.Profile) { p.DisplayName = strPtr("Valentina") }),
		escort("by-location", func(p *profiles.Profile) { p.Location = strPtr("Valencia district") }),
		escort("by-services", func(p *profiles.Profile) { p.Services = strPtr("valentine specials") }),
		escort("unrelated", func(p *profiles.Profile) { p.DisplayName = strPtr("Mia") }),
	}

	f := FilterState{SearchQuery: "valen"}

	got := Apply(list, &f)
	require.Len(t, got, 3)
}

func TestActiveTodayRoundsToOneDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lastActive time.Time
		want       bool
	}{
		{"just now", now, true},
		{"23 hours ago", now.Add(-23 * time.Hour), true},
		{"35 hours ago rounds to 1 day", now.Add(-35 * time.Hour), true},
		{"37 hours ago rounds to 2 days", now.Add(-37 * time.Hour), false},
		{"a week ago", now.Add(-7 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []*profiles.Profile{
				escort("x", func(p *profiles.Profile) { p.LastActive = tt.lastActive }),
			}
			got := apply(list, &FilterState{ActiveToday: true}, now)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestApplyFiftyProfileScenario(t *testing.T) {
	list := make([]*profiles.Profile, 0, 50)
	for i := 0; i < 50; i++ {
		i := i
		list = append(list, escort(fmt.Sprintf("p%02d", i), func(p *profiles.Profile) {
			if i%2 == 0 {
				p.Ethnicity = strPtr("Asian")
			} else {
				p.Ethnicity = strPtr("European")
			}
			p.Verified = i%5 == 0
			p.Rating = float64(i) / 10
		}))
	}

	f := FilterState{Ethnicity: "Asian", VerifiedOnly: true}

	filtered := Apply(list, &f)
	// Even indices divisible by 5: 0, 10, 20, 30, 40.
	require.Len(t, filtered, 5)

	sorted := Sort(filtered, SortRating)
	page := Paginate(sorted, 1, DefaultPageSize)

	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "p40", page.Items[0].ID, "highest rating first")
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
