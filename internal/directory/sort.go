package directory

import (
	"sort"
	"strings"

	"escort-directory/internal/profiles"
)

// Named sort strategies
const (
	SortFeatured   = "featured"
	SortRating     = "rating"
	SortNewest     = "newest"
	SortLastActive = "last-active"
	SortViewCount  = "view-count"
	SortName       = "name"
	SortAgeAsc     = "age-asc"
	SortAgeDesc    = "age-desc"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
)

// ValidSort reports whether the strategy name is known.
func ValidSort(strategy string) bool {
	switch strategy {
	case SortFeatured, SortRating, SortNewest, SortLastActive,
		SortViewCount, SortName, SortAgeAsc, SortAgeDesc,
		SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Sort returns a new slice ordered by the named strategy. The sort is
// stable and the input is not mutated. Unknown strategies fall back to
// featured-first.
func Sort(list []*profiles.Profile, strategy string) []*profiles.Profile {
	out := make([]*profiles.Profile, len(list))
	copy(out, list)

	var less func(a, b *profiles.Profile) bool

	switch strategy {
	case SortRating:
		less = func(a, b *profiles.Profile) bool {
			return a.Rating > b.Rating
		}
	case SortNewest:
		less = func(a, b *profiles.Profile) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortLastActive:
		less = func(a, b *profiles.Profile) bool {
			return a.LastActive.After(b.LastActive)
		}
	case SortViewCount:
		less = func(a, b *profiles.Profile) bool {
			return a.ViewCount > b.ViewCount
		}
	case SortName:
		less = func(a, b *profiles.Profile) bool {
			return strings.ToLower(displayName(a)) < strings.ToLower(displayName(b))
		}
	case SortAgeAsc:
		less = func(a, b *profiles.Profile) bool {
			return ageOrMax(a) < ageOrMax(b)
		}
	case SortAgeDesc:
		less = func(a, b *profiles.Profile) bool {
			return ageOrZero(a) > ageOrZero(b)
		}
	case SortPriceAsc:
		less = func(a, b *profiles.Profile) bool {
			return priceOrMax(a) < priceOrMax(b)
		}
	case SortPriceDesc:
		less = func(a, b *profiles.Profile) bool {
			return priceOrZero(a) > priceOrZero(b)
		}
	default: // SortFeatured
		less = func(a, b *profiles.Profile) bool {
			if a.Featured != b.Featured {
				return a.Featured
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	return out
}

func displayName(p *profiles.Profile) string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	return p.Username
}

// Profiles without an age or price sort last in ascending order and last
// in descending order as well.

func ageOrMax(p *profiles.Profile) int {
	if p.Age == nil {
		return int(^uint(0) >> 1)
	}
	return *p.Age
}

func ageOrZero(p *profiles.Profile) int {
	if p.Age == nil {
		return 0
	}
	return *p.Age
}

func priceOrMax(p *profiles.Profile) int {
	if r := p.HourlyRate(); r != nil {
		return *r
	}
	return int(^uint(0) >> 1)
}

func priceOrZero(p *profiles.Profile) int {
	if r := p.HourlyRate(); r != nil {
		return *r
	}
	return 0
}
