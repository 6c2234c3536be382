package directory

import (
	"math"
	"strings"
	"time"

	"escort-directory/internal/profiles"
)

// FilterState is the ephemeral set of directory constraints. Zero values
// mean "not active"; Reset recreates the all-empty baseline.
type FilterState struct {
	SearchQuery string `json:"search_query" query:"search"`

	// Exact-match attribute filters
	Ethnicity   string `json:"ethnicity" query:"ethnicity"`
	Nationality string `json:"nationality" query:"nationality"`
	BodyType    string `json:"body_type" query:"body_type"`
	HairColor   string `json:"hair_color" query:"hair_color"`
	EyeColor    string `json:"eye_color" query:"eye_color"`
	CupSize     string `json:"cup_size" query:"cup_size"`
	Smoking     string `json:"smoking" query:"smoking"`
	Drinking    string `json:"drinking" query:"drinking"`

	// Substring filter
	Location string `json:"location" query:"location"`

	// Range filters, both bounds optional
	MinAge    *int `json:"min_age" query:"min_age"`
	MaxAge    *int `json:"max_age" query:"max_age"`
	MinHeight *int `json:"min_height" query:"min_height"`
	MaxHeight *int `json:"max_height" query:"max_height"`
	MinWeight *int `json:"min_weight" query:"min_weight"`
	MaxWeight *int `json:"max_weight" query:"max_weight"`
	MinPrice  *int `json:"min_price" query:"min_price"`
	MaxPrice  *int `json:"max_price" query:"max_price"`

	// Multi-select filters, OR semantics across the selection
	Services  []string `json:"services" query:"services"`
	Languages []string `json:"languages" query:"languages"`

	// Boolean flags
	VerifiedOnly bool `json:"verified_only" query:"verified_only"`
	FeaturedOnly bool `json:"featured_only" query:"featured_only"`
	Tattoos      bool `json:"tattoos" query:"tattoos"`
	Piercings    bool `json:"piercings" query:"piercings"`
	ActiveToday  bool `json:"active_today" query:"active_today"`
}

// Reset returns the all-empty baseline.
func (f *FilterState) Reset() {
	*f = FilterState{}
}

// IsEmpty reports whether no constraint is active.
func (f *FilterState) IsEmpty() bool {
	return f.SearchQuery == "" &&
		f.Ethnicity == "" && f.Nationality == "" && f.BodyType == "" &&
		f.HairColor == "" && f.EyeColor == "" && f.CupSize == "" &&
		f.Smoking == "" && f.Drinking == "" && f.Location == "" &&
		f.MinAge == nil && f.MaxAge == nil &&
		f.MinHeight == nil && f.MaxHeight == nil &&
		f.MinWeight == nil && f.MaxWeight == nil &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		len(f.Services) == 0 && len(f.Languages) == 0 &&
		!f.VerifiedOnly && !f.FeaturedOnly && !f.Tattoos && !f.Piercings &&
		!f.ActiveToday
}

// Apply evaluates the filter over the profile list and returns the profiles
// retained, in input order. Behavior notes:
//
//   - Range filters only reject when a value is present and out of range;
//     profiles with absent or unparseable attributes are kept. Listings with
//     incomplete data stay visible.
//   - A non-empty SearchQuery decides inclusion on its own, bypassing the
//     other active constraints for matching profiles. This mirrors the
//     shipped UX; see the accompanying tests before changing it.
func Apply(list []*profiles.Profile, f *FilterState) []*profiles.Profile {
	return apply(list, f, time.Now())
}

func apply(list []*profiles.Profile, f *FilterState, now time.Time) []*profiles.Profile {
	out := make([]*profiles.Profile, 0, len(list))
	for _, p := range list {
		if matches(p, f, now) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p *profiles.Profile, f *FilterState, now time.Time) bool {
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		return matchesSearch(p, q)
	}

	if !equalsFilter(f.Ethnicity, p.Ethnicity) ||
		!equalsFilter(f.Nationality, p.Nationality) ||
		!equalsFilter(f.BodyType, p.BodyType) ||
		!equalsFilter(f.HairColor, p.HairColor) ||
		!equalsFilter(f.EyeColor, p.EyeColor) ||
		!equalsFilter(f.CupSize, p.CupSize) ||
		!equalsFilter(f.Smoking, p.Smoking) ||
		!equalsFilter(f.Drinking, p.Drinking) {
		return false
	}

	if f.Location != "" {
		if p.Location == nil || !containsFold(*p.Location, f.Location) {
			return false
		}
	}

	if !inRange(p.Age, f.MinAge, f.MaxAge) {
		return false
	}
	if !inRange(p.HeightCm(), f.MinHeight, f.MaxHeight) {
		return false
	}
	if !inRange(p.WeightKg(), f.MinWeight, f.MaxWeight) {
		return false
	}
	if !inRange(p.HourlyRate(), f.MinPrice, f.MaxPrice) {
		return false
	}

	if !anySelected(f.Services, p.Services) {
		return false
	}
	if !anySelected(f.Languages, p.Languages) {
		return false
	}

	if f.VerifiedOnly && !p.Verified {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.Tattoos && !p.Tattoos {
		return false
	}
	if f.Piercings && !p.Piercings {
		return false
	}

	if f.ActiveToday && !activeToday(p.LastActive, now) {
		return false
	}

	return true
}

// matchesSearch is the OR-substring match a free-text query runs across the
// profile's descriptive fields.
func matchesSearch(p *profiles.Profile, query string) bool {
	fields := []*string{
		p.DisplayName, &p.Username, p.Location, p.Services,
		p.Ethnicity, p.BodyType, p.Nationality,
	}
	for _, field := range fields {
		if field != nil && containsFold(*field, query) {
			return true
		}
	}
	return false
}

func equalsFilter(want string, have *string) bool {
	if want == "" {
		return true
	}
	return have != nil && *have == want
}

// inRange applies independent optional bounds. A nil value never
// disqualifies: listings with missing data are kept on purpose.
func inRange(value, min, max *int) bool {
	if value == nil {
		return true
	}
	if min != nil && *value < *min {
		return false
	}
	if max != nil && *value > *max {
		return false
	}
	return true
}

// anySelected passes when any selected value appears, case-insensitively,
// in the profile's comma-joined field.
func anySelected(selected []string, field *string) bool {
	if len(selected) == 0 {
		return true
	}
	if field == nil {
		return false
	}
	for _, want := range selected {
		if containsFold(*field, want) {
			return true
		}
	}
	return false
}

// activeToday reports whether the distance to last_active rounds to at most
// one day.
func activeToday(lastActive, now time.Time) bool {
	days := math.Round(math.Abs(now.Sub(lastActive).Hours()) / 24)
	return days <= 1
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
