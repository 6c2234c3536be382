package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeight(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"metric", "172cm", intPtr(172)},
		{"metric with space", "172 cm", intPtr(172)},
		{"metric fractional", "172.6cm", intPtr(173)},
		{"feet and inches", "5'6\"", intPtr(168)},
		{"feet with spaces", "5' 6\"", intPtr(168)},
		{"bare digits treated as cm", "170", intPtr(170)},
		{"digits with trailing text", "165 tall", intPtr(165)},
		{"garbage", "tall-ish", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeight(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"kilograms", "55kg", intPtr(55)},
		{"kilograms with space", "55 kg", intPtr(55)},
		{"pounds", "121lbs", intPtr(55)},
		{"pounds long form", "121 pounds", intPtr(55)},
		{"bare digits treated as kg", "60", intPtr(60)},
		{"garbage", "slim", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWeight(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseRates(t *testing.T) {
	set := ParseRates("$420/hour, $800/2 hours, $1200 per dinner, $2100/overnight")

	require.NotNil(t, set.Hourly)
	assert.Equal(t, 420, *set.Hourly)
	require.NotNil(t, set.TwoHours)
	assert.Equal(t, 800, *set.TwoHours)
	require.NotNil(t, set.Dinner)
	assert.Equal(t, 1200, *set.Dinner)
	require.NotNil(t, set.Overnight)
	assert.Equal(t, 2100, *set.Overnight)
}

func TestParseRatesPartial(t *testing.T) {
	set := ParseRates("400 per hour, ask for more")

	require.NotNil(t, set.Hourly)
	assert.Equal(t, 400, *set.Hourly)
	assert.Nil(t, set.TwoHours)
	assert.Nil(t, set.Dinner)
	assert.Nil(t, set.Overnight)
}

func TestParseRatesNoMatch(t *testing.T) {
	set := ParseRates("contact me for rates")

	assert.Nil(t, set.Hourly)
	assert.Nil(t, set.TwoHours)
	assert.Nil(t, set.Dinner)
	assert.Nil(t, set.Overnight)
}

func TestParseRatesTwoHoursDoesNotLeakIntoHourly(t *testing.T) {
	set := ParseRates("$800/2 hours")

	assert.Nil(t, set.Hourly)
	require.NotNil(t, set.TwoHours)
	assert.Equal(t, 800, *set.TwoHours)
}

func TestHourlyRatePrecedence(t *testing.T) {
	legacy := "old $300/hour text"

	p := &Profile{
		RateHourlyIncall:  strPtr("450"),
		RateHourlyOutcall: strPtr("500"),
		Rates:             &legacy,
	}
	rate := p.HourlyRate()
	require.NotNil(t, rate)
	assert.Equal(t, 450, *rate, "structured incall wins over everything")

	p.RateHourlyIncall = nil
	rate = p.HourlyRate()
	require.NotNil(t, rate)
	assert.Equal(t, 500, *rate, "outcall next")

	p.RateHourlyOutcall = nil
	rate = p.HourlyRate()
	require.NotNil(t, rate)
	assert.Equal(t, 300, *rate, "legacy free text is the last resort")

	p.Rates = nil
	assert.Nil(t, p.HourlyRate())
}

func TestHourlyRateSkipsUnparseableFields(t *testing.T) {
	p := &Profile{
		RateHourlyIncall: strPtr("negotiable"),
		RateHourly:       strPtr("350"),
	}

	rate := p.HourlyRate()
	require.NotNil(t, rate)
	assert.Equal(t, 350, *rate)
}

func TestHeightCmNilField(t *testing.T) {
	p := &Profile{}
	assert.Nil(t, p.HeightCm())
	assert.Nil(t, p.WeightKg())
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
