package profiles

import (
	"math"
	"regexp"
	"strconv"
)

// RateSet holds the rates extracted from a legacy free-text rates field.
// Only the fields that matched are set.
type RateSet struct {
	Hourly    *int `json:"hourly,omitempty"`
	TwoHours  *int `json:"two_hours,omitempty"`
	Dinner    *int `json:"dinner,omitempty"`
	Overnight *int `json:"overnight,omitempty"`
}

var (
	hourlyRe    = regexp.MustCompile(`(?i)\$?\s*(\d+)\s*(?:/|per\s+)\s*(?:hr|hour|h)\b`)
	twoHoursRe  = regexp.MustCompile(`(?i)\$?\s*(\d+)\s*(?:/|per\s+)\s*(?:2|two)\s*(?:hrs|hours|hour|h)\b`)
	dinnerRe    = regexp.MustCompile(`(?i)\$?\s*(\d+)\s*(?:/|per\s+)\s*dinner`)
	overnightRe = regexp.MustCompile(`(?i)\$?\s*(\d+)\s*(?:/|per\s+)\s*overnight`)

	cmRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*cm`)
	feetRe   = regexp.MustCompile(`(\d)\s*'\s*(\d{1,2})`)
	kgRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kg`)
	lbsRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lbs?|pounds)`)
	digitsRe = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseRates extracts the known rate fields from a free-text rates string,
// e.g. "$420/hour, $2100/overnight". Each field is matched independently;
// text that matches nothing yields an empty set, never an error.
func ParseRates(text string) RateSet {
	var set RateSet
	set.Hourly = matchAmount(hourlyRe, text)
	set.TwoHours = matchAmount(twoHoursRe, text)
	set.Dinner = matchAmount(dinnerRe, text)
	set.Overnight = matchAmount(overnightRe, text)
	return set
}

func matchAmount(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ParseHeight normalizes a free-text height to centimeters.
// "172cm" -> 172, "5'6\"" -> 168, plain leading digits are taken as cm.
// Unparseable input returns nil.
func ParseHeight(s string) *int {
	if m := cmRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			cm := int(math.Round(v))
			return &cm
		}
	}

	if m := feetRe.FindStringSubmatch(s); m != nil {
		feet, err1 := strconv.Atoi(m[1])
		inches, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			cm := int(math.Round(float64(feet*12+inches) * 2.54))
			return &cm
		}
	}

	if m := digitsRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}

	return nil
}

// ParseWeight normalizes a free-text weight to kilograms.
// "55kg" -> 55, "121lbs" -> 55, plain leading digits are taken as kg.
// Unparseable input returns nil.
func ParseWeight(s string) *int {
	if m := kgRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			kg := int(math.Round(v))
			return &kg
		}
	}

	if m := lbsRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			kg := int(math.Round(v * 0.453592))
			return &kg
		}
	}

	if m := digitsRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}

	return nil
}

// HeightCm returns the profile's height in centimeters, or nil when the
// field is absent or unparseable.
func (p *Profile) HeightCm() *int {
	if p.Height == nil {
		return nil
	}
	return ParseHeight(*p.Height)
}

// WeightKg returns the profile's weight in kilograms, or nil when the
// field is absent or unparseable.
func (p *Profile) WeightKg() *int {
	if p.Weight == nil {
		return nil
	}
	return ParseWeight(*p.Weight)
}

// HourlyRate returns the profile's effective hourly price: the first of the
// structured incall/outcall/legacy hourly fields that parses, falling back
// to the legacy free-text rates string. Nil when no rate is available.
func (p *Profile) HourlyRate() *int {
	for _, field := range []*string{p.RateHourlyIncall, p.RateHourlyOutcall, p.RateHourly} {
		if field == nil {
			continue
		}
		if v, err := strconv.Atoi(*field); err == nil {
			return &v
		}
	}

	if p.Rates != nil {
		return ParseRates(*p.Rates).Hourly
	}

	return nil
}
