package mute

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Intensity selects how much fixed time is added on top of a parsed duration.
//
//go:generate go tool enumer -type=Intensity -trimprefix=Intensity -transform=lower
type Intensity int

const (
	// IntensityNormal adds nothing.
	IntensityNormal Intensity = iota
	// IntensityExtended adds one week.
	IntensityExtended
	// IntensityMaximum adds 365 days.
	IntensityMaximum
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

// MaxUntil is the latest expiry that can be represented. Spans that would
// reach past it are clamped.
var MaxUntil = time.Unix(0, math.MaxInt64).UTC()

// Bonus returns the fixed span the intensity adds.
func (i Intensity) Bonus() time.Duration {
	switch i {
	case IntensityExtended:
		return week
	case IntensityMaximum:
		return year
	case IntensityNormal:
		return 0
	default:
		return 0
	}
}

// Resolution is the outcome of resolving a duration.
// A nil Until means the suspension is indefinite.
type Resolution struct {
	Span  time.Duration
	Until *time.Time
}

// Indefinite reports whether no expiry was resolved.
func (r Resolution) Indefinite() bool {
	return r.Until == nil
}

var (
	compoundPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)([a-z]+)`)
	numberPattern   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	units = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": day, "day": day, "days": day,
		"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
		"mo": 30 * day, "month": 30 * day, "months": 30 * day,
		"y": year, "yr": year, "yrs": year, "year": year, "years": year,
	}
)

// Resolve turns raw command tokens and an intensity into a span and an absolute expiry.
// Tokens that do not describe a duration are ignored. When nothing is parsed and the
// intensity adds no time, the zero Resolution (indefinite) is returned.
func Resolve(tokens []string, intensity Intensity, now time.Time) Resolution {
	span, found := ParseSpan(tokens)
	bonus := intensity.Bonus()
	if !found && bonus == 0 {
		return Resolution{}
	}

	return clamp(saturatingAdd(span, bonus), now)
}

// ParseSpan sums every duration expression found in the tokens. It accepts compact
// forms like "2h" or "1d12h" and split forms like "3 days". The second return value
// is false if no expression was found.
func ParseSpan(tokens []string) (time.Duration, bool) {
	var (
		total time.Duration
		found bool
	)

	normalized := make([]string, len(tokens))
	for i, tok := range tokens {
		normalized[i] = normalizeToken(tok)
	}

	for i := 0; i < len(normalized); i++ {
		tok := normalized[i]
		if tok == "" {
			continue
		}

		// Split form: a bare number followed by a unit word
		if numberPattern.MatchString(tok) {
			if i+1 < len(normalized) {
				if unit, ok := units[normalized[i+1]]; ok {
					total = saturatingAdd(total, scale(tok, unit))
					found = true
					i++
				}
			}
			continue
		}

		// Compact form: every part of the token must be a number-unit pair
		if span, ok := parseCompact(tok); ok {
			total = saturatingAdd(total, span)
			found = true
		}
	}

	return total, found
}

// parseCompact parses tokens like "90m" or "1w2d3h".
func parseCompact(tok string) (time.Duration, bool) {
	matches := compoundPattern.FindAllStringSubmatch(tok, -1)
	if len(matches) == 0 {
		return 0, false
	}

	var (
		total    time.Duration
		consumed int
	)
	for _, m := range matches {
		unit, ok := units[m[2]]
		if !ok {
			return 0, false
		}
		consumed += len(m[0])
		total = saturatingAdd(total, scale(m[1], unit))
	}

	if consumed != len(tok) {
		return 0, false
	}

	return total, true
}

// normalizeToken folds width variants and case, and strips separators users
// commonly type around durations.
func normalizeToken(tok string) string {
	tok = strings.ToLower(norm.NFKC.String(tok))
	return strings.Trim(tok, " \t.,;:!?()[]")
}

// scale multiplies a decimal amount by a unit, saturating at the largest duration.
func scale(amount string, unit time.Duration) time.Duration {
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || value < 0 {
		return 0
	}

	product := value * float64(unit)
	if product >= math.MaxInt64 {
		return math.MaxInt64
	}

	return time.Duration(product)
}

// saturatingAdd adds two non-negative durations without wrapping.
func saturatingAdd(a, b time.Duration) time.Duration {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// clamp converts a span into an expiry, keeping both within MaxUntil.
func clamp(span time.Duration, now time.Time) Resolution {
	limit := MaxUntil.Sub(now)
	if span >= limit {
		until := MaxUntil
		return Resolution{Span: limit, Until: &until}
	}

	until := now.Add(span).UTC()
	return Resolution{Span: span, Until: &until}
}
