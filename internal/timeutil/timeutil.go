// Package timeutil normalizes the timestamp formats the CRM backend emits
// (epoch seconds, epoch milliseconds, ISO-like strings with or without a
// timezone) into a single comparable epoch-millisecond instant.
package timeutil

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// secondsThreshold separates epoch-second from epoch-millisecond numeric
// timestamps. Anything at or below 10^10 is treated as seconds.
const secondsThreshold = 1e10

// tzQualifier matches strings that already carry a timezone: a trailing "Z"
// or a trailing "+HH:MM"/"-HH:MM"/"+HHMM" offset. Strings without one are
// assumed to be UTC; the backend stores naive UTC timestamps and parsing
// them as local time would skew every relative-time display.
var tzQualifier = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)

// layouts tried in order for string timestamps. The backend uses the
// space-separated form; RFC3339 covers echoes from newer endpoints.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02Z07:00",
}

// Parse converts any supported timestamp representation to epoch
// milliseconds. It is total over its input domain: it never fails and never
// returns a negative instant. Unparseable input yields 0, the "unknown"
// sentinel, so a single malformed record cannot break a feed render.
func Parse(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case time.Time:
		if t.IsZero() {
			return 0
		}
		return clamp(t.UnixMilli())
	case int:
		return fromNumeric(float64(t))
	case int32:
		return fromNumeric(float64(t))
	case int64:
		return fromNumeric(float64(t))
	case float32:
		return fromNumeric(float64(t))
	case float64:
		return fromNumeric(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return fromString(t.String())
		}
		return fromNumeric(f)
	case string:
		return fromString(t)
	default:
		// Last-resort generic attempt for exotic inputs.
		return fromString(fmt.Sprint(v))
	}
}

// ParseJSON parses a raw JSON value (number, string, or null) holding a
// timestamp. Same totality contract as Parse.
func ParseJSON(raw json.RawMessage) int64 {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	return Parse(v)
}

func fromNumeric(f float64) int64 {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f <= secondsThreshold {
		return int64(math.Floor(f * 1000))
	}
	return int64(f)
}

func fromString(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if !tzQualifier.MatchString(s) {
		s += "Z"
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clamp(t.UnixMilli())
		}
	}
	return 0
}

func clamp(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}

// UnknownLabel is rendered for the 0 sentinel.
const UnknownLabel = "unknown"

// FormatRelative renders an epoch-millisecond instant relative to now:
// "just now" under a minute, then minute and hour buckets, then an absolute
// local date-time. The 0 sentinel always renders as UnknownLabel.
func FormatRelative(ms int64, now time.Time) string {
	if ms == 0 {
		return UnknownLabel
	}
	diff := now.UnixMilli() - ms
	switch {
	case diff < time.Minute.Milliseconds():
		return "just now"
	case diff < time.Hour.Milliseconds():
		return fmt.Sprintf("%d minutes ago", diff/time.Minute.Milliseconds())
	case diff < (24 * time.Hour).Milliseconds():
		return fmt.Sprintf("%d hours ago", diff/time.Hour.Milliseconds())
	default:
		return time.UnixMilli(ms).Format("02.01.2006 15:04")
	}
}
