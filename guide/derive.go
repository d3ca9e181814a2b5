package guide

import (
	"fmt"
	"math"
	"strings"
	"time"

	"procentric-epg/consts"
)

// TimeParseError reports a timestamp that does not match the expected
// wire format.
type TimeParseError struct {
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("cannot parse timestamp %q: %v", e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error { return e.Err }

var punctReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-",
	"\u2026", "...",
	"\u00a0", " ",
)

// CleanString maps curly quotes and similar punctuation to ASCII
// equivalents and drops every remaining non-ASCII character. The
// Pro:Centric ingest chokes on anything outside ASCII.
func CleanString(s string) string {
	s = punctReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeText reads an optional string field from a decoded JSON object.
// A nil parent or missing key yields the cleaned default; present
// values are stringified and cleaned.
func SafeText(parent map[string]any, key, def string) string {
	if parent == nil {
		return CleanString(def)
	}
	v, ok := parent[key]
	if !ok || v == nil {
		return CleanString(def)
	}
	return CleanString(fmt.Sprint(v))
}

// Zone returns the fixed location for an offset in minutes east of UTC.
func Zone(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	return time.FixedZone("", offsetMinutes*60)
}

// MsClock converts epoch milliseconds into a (date, HHMM) pair in the
// given fixed offset.
func MsClock(ms int64, offsetMinutes int) (date, clock string) {
	t := time.UnixMilli(ms).In(Zone(offsetMinutes))
	return t.Format(consts.DATE_FORMAT), t.Format(consts.CLOCK_FORMAT)
}

// ParseWireTime parses an XMLTV "20060102150405 -0700" timestamp.
func ParseWireTime(ts string) (time.Time, error) {
	t, err := time.Parse(consts.WIRE_TIME_FORMAT, ts)
	if err != nil {
		return time.Time{}, &TimeParseError{Value: ts, Err: err}
	}
	return t, nil
}

// WireClock reinterprets a wire timestamp into the given fixed offset
// and returns the (date, HHMM) pair.
func WireClock(ts string, offsetMinutes int) (date, clock string, err error) {
	t, err := ParseWireTime(ts)
	if err != nil {
		return "", "", err
	}
	local := t.In(Zone(offsetMinutes))
	return local.Format(consts.DATE_FORMAT), local.Format(consts.CLOCK_FORMAT), nil
}

// MsMinutes is the whole number of minutes between two epoch-millisecond
// instants. A stop before start yields a negative count; malformed
// upstream data is passed through without clamping.
func MsMinutes(startMs, endMs int64) int {
	return int(math.Floor(float64(endMs-startMs) / 60000))
}

// WireMinutes is the whole number of minutes between two wire
// timestamps, each honoring its own embedded offset.
func WireMinutes(start, stop string) (int, error) {
	s, err := ParseWireTime(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseWireTime(stop)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(e.Sub(s).Minutes())), nil
}
