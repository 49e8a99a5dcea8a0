// =============================================================================
// Payment Interval Analyzer - Timestamp Parsing
// =============================================================================
//
// Event logs arrive from several exporters, each with its own idea of what a
// timestamp looks like. This module accepts all the shapes seen so far:
//
//   2024-01-01T10:00:00Z              RFC 3339 (with or without fraction)
//   2024-01-01T10:00:00.123+02:00     RFC 3339 with offset
//   2024-01-01 10:00:00               SQL style, no zone
//   2024-01-01 10:00:00 +0200         SQL style, numeric zone
//   2024-01-01 10:00:00.000+00        PostgreSQL timestamptz, hour-only offset
//   Mon, 01 Jan 2024 10:00:00 GMT     RFC 1123
//   Mon Jan 01 2024 10:00:00 GMT+0200 (Central European Time)
//   1/31/2024 10:00:00                US month/day/year
//   1704103200000                     Unix epoch, milliseconds (13 digits)
//   1704103200                        Unix epoch, seconds (10 digits)
//
// Timestamps without a zone are read as UTC. Precision is truncated to the
// millisecond.
//
// =============================================================================

package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display format of NormalizedEvent.Date (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// InvalidDate is the Date value of an event whose timestamp cannot be parsed.
const InvalidDate = "Invalid date"

// layouts are tried in order. Zone-less layouts come after their zoned forms.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.UnixDate,
	time.ANSIC,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

var (
	epochPattern    = regexp.MustCompile(`^\d{10}(\d{3})?$`)
	zoneNamePattern = regexp.MustCompile(`\s*\([^)]*\)$`)
)

// Parse parses a timestamp in any supported shape, reading zone-less values
// as UTC.
func Parse(s string) (time.Time, error) {
	return ParseIn(s, time.UTC)
}

// ParseIn parses a timestamp, reading zone-less values in loc.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if epochPattern.MatchString(value) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch timestamp %q: %w", s, err)
		}
		if len(value) == 13 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}

	// JavaScript Date strings end with a parenthesized zone name.
	value = zoneNamePattern.ReplaceAllString(value, "")

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatDate renders a timestamp as DD/MM/YYYY in its own offset.
// Unparseable timestamps yield InvalidDate.
func FormatDate(s string) string {
	t, err := Parse(s)
	if err != nil {
		return InvalidDate
	}
	return t.Format(DateLayout)
}
