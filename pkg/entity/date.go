package entity

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

// Layouts tried for anything that is not ISO or day-month-year. Sheet
// cells occasionally carry hand-typed dates in these shapes.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate turns a sheet date cell into a UTC instant. It accepts strict
// ISO YYYY-MM-DD (midnight UTC), day-month-year with - or / separators
// (2-digit years above 50 map to the 1900s, the rest to the 2000s), and a
// handful of free-form layouts. Anything unparsable reports ok=false;
// it never fails normalization.
func ParseDate(text string) (t time.Time, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	if isoDateRe.MatchString(trimmed) {
		parsed, err := time.ParseInLocation("2006-1-2", trimmed, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}

	if m := dmyDateRe.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year > 50 {
				year += 1900
			} else {
				year += 2000
			}
		}
		// time.Date normalizes out-of-range day/month values the same way
		// the sheet's previous consumers did, so "32-1-2024" rolls over
		// instead of being dropped.
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range fallbackLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
