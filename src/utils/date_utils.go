package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODateFormat is the canonical date string used across all aggregates.
const ISODateFormat = "2006-01-02"

// ParsedDate is a successfully parsed ledger date: the full timestamp plus
// its canonical calendar-day string.
type ParsedDate struct {
	Time time.Time
	ISO  string // YYYY-MM-DD
}

// genericLayouts are tried, in order, for anything that is not
// slash-delimited. They cover the ISO shapes seen in the legacy exports.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLooseDate parses the date formats found in the ledger exports.
//
// A value containing "/" is ALWAYS read day-first as DD/MM/YYYY, optionally
// followed by HH:mm[:ss]. This is a deliberate disambiguation rule: the
// sources are European exports, and a month-first reading would silently
// corrupt every aggregate. If the day-first reading is not a valid calendar
// date, the value falls through to the generic layouts above.
//
// Returns ok=false when nothing parses; callers drop such rows entirely.
func ParseLooseDate(v any) (ParsedDate, bool) {
	if v == nil {
		return ParsedDate{}, false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return ParsedDate{}, false
	}

	if strings.Contains(s, "/") {
		if t, ok := parseDayFirst(s); ok {
			return ParsedDate{Time: t, ISO: t.Format(ISODateFormat)}, true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ParsedDate{Time: t, ISO: t.Format(ISODateFormat)}, true
		}
	}
	return ParsedDate{}, false
}

// parseDayFirst reads "DD/MM/YYYY" or "DD/MM/YYYY HH:mm[:ss]", defaulting
// missing time components to zero.
func parseDayFirst(s string) (time.Time, bool) {
	datePart, timePart, _ := strings.Cut(s, " ")

	dmy := strings.Split(datePart, "/")
	if len(dmy) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(dmy[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(dmy[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(dmy[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	var hh, mm, ss int
	if timePart != "" {
		hms := strings.Split(timePart, ":")
		parts := []*int{&hh, &mm, &ss}
		for i := 0; i < len(hms) && i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(hms[i]))
			if err != nil {
				return time.Time{}, false
			}
			*parts[i] = n
		}
	}

	t := time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.UTC)
	// time.Date normalizes out-of-range components (32/01 becomes 01/02);
	// reject those so the value falls through to the generic layouts.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// MonthKey identifies the calendar month of t, e.g. "2025-04".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
