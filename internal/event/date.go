package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the wire format for catalog dates.
const ISODate = "2006-01-02"

// frenchMonths maps lowercase French month names to calendar months.
var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
}

var sectionDateRe = regexp.MustCompile(`(?i)(\d{1,2})\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)`)

// MonthByName resolves a French month name, case-insensitively.
func MonthByName(name string) (time.Month, bool) {
	month, ok := frenchMonths[strings.ToLower(strings.TrimSpace(name))]
	return month, ok
}

// ParseSectionDate converts a listing-page date header such as "demain" or
// "ven. 21 novembre" into an ISO date, resolved against now. A day+month
// earlier in the year than now is assumed to be next year, because listed
// events are always upcoming. Returns false for headers it cannot parse and
// for impossible day/month combinations.
func ParseSectionDate(header string, now time.Time) (string, bool) {
	if header == "" {
		return "", false
	}
	lower := strings.ToLower(strings.ReplaceAll(header, "’", "'"))

	if strings.Contains(lower, "aujourd'hui") || strings.Contains(lower, "today") {
		return now.Format(ISODate), true
	}
	if strings.Contains(lower, "demain") || strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1).Format(ISODate), true
	}

	m := sectionDateRe.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	month, ok := frenchMonths[m[2]]
	if !ok {
		return "", false
	}

	year := now.Year()
	if month < now.Month() || (month == now.Month() && day < now.Day()) {
		year++
	}

	if day < 1 || day > daysIn(month, year) {
		return "", false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(ISODate), true
}

// daysIn returns the number of days in the given month. time.Date would
// silently normalize an out-of-range day into the next month, so the bound
// is checked explicitly.
func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
