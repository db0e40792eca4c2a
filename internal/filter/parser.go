package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

const isoDatePattern = `\d{4}-\d{2}-\d{2}`

var (
	isoSingleRe = regexp.MustCompile(`^` + isoDatePattern + `$`)
	isoRangeRe  = regexp.MustCompile(`^(` + isoDatePattern + `)\s*(?:-|\.\.)\s*(` + isoDatePattern + `)$`)
	monthOnlyRe = regexp.MustCompile(`(?i)^(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)$`)
)

// ParseDateRange parses a date range string into start and end times,
// resolved against now.
//
// Supported formats:
//   - "2025-11-21" - a single day
//   - "2025-11-21 - 2025-12-05" - an explicit range
//   - "novembre" - an entire month, next occurrence
//   - "21 novembre" - a single day, next occurrence
//   - "21 novembre - 5 décembre" - a range of day+month headers
//
// Month and day+month inputs use the same year inference as the listing
// parser: a date earlier in the year than now lands in the next year.
// Returns (dateFrom, dateTo, error); start is at 00:00:00 UTC, end at
// 23:59:59 UTC.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if isoSingleRe.MatchString(input) {
		day, err := time.Parse(event.ISODate, input)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", input)
		}
		from, to := dayBounds(day)
		return &from, &to, nil
	}

	if matches := isoRangeRe.FindStringSubmatch(input); matches != nil {
		start, err := time.Parse(event.ISODate, matches[1])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[1])
		}
		end, err := time.Parse(event.ISODate, matches[2])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[2])
		}
		from, _ := dayBounds(start)
		_, to := dayBounds(end)
		if from.After(to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return &from, &to, nil
	}

	if matches := monthOnlyRe.FindStringSubmatch(input); matches != nil {
		month, ok := event.MonthByName(matches[1])
		if !ok {
			return nil, nil, fmt.Errorf("invalid month: %s", matches[1])
		}
		year := now.Year()
		if month < now.Month() {
			year++
		}
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	// "21 novembre" or "21 novembre - 5 décembre"
	start, end, _ := strings.Cut(input, " - ")
	from, ok := parseHeaderDate(strings.TrimSpace(start), now)
	if !ok {
		return nil, nil, fmt.Errorf(
			"invalid date range format. Use '2025-11-21', '2025-11-21 - 2025-12-05', '21 novembre' or 'novembre'")
	}
	if strings.TrimSpace(end) == "" {
		f, t := dayBounds(from)
		return &f, &t, nil
	}
	to, ok := parseHeaderDate(strings.TrimSpace(end), now)
	if !ok {
		return nil, nil, fmt.Errorf("invalid date: %s", strings.TrimSpace(end))
	}
	// A range wrapping the year boundary keeps its order.
	if to.Before(from) {
		to = to.AddDate(1, 0, 0)
	}
	f, _ := dayBounds(from)
	_, t := dayBounds(to)
	return &f, &t, nil
}

func parseHeaderDate(header string, now time.Time) (time.Time, bool) {
	iso, ok := event.ParseSectionDate(header, now)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(event.ISODate, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	return from, to
}
