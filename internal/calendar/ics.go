// Package calendar renders catalog events as iCalendar files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

// GenerateCatalogICS renders a catalog as one calendar, skipping events
// without any usable date.
func GenerateCatalogICS(events []*event.Event, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Outy Events//outy-events//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	for _, evt := range events {
		if _, _, ok := eventTimes(evt); !ok {
			continue
		}
		writeVEvent(&ics, evt, now)
	}
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeVEvent(ics *strings.Builder, evt *event.Event, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@outy.events\r\n", uidOf(evt)))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	startTime, endTime, _ := eventTimes(evt)
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(startTime)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(endTime)))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Name)))

	if evt.Description != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(evt.Description)))
	}

	location := evt.VenueName
	if evt.Address != "" {
		if location != "" {
			location = fmt.Sprintf("%s, %s", location, evt.Address)
		} else {
			location = evt.Address
		}
	}
	if location == "" {
		location = evt.City
	}
	if location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}

	if evt.TicketLink != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.TicketLink))
	} else if evt.ListingURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.ListingURL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// eventTimes derives the event's start and end. Explicit timestamps win;
// otherwise the catalog date plus the listed door time sets the start, with
// a six hour default duration for a night event.
func eventTimes(evt *event.Event) (time.Time, time.Time, bool) {
	if evt.StartDate != "" {
		if start, err := time.Parse(time.RFC3339, evt.StartDate); err == nil {
			end := start.Add(6 * time.Hour)
			if evt.EndDate != "" {
				if parsed, err := time.Parse(time.RFC3339, evt.EndDate); err == nil {
					end = parsed
				}
			}
			return start.UTC(), end.UTC(), true
		}
	}

	if evt.Date == "" {
		return time.Time{}, time.Time{}, false
	}
	day, err := time.Parse(event.ISODate, evt.Date)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	hour, min := 23, 0
	if evt.Time != "" {
		if t, err := time.Parse("15:04", evt.Time); err == nil {
			hour, min = t.Hour(), t.Minute()
		}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
	return start, start.Add(6 * time.Hour), true
}

// uidOf builds a stable identifier from the event's name and date.
func uidOf(evt *event.Event) string {
	normalized := strings.ToLower(strings.TrimSpace(evt.Name))
	normalized = strings.Join(strings.Fields(normalized), "-")
	if evt.Date != "" {
		return evt.Date + "-" + normalized
	}
	return normalized
}

// formatICSTime formats a time.Time as an iCalendar datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
