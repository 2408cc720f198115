// Package classify holds the pure helpers the dashboards use to sort records
// into tabs: calendar-day comparisons, derived status labels, bucket
// partitioning and case-insensitive search.  Nothing in here touches the
// database or the clock; callers always pass "now" explicitly.
package classify

import (
	"strings"
	"time"
)

// AdvanceThresholdDays is the minimum number of days between now and an
// event date for a booking to count as an advance booking.
const AdvanceThresholdDays = 2

// dateLayouts lists the formats the dashboards are known to send.  Layouts
// without a zone are interpreted in the caller's location.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a record's date string and returns it in loc.  Strings
// carrying their own offset are converted, so the calendar day is always
// the one seen in loc.  Empty or unparsable values report false instead of
// an error so that date predicates simply fail to match.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// IsSameCalendarDay reports whether a and b fall on the same year, month and
// day.  b is viewed in a's location; time of day is ignored.
func IsSameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the number of calendar days from b to a (a - b) with
// both truncated to midnight in a's location.
func DaysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	// Counting in UTC keeps DST transitions from producing 23h or 25h days.
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}

// IsToday reports whether date falls on the same calendar day as now.
func IsToday(date string, now time.Time) bool {
	t, ok := ParseDate(date, now.Location())
	return ok && IsSameCalendarDay(t, now)
}

// IsTomorrow reports whether date falls on the calendar day after now.
func IsTomorrow(date string, now time.Time) bool {
	t, ok := ParseDate(date, now.Location())
	return ok && IsSameCalendarDay(t, now.AddDate(0, 0, 1))
}

// IsDaysAhead reports whether date is at least n calendar days after now.
func IsDaysAhead(date string, now time.Time, n int) bool {
	t, ok := ParseDate(date, now.Location())
	return ok && DaysBetween(t, now) >= n
}
