package classify

import "time"

// Status is a label derived from a record's activity flag, validity window
// and usage counters.  It is never stored.
type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusExpired      Status = "expired"
	StatusLimitReached Status = "limit_reached"
)

// Statuses lists every label ResolveStatus can return, in precedence order.
var Statuses = []Status{StatusInactive, StatusExpired, StatusLimitReached, StatusActive}

// ParseStatus maps a query value onto a Status.  Unknown values report false.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Validity is the subset of a coupon, gift or advertisement that decides
// its status.  UsageLimit is nil when the record has no limit.
type Validity struct {
	IsActive   bool
	EndDate    string
	UsedCount  int
	UsageLimit *int
}

// ResolveStatus classifies v at now.  The first matching rule wins:
// inactive, then expired, then limit reached, otherwise active.
func ResolveStatus(v Validity, now time.Time) Status {
	if !v.IsActive {
		return StatusInactive
	}
	if end, ok := ParseDate(v.EndDate, now.Location()); ok && end.Before(now) {
		return StatusExpired
	}
	if v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit {
		return StatusLimitReached
	}
	return StatusActive
}
