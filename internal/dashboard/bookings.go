// Package dashboard builds the tabbed views the admin, seller and customer
// dashboards render.  It only arranges records already loaded from the
// repositories; all date and status logic comes from the classify package.
package dashboard

import (
	"time"

	"github.com/iliyamo/photo-marketplace/internal/classify"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// Booking tab names.
const (
	TabAll      = "all"
	TabToday    = "today"
	TabFollowup = "followup"
	TabDelivery = "delivery"
	TabAdvance  = "advance"
)

// BookingTabNames lists the booking tabs in display order.
var BookingTabNames = []string{TabToday, TabFollowup, TabDelivery, TabAdvance}

var bookingSearchFields = []classify.Field[model.Booking]{
	func(b model.Booking) string { return b.BookingID },
	func(b model.Booking) string { return b.CustomerName },
	func(b model.Booking) string { return b.CustomerEmail },
	func(b model.Booking) string { return b.CustomerPhone },
	func(b model.Booking) string { return b.PhotographerName },
	func(b model.Booking) string { return b.Category },
	func(b model.Booking) string { return b.PackageName },
}

func notCancelled(b model.Booking) bool { return b.BookingStatus != model.BookingCancelled }

// BookingTabs returns the booking buckets evaluated at now.
func BookingTabs(now time.Time) []classify.Bucket[model.Booking] {
	loc := now.Location()
	return []classify.Bucket[model.Booking]{
		{
			Name:  TabToday,
			Match: func(b model.Booking) bool { return notCancelled(b) && classify.IsToday(b.EventDate, now) },
			Less:  func(a, b model.Booking) bool { return a.CreatedAt.After(b.CreatedAt) },
		},
		{
			Name:  TabFollowup,
			Match: func(b model.Booking) bool { return notCancelled(b) && classify.IsTomorrow(b.EventDate, now) },
		},
		{
			Name: TabDelivery,
			Match: func(b model.Booking) bool {
				return b.DeliveryStatus == model.DeliveryPending && b.BookingStatus == model.BookingCompleted
			},
		},
		{
			Name: TabAdvance,
			Match: func(b model.Booking) bool {
				return notCancelled(b) && classify.IsDaysAhead(b.EventDate, now, classify.AdvanceThresholdDays)
			},
			Less: func(a, b model.Booking) bool {
				ta, _ := classify.ParseDate(a.EventDate, loc)
				tb, _ := classify.ParseDate(b.EventDate, loc)
				return ta.Before(tb)
			},
		},
	}
}

// BookingQuery narrows a booking list.  Empty fields do not filter.
type BookingQuery struct {
	Tab           string
	Search        string
	PaymentStatus string
	BookingStatus string
}

// BookingPage is one rendered booking tab.  Tabs holds the size of every
// tab after the status filters but before the search.
type BookingPage struct {
	Tab   string          `json:"tab"`
	Items []model.Booking `json:"items"`
	Count int             `json:"count"`
	Tabs  map[string]int  `json:"tabs"`
}

// Bookings applies q to bookings at now.  Status filters run first, then
// the tab, then the search, so a search never reaches outside the tab.
func Bookings(bookings []model.Booking, q BookingQuery, now time.Time) BookingPage {
	filtered := classify.Filter(bookings, func(b model.Booking) bool {
		if q.PaymentStatus != "" && q.PaymentStatus != TabAll && b.PaymentStatus != q.PaymentStatus {
			return false
		}
		if q.BookingStatus != "" && q.BookingStatus != TabAll && b.BookingStatus != q.BookingStatus {
			return false
		}
		return true
	})

	parts := classify.Partition(filtered, BookingTabs(now)...)
	tabs := parts.Counts()
	tabs[TabAll] = len(filtered)

	tab := q.Tab
	items := filtered
	if r, ok := parts[tab]; ok {
		items = r.Items
	} else {
		tab = TabAll
	}

	items = classify.Search(items, q.Search, bookingSearchFields...)
	return BookingPage{Tab: tab, Items: items, Count: len(items), Tabs: tabs}
}
