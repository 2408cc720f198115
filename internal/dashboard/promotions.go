package dashboard

import (
	"time"

	"github.com/iliyamo/photo-marketplace/internal/classify"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// CouponView is a coupon decorated with its derived status.
type CouponView struct {
	model.Coupon
	Status classify.Status `json:"status"`
}

// GiftView is a gift decorated with its derived status.
type GiftView struct {
	model.Gift
	Status classify.Status `json:"status"`
}

// AdvertisementView is an advertisement decorated with its derived status.
type AdvertisementView struct {
	model.Advertisement
	Status classify.Status `json:"status"`
}

// ListQuery filters a promotion list by derived status, search text and,
// for advertisements, position.
type ListQuery struct {
	Status   string
	Search   string
	Position string
}

// ListPage is a filtered promotion list together with the number of
// records per status before any filtering.
type ListPage[T any] struct {
	Items  []T            `json:"items"`
	Count  int            `json:"count"`
	Counts map[string]int `json:"counts"`
}

// CouponStatus derives the status of c at now.
func CouponStatus(c model.Coupon, now time.Time) classify.Status {
	return classify.ResolveStatus(classify.Validity{
		IsActive:   c.IsActive,
		EndDate:    c.EndDate,
		UsedCount:  c.UsedCount,
		UsageLimit: c.UsageLimit,
	}, now)
}

// GiftStatus derives the status of g at now.
func GiftStatus(g model.Gift, now time.Time) classify.Status {
	return classify.ResolveStatus(classify.Validity{IsActive: g.IsActive, EndDate: g.EndDate}, now)
}

// AdvertisementStatus derives the status of a at now.
func AdvertisementStatus(a model.Advertisement, now time.Time) classify.Status {
	return classify.ResolveStatus(classify.Validity{IsActive: a.IsActive, EndDate: a.EndDate}, now)
}

// HasStarted reports whether a start date, when parseable, is not after now.
// Records without a usable start date count as started.
func HasStarted(startDate string, now time.Time) bool {
	start, ok := classify.ParseDate(startDate, now.Location())
	return !ok || !start.After(now)
}

func statusBuckets[T any](status func(T) classify.Status) []classify.Bucket[T] {
	out := make([]classify.Bucket[T], 0, len(classify.Statuses))
	for _, s := range classify.Statuses {
		st := s
		out = append(out, classify.Bucket[T]{
			Name:  string(st),
			Match: func(v T) bool { return status(v) == st },
		})
	}
	return out
}

func listPage[T any](views []T, q ListQuery, status func(T) classify.Status, fields ...classify.Field[T]) ListPage[T] {
	counts := classify.Partition(views, statusBuckets(status)...).Counts()
	counts[TabAll] = len(views)

	items := views
	if st, ok := classify.ParseStatus(q.Status); ok {
		items = classify.Filter(items, func(v T) bool { return status(v) == st })
	}
	items = classify.Search(items, q.Search, fields...)
	return ListPage[T]{Items: items, Count: len(items), Counts: counts}
}

// Coupons decorates and filters coupons at now.
func Coupons(coupons []model.Coupon, q ListQuery, now time.Time) ListPage[CouponView] {
	views := make([]CouponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, CouponView{Coupon: c, Status: CouponStatus(c, now)})
	}
	return listPage(views, q,
		func(v CouponView) classify.Status { return v.Status },
		func(v CouponView) string { return v.Code },
		func(v CouponView) string { return v.Description },
	)
}

// Gifts decorates and filters gifts at now.
func Gifts(gifts []model.Gift, q ListQuery, now time.Time) ListPage[GiftView] {
	views := make([]GiftView, 0, len(gifts))
	for _, g := range gifts {
		views = append(views, GiftView{Gift: g, Status: GiftStatus(g, now)})
	}
	return listPage(views, q,
		func(v GiftView) classify.Status { return v.Status },
		func(v GiftView) string { return v.Name },
		func(v GiftView) string { return v.GiftCode },
	)
}

// Advertisements decorates and filters advertisements at now.  The position
// filter runs before the status counts are taken.
func Advertisements(ads []model.Advertisement, q ListQuery, now time.Time) ListPage[AdvertisementView] {
	views := make([]AdvertisementView, 0, len(ads))
	for _, a := range ads {
		if q.Position != "" && q.Position != TabAll && a.Position != q.Position {
			continue
		}
		views = append(views, AdvertisementView{Advertisement: a, Status: AdvertisementStatus(a, now)})
	}
	return listPage(views, q,
		func(v AdvertisementView) classify.Status { return v.Status },
		func(v AdvertisementView) string { return v.Title },
		func(v AdvertisementView) string { return v.Description },
	)
}
