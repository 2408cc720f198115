package model

import (
	"math"
	"time"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a discount code managed by admins.  Its status (active,
// expired, limit reached...) is derived on read and never stored.
type Coupon struct {
	ID             uint64    `json:"id"`
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	DiscountType   string    `json:"discountType"`
	DiscountValue  float64   `json:"discountValue"`
	MaxDiscount    *float64  `json:"maxDiscount,omitempty"`
	MinOrderAmount float64   `json:"minOrderAmount"`
	UsageLimit     *int      `json:"usageLimit,omitempty"`
	UsedCount      int       `json:"usedCount"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Discount returns the amount taken off an order of orderAmount.  Orders
// below MinOrderAmount get nothing; a percentage discount is capped by
// MaxDiscount when set, and no discount exceeds the order itself.
func (c Coupon) Discount(orderAmount float64) float64 {
	if orderAmount <= 0 || orderAmount < c.MinOrderAmount {
		return 0
	}
	var d float64
	switch c.DiscountType {
	case DiscountPercentage:
		d = orderAmount * c.DiscountValue / 100
		if c.MaxDiscount != nil && d > *c.MaxDiscount {
			d = *c.MaxDiscount
		}
	case DiscountFixed:
		d = c.DiscountValue
	}
	if d > orderAmount {
		d = orderAmount
	}
	if d < 0 {
		d = 0
	}
	return math.Round(d*100) / 100
}
