package model

import "time"

// Gift is a gift card offered on the marketplace.  It shares the
// validity/activity shape of a coupon but carries no discount.
type Gift struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	GiftCode    string    `json:"giftCode"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
