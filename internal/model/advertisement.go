package model

import "time"

const (
	PositionBanner   = "banner"
	PositionSidebar  = "sidebar"
	PositionHomepage = "homepage"
)

// Advertisement is a placement shown on the public site.
type Advertisement struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Link        string    `json:"link"`
	Position    string    `json:"position"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
