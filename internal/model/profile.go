package model

import "time"

// SellerProfile is the public vendor profile of a seller account.
type SellerProfile struct {
	UserID       uint64    `json:"userId"`
	BusinessName string    `json:"businessName"`
	OwnerName    string    `json:"ownerName"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Bio          string    `json:"bio"`
	Website      string    `json:"website"`
	Categories   []string  `json:"categories"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
