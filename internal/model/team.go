package model

import (
	"encoding/json"
	"strings"
	"time"
)

// TeamMember is a person working for a seller.  Designations are kept in
// the database as a JSON-encoded list.  Owner members cannot be deleted or
// deactivated.
type TeamMember struct {
	ID           uint64    `json:"id"`
	SellerID     uint64    `json:"sellerId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Designation  []string  `json:"designation"`
	Category     string    `json:"category"`
	Availability string    `json:"availability"`
	IsActive     bool      `json:"isActive"`
	IsOwner      bool      `json:"isOwner"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ParseStringList decodes a JSON-encoded list column.  Values that are not a
// JSON list of strings are treated as a single-element list holding the raw
// text; blank input yields an empty list.
func ParseStringList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		if out == nil {
			return []string{}
		}
		return out
	}
	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return []string{single}
	}
	return []string{raw}
}

// EncodeStringList is the inverse of ParseStringList.
func EncodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
