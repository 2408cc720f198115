package dashboard

import (
	"github.com/iliyamo/photo-marketplace/internal/classify"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// Ticket status groups used as the second level of the ticket tabs.
const (
	GroupOpen    = "open"
	GroupPending = "pending"
	GroupClosed  = "closed"
)

// TicketGroup maps a ticket status onto its tab group.  resolved and closed
// share one group.  Unknown statuses belong to no group.
func TicketGroup(status string) string {
	switch status {
	case model.TicketOpen:
		return GroupOpen
	case model.TicketInProgress:
		return GroupPending
	case model.TicketResolved, model.TicketClosed:
		return GroupClosed
	}
	return ""
}

// TicketTabName joins a submitter type and a status group ("client/open").
func TicketTabName(userType, group string) string { return userType + "/" + group }

// TicketTabNames lists every ticket tab.
var TicketTabNames = func() []string {
	var out []string
	for _, ut := range []string{model.UserTypeClient, model.UserTypePhotographer} {
		for _, g := range []string{GroupOpen, GroupPending, GroupClosed} {
			out = append(out, TicketTabName(ut, g))
		}
	}
	return out
}()

var ticketSearchFields = []classify.Field[model.Ticket]{
	func(t model.Ticket) string { return t.TicketID },
	func(t model.Ticket) string { return t.Subject },
	func(t model.Ticket) string { return t.RaisedBy },
	func(t model.Ticket) string { return t.Category },
}

// TicketTabs partitions tickets first by submitter type, then by status
// group.
func TicketTabs() []classify.Bucket[model.Ticket] {
	var out []classify.Bucket[model.Ticket]
	for _, ut := range []string{model.UserTypeClient, model.UserTypePhotographer} {
		for _, g := range []string{GroupOpen, GroupPending, GroupClosed} {
			userType, group := ut, g
			out = append(out, classify.Bucket[model.Ticket]{
				Name: TicketTabName(userType, group),
				Match: func(t model.Ticket) bool {
					return t.UserType == userType && TicketGroup(t.Status) == group
				},
				Less: func(a, b model.Ticket) bool { return a.CreatedAt.After(b.CreatedAt) },
			})
		}
	}
	return out
}

// TicketQuery selects a ticket tab and search text.
type TicketQuery struct {
	Tab      string
	Search   string
	Priority string
}

// TicketPage is one rendered ticket tab.
type TicketPage struct {
	Tab   string         `json:"tab"`
	Items []model.Ticket `json:"items"`
	Count int            `json:"count"`
	Tabs  map[string]int `json:"tabs"`
}

// Tickets applies q to tickets.  An unknown tab falls back to the client
// open tab, which is what the admin dashboard opens on.
func Tickets(tickets []model.Ticket, q TicketQuery) TicketPage {
	filtered := tickets
	if q.Priority != "" && q.Priority != TabAll {
		filtered = classify.Filter(tickets, func(t model.Ticket) bool { return t.Priority == q.Priority })
	}
	parts := classify.Partition(filtered, TicketTabs()...)

	tab := q.Tab
	if _, ok := parts[tab]; !ok {
		tab = TicketTabName(model.UserTypeClient, GroupOpen)
	}
	items := classify.Search(parts[tab].Items, q.Search, ticketSearchFields...)
	return TicketPage{Tab: tab, Items: items, Count: len(items), Tabs: parts.Counts()}
}
