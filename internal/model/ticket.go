package model

import "time"

const (
	UserTypeClient       = "client"
	UserTypePhotographer = "photographer"
	UserTypeAdmin        = "admin"

	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket is a support request raised by a client, a photographer or an
// admin.
//
// Fields:
//  TicketID   – public reference (TKT-xxxxxxxx).
//  RaisedBy   – display name of the submitter.
//  RaisedByID – users.id of the submitter.
//  UserType   – client | photographer | admin.
//  Category   – booking | payment | technical | account | other.
//  Priority   – low | medium | high | urgent.
//  Status     – open | in_progress | resolved | closed.
//  AssignedTo – admin handling the ticket (nil when unassigned).
type Ticket struct {
	ID          uint64    `json:"id"`
	TicketID    string    `json:"ticketId"`
	RaisedBy    string    `json:"raisedBy"`
	RaisedByID  uint64    `json:"raisedById"`
	UserType    string    `json:"userType"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
