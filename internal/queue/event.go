// Package queue carries dashboard activity events over RabbitMQ: handlers
// publish them after a write succeeds and the consumer appends one line per
// event to logs/activity.log.
package queue

import (
    "time"

    "github.com/iliyamo/photo-marketplace/internal/model"
)

// Event types.  Each type is published to the durable queue of the same name.
const (
    BookingCreated       = "booking.created"
    BookingStatusChanged = "booking.status_changed"
    TicketRaised         = "ticket.raised"
    TicketUpdated        = "ticket.updated"
)

// Queues lists every queue the consumer listens on.
var Queues = []string{BookingCreated, BookingStatusChanged, TicketRaised, TicketUpdated}

// Event is the message body.  Ref is the public BK-/TKT- reference and
// Changes holds field -> new value for update events.
type Event struct {
    Type       string            `json:"type"`
    Ref        string            `json:"ref"`
    ActorID    uint64            `json:"actor_id"`
    SellerID   uint64            `json:"seller_id,omitempty"`
    Summary    string            `json:"summary"`
    Changes    map[string]string `json:"changes,omitempty"`
    OccurredAt time.Time         `json:"occurred_at"`
}

// NewBookingCreated describes a booking placed by a customer.
func NewBookingCreated(b model.Booking, at time.Time) Event {
    return Event{
        Type:       BookingCreated,
        Ref:        b.BookingID,
        ActorID:    b.CustomerID,
        SellerID:   b.SellerID,
        Summary:    b.CustomerName + " booked " + b.PackageName + " for " + b.EventDate,
        OccurredAt: at,
    }
}

// NewBookingStatusChanged describes a seller's status update.  Only the
// fields present in upd are listed.
func NewBookingStatusChanged(b model.Booking, upd model.BookingStatusUpdate, actorID uint64, at time.Time) Event {
    changes := map[string]string{}
    set := func(k string, v *string) {
        if v != nil {
            changes[k] = *v
        }
    }
    set("paymentStatus", upd.PaymentStatus)
    set("bookingStatus", upd.BookingStatus)
    set("serviceStatus", upd.ServiceStatus)
    set("deliveryStatus", upd.DeliveryStatus)
    return Event{
        Type:       BookingStatusChanged,
        Ref:        b.BookingID,
        ActorID:    actorID,
        SellerID:   b.SellerID,
        Summary:    "booking " + b.BookingID + " updated",
        Changes:    changes,
        OccurredAt: at,
    }
}

// NewTicketRaised describes a newly submitted support ticket.
func NewTicketRaised(t model.Ticket, at time.Time) Event {
    return Event{
        Type:       TicketRaised,
        Ref:        t.TicketID,
        ActorID:    t.RaisedByID,
        Summary:    t.UserType + " ticket [" + t.Priority + "] " + t.Subject,
        OccurredAt: at,
    }
}

// NewTicketUpdated describes an admin changing status or assignment.
func NewTicketUpdated(t model.Ticket, actorID uint64, at time.Time) Event {
    changes := map[string]string{"status": t.Status}
    if t.AssignedTo != nil {
        changes["assignedTo"] = *t.AssignedTo
    }
    return Event{
        Type:       TicketUpdated,
        Ref:        t.TicketID,
        ActorID:    actorID,
        Summary:    "ticket " + t.TicketID + " updated",
        Changes:    changes,
        OccurredAt: at,
    }
}
