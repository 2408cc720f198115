package model

import "time"

// Booking status values.  The four status fields on a booking are
// independent; nothing reconciles them with each other or with the amounts.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"

	ServiceNotStarted = "not_started"
	ServiceInProgress = "in_progress"
	ServiceCompleted  = "completed"

	DeliveryPending    = "pending"
	DeliveryInProgress = "in_progress"
	DeliveryDelivered  = "delivered"
)

// Booking is a customer's booking of a photographer's package.
//
// Fields:
//  ID              – bookings.id primary key.
//  BookingID       – public reference shown on the dashboards (BK-xxxxxxxx).
//  SellerID        – users.id of the photographer/vendor.
//  CustomerID      – users.id of the customer.
//  EventDate       – date string as sent by the dashboards (YYYY-MM-DD).
//  EventTime       – free-form time string (e.g. "18:30").
//  Duration        – free-form duration string (e.g. "4 hours").
//  TotalAmount     – package price; Advance and Remaining are not checked
//                    against it after creation.
type Booking struct {
	ID               uint64    `json:"id"`
	BookingID        string    `json:"bookingId"`
	SellerID         uint64    `json:"sellerId"`
	CustomerID       uint64    `json:"customerId"`
	CustomerName     string    `json:"customerName"`
	CustomerEmail    string    `json:"customerEmail"`
	CustomerPhone    string    `json:"customerPhone"`
	PhotographerName string    `json:"photographerName"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory"`
	PackageType      string    `json:"packageType"`
	PackageName      string    `json:"packageName"`
	EventDate        string    `json:"eventDate"`
	EventTime        string    `json:"eventTime"`
	Duration         string    `json:"duration"`
	TotalAmount      float64   `json:"totalAmount"`
	AdvanceAmount    float64   `json:"advanceAmount"`
	RemainingAmount  float64   `json:"remainingAmount"`
	PaymentStatus    string    `json:"paymentStatus"`
	BookingStatus    string    `json:"bookingStatus"`
	ServiceStatus    string    `json:"serviceStatus"`
	DeliveryStatus   string    `json:"deliveryStatus"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BookingStatusUpdate carries the status fields a seller may change.  Nil
// fields are left untouched.
type BookingStatusUpdate struct {
	PaymentStatus  *string
	BookingStatus  *string
	ServiceStatus  *string
	DeliveryStatus *string
}

// Empty reports whether no field is set.
func (u BookingStatusUpdate) Empty() bool {
	return u.PaymentStatus == nil && u.BookingStatus == nil && u.ServiceStatus == nil && u.DeliveryStatus == nil
}
