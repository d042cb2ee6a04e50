package kafka

import "time"

const (
	EventBookingCreated      = "booking_created"
	EventBookingHandedOver   = "booking_handed_over"
	EventBookingReturned     = "booking_returned"
	EventInvoiceEmailRequest = "invoice_email_requested"
)

// BookingEvent is published to the booking-events topic keyed by confirmation number.
type BookingEvent struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	BookingID          int64     `json:"booking_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	CarID              int64     `json:"car_id"`
	CustomerID         int64     `json:"customer_id"`
	Email              string    `json:"email"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// Notification is published to the notifications topic keyed by booking id.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	BookingID   int64     `json:"booking_id"`
	To          string    `json:"to"`
	RequestedAt time.Time `json:"requested_at"`
}
