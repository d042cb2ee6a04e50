package domain

import "time"

// InvoiceRecord is created on handover and closed on return.
type InvoiceRecord struct {
	ID           int64      `gorm:"primaryKey" json:"invoiceId"`
	BookingID    int64      `gorm:"uniqueIndex;not null" json:"bookingId"`
	CustomerID   int64      `json:"customerId"`
	CarID        int64      `json:"carId"`
	HandoverDate time.Time  `gorm:"type:date" json:"handoverDate"`
	ReturnDate   *time.Time `gorm:"type:date" json:"returnDate,omitempty"`
}

func (InvoiceRecord) TableName() string {
	return "invoices"
}

// DeliveryAttempt is one invoice email delivery, successful or not.
type DeliveryAttempt struct {
	BookingID int64     `bson:"booking_id" json:"bookingId"`
	To        string    `bson:"to" json:"to"`
	Status    string    `bson:"status" json:"status"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	At        time.Time `bson:"at" json:"at"`
}

const (
	DeliverySent   = "SENT"
	DeliveryFailed = "FAILED"
)
