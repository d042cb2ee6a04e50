package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Is compares statuses case-insensitively; rows written by older clients
// may carry lower-case values.
func (s BookingStatus) Is(other BookingStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Booking keeps a snapshot of the customer, car and rates taken at creation.
// Invoices are computed from the snapshot, never from the live rows.
type Booking struct {
	ID                 int64         `gorm:"primaryKey" json:"bookingId"`
	ConfirmationNumber string        `gorm:"uniqueIndex;size:16;not null" json:"confirmationNumber"`
	Status             BookingStatus `gorm:"size:16;not null;index" json:"bookingStatus"`

	BookingDate time.Time  `gorm:"type:date" json:"bookingDate"`
	StartDate   time.Time  `gorm:"type:date" json:"startDate"`
	EndDate     time.Time  `gorm:"type:date" json:"endDate"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`

	CustomerID  int64 `gorm:"index;not null" json:"customerId"`
	CarID       int64 `gorm:"index;not null" json:"carId"`
	CarTypeID   int64 `gorm:"not null" json:"carTypeId"`
	PickupHubID int64 `gorm:"not null" json:"pickupHubId"`
	ReturnHubID int64 `gorm:"not null" json:"returnHubId"`

	FirstName string `gorm:"size:64" json:"firstName"`
	LastName  string `gorm:"size:64" json:"lastName"`
	Email     string `gorm:"size:128;index" json:"email"`
	Address   string `gorm:"size:255" json:"address"`
	Pin       string `gorm:"size:16" json:"pin"`
	State     string `gorm:"size:64" json:"state"`
	CarName   string `gorm:"size:128" json:"carName"`

	DailyRate   decimal.Decimal `gorm:"type:numeric(12,2)" json:"dailyRate"`
	WeeklyRate  decimal.Decimal `gorm:"type:numeric(12,2)" json:"weeklyRate"`
	MonthlyRate decimal.Decimal `gorm:"type:numeric(12,2)" json:"monthlyRate"`

	Customer  *Customer      `gorm:"foreignKey:CustomerID" json:"-"`
	Car       *Car           `gorm:"foreignKey:CarID" json:"-"`
	CarType   *CarType       `gorm:"foreignKey:CarTypeID" json:"-"`
	PickupHub *Hub           `gorm:"foreignKey:PickupHubID" json:"-"`
	ReturnHub *Hub           `gorm:"foreignKey:ReturnHubID" json:"-"`
	AddOns    []BookingAddOn `gorm:"foreignKey:BookingID" json:"addOns,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) CustomerName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// BookingAddOn is an add-on attached to a booking with its per-day rate at booking time.
type BookingAddOn struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	BookingID int64           `gorm:"index;not null" json:"bookingId"`
	AddOnID   int64           `gorm:"not null" json:"addOnId"`
	Name      string          `gorm:"size:128" json:"addOnName"`
	DailyRate decimal.Decimal `gorm:"type:numeric(12,2)" json:"addOnDailyRate"`
}

func (BookingAddOn) TableName() string {
	return "booking_addons"
}
