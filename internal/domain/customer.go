package domain

import "time"

type Customer struct {
	ID             int64     `gorm:"primaryKey" json:"custId"`
	FirstName      string    `gorm:"size:64" json:"firstName" validate:"required"`
	LastName       string    `gorm:"size:64" json:"lastName" validate:"required"`
	Email          string    `gorm:"uniqueIndex;size:128" json:"email" validate:"required,email"`
	Phone          string    `gorm:"size:20" json:"mobileNumber"`
	AddressLine1   string    `gorm:"size:255" json:"addressLine1"`
	City           string    `gorm:"size:64" json:"city"`
	Pincode        string    `gorm:"size:16" json:"pincode"`
	MembershipID   string    `gorm:"size:32;index" json:"membershipId"`
	DrivingLicence string    `gorm:"size:32" json:"drivingLicenseNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}
