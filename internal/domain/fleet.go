package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Availability string

const (
	Available   Availability = "Y"
	Unavailable Availability = "N"
)

type CarType struct {
	ID          int64           `gorm:"primaryKey" json:"carTypeId"`
	Name        string          `gorm:"uniqueIndex;size:128;not null" json:"carTypeName"`
	DailyRate   decimal.Decimal `gorm:"type:numeric(12,2)" json:"dailyRate"`
	WeeklyRate  decimal.Decimal `gorm:"type:numeric(12,2)" json:"weeklyRate"`
	MonthlyRate decimal.Decimal `gorm:"type:numeric(12,2)" json:"monthlyRate"`
	ImagePath   string          `gorm:"size:255" json:"imagePath"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Car struct {
	ID           int64        `gorm:"primaryKey" json:"carId"`
	Name         string       `gorm:"size:128" json:"carName"`
	NumberPlate  string       `gorm:"uniqueIndex;size:32" json:"numberPlate"`
	Availability Availability `gorm:"size:1;default:Y" json:"isAvailable"`
	CarTypeID    int64        `gorm:"index" json:"carTypeId"`
	HubID        int64        `gorm:"index" json:"hubId"`
	CarType      *CarType     `gorm:"foreignKey:CarTypeID" json:"carType,omitempty"`
}

type Hub struct {
	ID      int64  `gorm:"primaryKey" json:"hubId"`
	Name    string `gorm:"size:128" json:"hubName"`
	Address string `gorm:"size:255" json:"hubAddress"`
	City    string `gorm:"size:64" json:"city"`
	State   string `gorm:"size:64" json:"state"`
}

// AddOn is a catalog entry charged per rental day.
type AddOn struct {
	ID        int64           `gorm:"primaryKey" json:"addOnId"`
	Name      string          `gorm:"uniqueIndex;size:128" json:"addOnName"`
	DailyRate decimal.Decimal `gorm:"type:numeric(12,2)" json:"addOnDailyRate"`
}

func (AddOn) TableName() string {
	return "addons"
}
