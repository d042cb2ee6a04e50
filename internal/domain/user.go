package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"userId"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"size:128" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	HubID        *int64    `json:"hubId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
