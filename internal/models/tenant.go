package models

import "time"

// Tenant represents a resident of the property
type Tenant struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Phone           string     `gorm:"size:20;not null" json:"phone"`
	Email           string     `gorm:"size:100;not null" json:"email"`
	ApartmentNumber string     `gorm:"size:10;not null" json:"apartment_number"`
	CheckInDate     time.Time  `gorm:"not null" json:"check_in_date"`
	CheckOutDate    *time.Time `json:"check_out_date,omitempty"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// CheckedOut reports whether the tenant has left the property
func (t *Tenant) CheckedOut() bool {
	return t.CheckOutDate != nil
}
