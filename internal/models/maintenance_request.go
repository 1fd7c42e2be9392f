package models

import "time"

// RequestStatus is the lifecycle state of a maintenance request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusCompleted RequestStatus = "completed"
)

// Valid reports whether s is a known status
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// MaintenanceRequest represents an issue reported by a tenant
type MaintenanceRequest struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	TenantID        uint          `gorm:"not null;index" json:"tenant_id"`
	Tenant          *Tenant       `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"tenant,omitempty"`
	ApartmentNumber string        `gorm:"size:10;not null;index" json:"apartment_number"`
	ProblemArea     string        `gorm:"size:50;not null" json:"problem_area"`
	Description     string        `gorm:"type:text;not null" json:"description"`
	SubmittedAt     time.Time     `gorm:"column:date_time;not null" json:"submitted_at"`
	Photo           *string       `gorm:"size:255" json:"photo,omitempty"`
	Status          RequestStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// RequestFilter narrows a ledger query. Empty fields impose no constraint.
type RequestFilter struct {
	ApartmentNumber string        `form:"apartment_number" json:"apartment_number"`
	ProblemArea     string        `form:"problem_area" json:"problem_area"`
	Status          RequestStatus `form:"status" json:"status"`
}

// IsEmpty reports whether no filter is set
func (f RequestFilter) IsEmpty() bool {
	return f.ApartmentNumber == "" && f.ProblemArea == "" && f.Status == ""
}
