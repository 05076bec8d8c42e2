package models

import (
	"time"
)

// Gender values accepted for a tenant
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// TenantStatus represents the lifecycle state of a tenant record
type TenantStatus string

const (
	TenantActive   TenantStatus = "ACTIVE"
	TenantInactive TenantStatus = "INACTIVE"
)

// Tenant is an identity and contact record for a renter.
// The national ID (IDCard) is unique across all tenants.
type Tenant struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	Name             string       `json:"name" gorm:"type:varchar(100);not null"`
	Phone            string       `json:"phone" gorm:"type:varchar(20);not null"`
	IDCard           string       `json:"idCard" gorm:"column:id_card;type:varchar(32);not null;uniqueIndex"`
	Gender           *Gender      `json:"gender,omitempty" gorm:"type:varchar(10)"`
	Email            *string      `json:"email,omitempty" gorm:"type:varchar(255)"`
	EmergencyContact *string      `json:"emergencyContact,omitempty" gorm:"type:varchar(100)"`
	EmergencyPhone   *string      `json:"emergencyPhone,omitempty" gorm:"type:varchar(20)"`
	Status           TenantStatus `json:"status" gorm:"type:varchar(20);not null;default:ACTIVE"`
	CreatedAt        time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt        time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateTenantRequest is the payload for registering a new tenant
type CreateTenantRequest struct {
	Name             string  `json:"name" binding:"required,min=2"`
	Phone            string  `json:"phone" binding:"required,min=11"`
	IDCard           string  `json:"idCard" binding:"required,min=18"`
	Gender           *Gender `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE"`
	Email            *string `json:"email,omitempty" binding:"omitempty,email"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string `json:"emergencyPhone,omitempty"`
}
