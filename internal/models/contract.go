package models

import (
	"time"
)

// ContractStatus is the lifecycle state of a lease.
// Transitions are one-directional: ACTIVE -> TERMINATED (manual) or
// ACTIVE -> EXPIRED (implied by date; no process sets it automatically).
type ContractStatus string

const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractTerminated ContractStatus = "TERMINATED"
	ContractExpired    ContractStatus = "EXPIRED"
)

// Contract is a lease binding one tenant to one room for a date range.
// It holds the only authoritative link between Tenant and Room.
type Contract struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TenantID   uint           `json:"tenantId" gorm:"not null;index"`
	Tenant     Tenant         `json:"tenant"`
	RoomID     uint           `json:"roomId" gorm:"not null;index"`
	Room       Room           `json:"room"`
	StartDate  time.Time      `json:"startDate" gorm:"type:date;not null"`
	EndDate    time.Time      `json:"endDate" gorm:"type:date;not null"`
	RentAmount float64        `json:"rentAmount" gorm:"type:numeric(10,2);not null"`
	Deposit    float64        `json:"deposit" gorm:"type:numeric(10,2);not null"`
	Status     ContractStatus `json:"status" gorm:"type:varchar(20);not null;default:ACTIVE;index"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateContractRequest is the payload for signing a new lease.
// Dates use the YYYY-MM-DD form; amounts are pointers so an explicit zero
// passes validation.
type CreateContractRequest struct {
	TenantID   uint     `json:"tenantId" binding:"required"`
	RoomID     uint     `json:"roomId" binding:"required"`
	StartDate  string   `json:"startDate" binding:"required"`
	EndDate    string   `json:"endDate" binding:"required"`
	RentAmount *float64 `json:"rentAmount" binding:"required,gte=0"`
	Deposit    *float64 `json:"deposit" binding:"required,gte=0"`
}
