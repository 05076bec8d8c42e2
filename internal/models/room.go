package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoomType classifies a rentable unit by layout
type RoomType string

const (
	RoomSingle RoomType = "SINGLE"
	RoomDouble RoomType = "DOUBLE"
	RoomTriple RoomType = "TRIPLE"
	RoomSuite  RoomType = "SUITE"
)

// RoomDirection is the compass orientation of the unit
type RoomDirection string

const (
	DirectionEast      RoomDirection = "EAST"
	DirectionSouth     RoomDirection = "SOUTH"
	DirectionWest      RoomDirection = "WEST"
	DirectionNorth     RoomDirection = "NORTH"
	DirectionSoutheast RoomDirection = "SOUTHEAST"
	DirectionSouthwest RoomDirection = "SOUTHWEST"
	DirectionNortheast RoomDirection = "NORTHEAST"
	DirectionNorthwest RoomDirection = "NORTHWEST"
)

// RoomStatus is the occupancy state of a room. Only VACANT and OCCUPIED are
// driven by the lease lifecycle; RESERVED and MAINTAINING are reserved states
// settable by operators out of band.
type RoomStatus string

const (
	RoomVacant      RoomStatus = "VACANT"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomReserved    RoomStatus = "RESERVED"
	RoomMaintaining RoomStatus = "MAINTAINING"
)

// Room is a rentable unit. Its occupancy status is a derived flag kept
// consistent with the contract lifecycle, not an independent source of truth.
type Room struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	Number     string            `json:"number" gorm:"type:varchar(20);not null"`
	Building   string            `json:"building" gorm:"type:varchar(50);not null"`
	Floor      int               `json:"floor" gorm:"not null"`
	Type       RoomType          `json:"type" gorm:"type:varchar(20);not null"`
	Area       float64           `json:"area" gorm:"type:numeric(8,2);not null"`
	Direction  RoomDirection     `json:"direction" gorm:"type:varchar(20);not null"`
	Facilities datatypes.JSONMap `json:"facilities" gorm:"type:jsonb"`
	Price      float64           `json:"price" gorm:"type:numeric(10,2);not null"`
	Deposit    float64           `json:"deposit" gorm:"type:numeric(10,2);not null"`
	Status     RoomStatus        `json:"status" gorm:"type:varchar(20);not null;default:VACANT;index"`
	CreatedAt  time.Time         `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateRoomRequest is the payload for listing a new room.
// Price and Deposit are pointers so that an explicit zero passes validation.
type CreateRoomRequest struct {
	Number     string          `json:"number" binding:"required"`
	Floor      int             `json:"floor" binding:"required,gte=1"`
	Building   string          `json:"building" binding:"required"`
	Type       RoomType        `json:"type" binding:"required,oneof=SINGLE DOUBLE TRIPLE SUITE"`
	Area       float64         `json:"area" binding:"required,gte=1"`
	Direction  RoomDirection   `json:"direction" binding:"required,oneof=EAST SOUTH WEST NORTH SOUTHEAST SOUTHWEST NORTHEAST NORTHWEST"`
	Facilities map[string]bool `json:"facilities"`
	Price      *float64        `json:"price" binding:"required,gte=0"`
	Deposit    *float64        `json:"deposit" binding:"required,gte=0"`
}
