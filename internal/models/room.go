package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable        RoomStatus = "Available"
	RoomReserved         RoomStatus = "Reserved"
	RoomOccupied         RoomStatus = "Occupied"
	RoomUnderMaintenance RoomStatus = "Under Maintenance"
)

// RoomUnit is a single bookable room. Status is owned by the allocator;
// nothing else writes it.
type RoomUnit struct {
	gorm.Model
	Number       string          `gorm:"uniqueIndex" json:"number"`
	RoomType     string          `gorm:"index" json:"room_type"`
	Capacity     int             `json:"capacity"`
	BaseRate     decimal.Decimal `gorm:"type:decimal(20,4)" json:"base_rate"`
	ResidentRate decimal.Decimal `gorm:"type:decimal(20,4)" json:"resident_rate"`
	Status       RoomStatus      `gorm:"index;default:Available" json:"status"`
}
