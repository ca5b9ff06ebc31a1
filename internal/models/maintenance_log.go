package models

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceLog records a room entering maintenance after check-out.
// Housekeeping works this queue and marks rooms cleaned.
type MaintenanceLog struct {
	gorm.Model
	RoomUnitID      uint      `gorm:"index" json:"room_unit_id"`
	RoomUnit        RoomUnit  `json:"room_unit"`
	MaintenanceDate time.Time `json:"maintenance_date"`
	Remarks         string    `json:"remarks"`
}
