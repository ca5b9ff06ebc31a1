package models

import (
	"time"

	"gorm.io/gorm"
)

type AllocationState string

const (
	AllocationTentative AllocationState = "Tentative"
	AllocationConfirmed AllocationState = "Confirmed"
	AllocationReleased  AllocationState = "Released"
)

// Allocation ties a room to a reservation for a date range. The range is
// half-open: check-in day included, check-out day excluded.
type Allocation struct {
	gorm.Model
	RoomUnitID    uint            `gorm:"index" json:"room_unit_id"`
	RoomUnit      RoomUnit        `json:"room_unit"`
	ReservationID uint            `gorm:"index" json:"reservation_id"`
	CheckIn       time.Time       `json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	State         AllocationState `gorm:"index" json:"state"`
}

// Live reports whether the allocation still blocks the room.
func (a *Allocation) Live() bool {
	return a.State == AllocationTentative || a.State == AllocationConfirmed
}

// Overlaps tests the half-open ranges [a.CheckIn, a.CheckOut) and
// [checkIn, checkOut) for intersection.
func (a *Allocation) Overlaps(checkIn, checkOut time.Time) bool {
	return a.CheckIn.Before(checkOut) && checkIn.Before(a.CheckOut)
}
