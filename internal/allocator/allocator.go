// Package allocator owns room inventory: availability queries, the
// tentative/confirmed allocation state machine and room status. Every
// mutation runs inside a database transaction so two reservations can
// never acquire the same room for overlapping dates.
package allocator

import (
	"fmt"
	"sort"
	"time"

	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/gorm"
)

type Allocator struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// FindAvailable lists rooms of the given type with no live allocation
// overlapping [checkIn, checkOut). Reserved rooms are included, their
// allocations may cover other dates; only Occupied and Under Maintenance
// rooms are out of the pool entirely. Read-only and possibly stale: a
// room listed here may still fail TentativelyAllocate, callers re-query
// on conflict. Results are ordered by base rate, then ID.
func (a *Allocator) FindAvailable(roomType string, checkIn, checkOut time.Time) ([]models.RoomUnit, error) {
	if !checkIn.Before(checkOut) {
		return nil, errs.Validation("check-in %s must be before check-out %s",
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	}

	var rooms []models.RoomUnit
	if err := a.db.
		Where("room_type = ? AND status IN ?", roomType,
			[]models.RoomStatus{models.RoomAvailable, models.RoomReserved}).
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.RoomUnit{}, nil
	}

	ids := make([]uint, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}

	var allocations []models.Allocation
	if err := a.db.
		Where("room_unit_id IN ?", ids).
		Where("state IN ?", []models.AllocationState{models.AllocationTentative, models.AllocationConfirmed}).
		Find(&allocations).Error; err != nil {
		return nil, err
	}

	blocked := make(map[uint]bool)
	for i := range allocations {
		if allocations[i].Overlaps(checkIn, checkOut) {
			blocked[allocations[i].RoomUnitID] = true
		}
	}

	eligible := make([]models.RoomUnit, 0, len(rooms))
	for _, r := range rooms {
		if !blocked[r.ID] {
			eligible = append(eligible, r)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if c := eligible[i].BaseRate.Cmp(eligible[j].BaseRate); c != 0 {
			return c < 0
		}
		return eligible[i].ID < eligible[j].ID
	})

	return eligible, nil
}

// TentativelyAllocate creates a Tentative allocation for the room and
// range. The overlap check is re-run inside the transaction, so a stale
// FindAvailable result surfaces here as a ConflictError.
func (a *Allocator) TentativelyAllocate(roomID, reservationID uint, checkIn, checkOut time.Time) (*models.Allocation, error) {
	if !checkIn.Before(checkOut) {
		return nil, errs.Validation("check-in must be before check-out")
	}

	var allocation models.Allocation
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var room models.RoomUnit
		if err := tx.First(&room, roomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("room unit", roomID)
			}
			return err
		}

		var existing []models.Allocation
		if err := tx.
			Where("room_unit_id = ? AND state IN ?", roomID,
				[]models.AllocationState{models.AllocationTentative, models.AllocationConfirmed}).
			Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if existing[i].Overlaps(checkIn, checkOut) {
				return errs.Conflict("room %s is already allocated for an overlapping range", room.Number)
			}
		}

		allocation = models.Allocation{
			RoomUnitID:    roomID,
			ReservationID: reservationID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			State:         models.AllocationTentative,
		}
		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}

		if room.Status == models.RoomAvailable {
			if err := tx.Model(&room).Update("status", models.RoomReserved).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

// Release transitions an allocation to Released. Idempotent: releasing
// an already-Released allocation is a no-op. The room goes back to
// Available once no live allocation remains, unless it is occupied or
// under maintenance.
func (a *Allocator) Release(allocationID uint) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var allocation models.Allocation
		if err := tx.First(&allocation, allocationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("allocation", allocationID)
			}
			return err
		}
		if allocation.State == models.AllocationReleased {
			return nil
		}

		if err := tx.Model(&allocation).Update("state", models.AllocationReleased).Error; err != nil {
			return err
		}
		return a.settleRoomStatus(tx, allocation.RoomUnitID)
	})
}

// ReleaseAll releases every live allocation of a reservation. Used on
// cancellation and when a partial multi-room allocation must be rolled
// back.
func (a *Allocator) ReleaseAll(reservationID uint) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var live []models.Allocation
		if err := tx.
			Where("reservation_id = ? AND state IN ?", reservationID,
				[]models.AllocationState{models.AllocationTentative, models.AllocationConfirmed}).
			Find(&live).Error; err != nil {
			return err
		}
		for i := range live {
			if err := tx.Model(&live[i]).Update("state", models.AllocationReleased).Error; err != nil {
				return err
			}
			if err := a.settleRoomStatus(tx, live[i].RoomUnitID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Confirm promotes every Tentative allocation of the reservation to
// Confirmed. All-or-nothing: if any allocation now overlaps a Confirmed
// allocation of another reservation, nothing is promoted and a
// ConflictError is returned. The confirmed count is reported.
func (a *Allocator) Confirm(reservationID uint) (int, error) {
	confirmed := 0
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var err error
		confirmed, err = a.ConfirmTx(tx, reservationID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return confirmed, nil
}

// ConfirmTx is Confirm inside a caller-owned transaction, so the
// promotion commits or rolls back together with the caller's writes.
func (a *Allocator) ConfirmTx(tx *gorm.DB, reservationID uint) (int, error) {
	var tentative []models.Allocation
	if err := tx.
		Where("reservation_id = ? AND state = ?", reservationID, models.AllocationTentative).
		Find(&tentative).Error; err != nil {
		return 0, err
	}

	for i := range tentative {
		var others []models.Allocation
		if err := tx.
			Where("room_unit_id = ? AND reservation_id <> ? AND state = ?",
				tentative[i].RoomUnitID, reservationID, models.AllocationConfirmed).
			Find(&others).Error; err != nil {
			return 0, err
		}
		for j := range others {
			if others[j].Overlaps(tentative[i].CheckIn, tentative[i].CheckOut) {
				return 0, errs.Conflict("room unit %d was confirmed for another reservation in the meantime",
					tentative[i].RoomUnitID)
			}
		}
	}

	for i := range tentative {
		if err := tx.Model(&tentative[i]).Update("state", models.AllocationConfirmed).Error; err != nil {
			return 0, err
		}
	}
	return len(tentative), nil
}

// Occupy marks the rooms of a reservation's confirmed allocations as
// Occupied. Called on check-in; rooms stay owned by their allocations.
func (a *Allocator) Occupy(reservationID uint) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var confirmed []models.Allocation
		if err := tx.
			Where("reservation_id = ? AND state = ?", reservationID, models.AllocationConfirmed).
			Find(&confirmed).Error; err != nil {
			return err
		}
		for i := range confirmed {
			if err := tx.Model(&models.RoomUnit{}).
				Where("id = ?", confirmed[i].RoomUnitID).
				Update("status", models.RoomOccupied).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CheckOut releases the allocation and puts the room under maintenance,
// writing a maintenance log entry in the same transaction. The room
// never goes straight back to Available; housekeeping does that via
// MarkCleaned.
func (a *Allocator) CheckOut(allocationID uint) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var allocation models.Allocation
		if err := tx.First(&allocation, allocationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("allocation", allocationID)
			}
			return err
		}

		if allocation.State != models.AllocationReleased {
			if err := tx.Model(&allocation).Update("state", models.AllocationReleased).Error; err != nil {
				return err
			}
		}

		var room models.RoomUnit
		if err := tx.First(&room, allocation.RoomUnitID).Error; err != nil {
			return err
		}
		if err := tx.Model(&room).Update("status", models.RoomUnderMaintenance).Error; err != nil {
			return err
		}

		log := models.MaintenanceLog{
			RoomUnitID:      room.ID,
			MaintenanceDate: time.Now(),
			Remarks:         fmt.Sprintf("Room %s under maintenance after checkout", room.Number),
		}
		return tx.Create(&log).Error
	})
}

// MarkCleaned returns a room from maintenance to the Available pool.
func (a *Allocator) MarkCleaned(roomID uint) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var room models.RoomUnit
		if err := tx.First(&room, roomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("room unit", roomID)
			}
			return err
		}
		if room.Status != models.RoomUnderMaintenance {
			return errs.State("room %s is not under maintenance", room.Number)
		}
		return tx.Model(&room).Update("status", models.RoomAvailable).Error
	})
}

// settleRoomStatus recomputes a Reserved room's status after a release.
// Occupied and UnderMaintenance are left alone; they belong to check-in
// and housekeeping.
func (a *Allocator) settleRoomStatus(tx *gorm.DB, roomID uint) error {
	var room models.RoomUnit
	if err := tx.First(&room, roomID).Error; err != nil {
		return err
	}
	if room.Status != models.RoomReserved {
		return nil
	}

	var live int64
	if err := tx.Model(&models.Allocation{}).
		Where("room_unit_id = ? AND state IN ?", roomID,
			[]models.AllocationState{models.AllocationTentative, models.AllocationConfirmed}).
		Count(&live).Error; err != nil {
		return err
	}
	if live == 0 {
		return tx.Model(&room).Update("status", models.RoomAvailable).Error
	}
	return nil
}
