// Package lifecycle drives the reservation status state machine and the
// inquiry-to-reservation conversion. All guards run before anything is
// persisted; a failed transition leaves the reservation untouched.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/notifier"
	"github.com/sws-safaris/booking-api/internal/pricing"
	"gorm.io/gorm"
)

// Result is the structured outcome any notification surface can render.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Context carries transition-specific input.
type Context struct {
	CancellationReason string
}

type Manager struct {
	db       *gorm.DB
	alloc    *allocator.Allocator
	notifier notifier.Notifier
	log      *logrus.Logger
	validate *validator.Validate
	now      func() time.Time
}

func New(db *gorm.DB, alloc *allocator.Allocator, n notifier.Notifier, log *logrus.Logger) *Manager {
	return &Manager{
		db:       db,
		alloc:    alloc,
		notifier: n,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Transition moves a reservation to the target status, enforcing the
// guards of each edge. The headcount invariant is checked before every
// persisted transition.
func (m *Manager) Transition(reservationID uint, target models.ReservationStatus, tctx Context) (Result, error) {
	var reservation models.Reservation
	if err := m.db.Preload("LineItems").Preload("Allocations").First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Result{}, errs.NotFound("reservation", reservationID)
		}
		return Result{}, err
	}

	if reservation.Terminal() {
		return Result{}, errs.State("reservation %s is %s and cannot change status",
			reservation.Reference, reservation.Status)
	}
	if !reservation.PeopleCountValid() {
		return Result{}, errs.Validation("total people (%d) must equal adults (%d) plus children (%d)",
			reservation.TotalPeople, reservation.Adults, reservation.Children)
	}

	var result Result
	var err error
	switch target {
	case models.StatusReserved:
		result, err = m.reserve(&reservation)
	case models.StatusConfirmedReservation:
		result, err = m.confirm(&reservation)
	case models.StatusCheckedIn:
		result, err = m.checkIn(&reservation)
	case models.StatusCheckedOut:
		result, err = m.checkOut(&reservation)
	case models.StatusCancelled:
		result, err = m.cancel(&reservation, tctx.CancellationReason)
	default:
		return Result{}, errs.State("%q is not a valid transition target", target)
	}
	if err != nil {
		return Result{}, err
	}

	if m.notifier != nil {
		if nerr := m.notifier.NotifyTransition(reservation, result.Code, result.Message); nerr != nil {
			m.log.WithFields(logrus.Fields{
				"reservation": reservation.Reference,
				"code":        result.Code,
			}).Warnf("notification failed: %v", nerr)
		}
	}
	return result, nil
}

func (m *Manager) reserve(r *models.Reservation) (Result, error) {
	if r.Status != models.StatusDraft {
		return Result{}, errs.State("only a Draft reservation can be reserved, current status is %s", r.Status)
	}
	if err := m.validate.Struct(r.GuestFields); err != nil {
		return Result{}, errs.Validation("customer identity is required")
	}
	if !r.CheckInDate.Before(r.CheckOutDate) {
		return Result{}, errs.Validation("check-in date must be before check-out date")
	}

	if err := m.persistStatus(r, models.StatusReserved); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: "reserved",
		Message: fmt.Sprintf("Reservation %s is now reserved", r.Reference)}, nil
}

func (m *Manager) confirm(r *models.Reservation) (Result, error) {
	if r.Status != models.StatusReserved {
		return Result{}, errs.State("only a Reserved reservation can be confirmed, current status is %s", r.Status)
	}

	// All-or-nothing: a conflict or a failed save leaves every
	// allocation tentative and the reservation Reserved.
	count := 0
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if count, err = m.alloc.ConfirmTx(tx, r.ID); err != nil {
			return err
		}
		return m.saveStatus(tx, r, models.StatusConfirmedReservation)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: "confirmed",
		Message: fmt.Sprintf("Reservation %s confirmed with %d room allocation(s)", r.Reference, count)}, nil
}

func (m *Manager) checkIn(r *models.Reservation) (Result, error) {
	if r.Status == models.StatusCheckedIn {
		return Result{OK: true, Code: "checked_in",
			Message: fmt.Sprintf("Reservation %s is already checked in", r.Reference)}, nil
	}
	if r.Status != models.StatusConfirmedReservation {
		return Result{}, errs.State("only a confirmed reservation can check in, current status is %s", r.Status)
	}
	if !r.HasRoomBooking() {
		return Result{}, errs.Validation("check-in requires at least one room booking line item")
	}

	if err := m.alloc.Occupy(r.ID); err != nil {
		return Result{}, err
	}

	now := m.now()
	r.CheckedInAt = &now
	if err := m.persistStatus(r, models.StatusCheckedIn); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: "checked_in",
		Message: fmt.Sprintf("Reservation %s checked in", r.Reference)}, nil
}

func (m *Manager) checkOut(r *models.Reservation) (Result, error) {
	if r.Status != models.StatusCheckedIn {
		return Result{}, errs.State("only a checked-in reservation can check out, current status is %s", r.Status)
	}
	if m.now().Before(r.CheckOutDate) {
		return Result{}, errs.Validation("departure date %s has not been reached yet",
			r.CheckOutDate.Format("2006-01-02"))
	}

	for i := range r.Allocations {
		if !r.Allocations[i].Live() {
			continue
		}
		if err := m.alloc.CheckOut(r.Allocations[i].ID); err != nil {
			return Result{}, err
		}
	}

	now := m.now()
	r.CheckedOutAt = &now
	if err := m.persistStatus(r, models.StatusCheckedOut); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: "checked_out",
		Message: fmt.Sprintf("Reservation %s checked out, rooms moved to maintenance", r.Reference)}, nil
}

func (m *Manager) cancel(r *models.Reservation, reason string) (Result, error) {
	if r.Status == models.StatusCheckedIn {
		return Result{}, errs.State("a checked-in reservation cannot be cancelled")
	}
	if reason == "" {
		return Result{}, errs.Validation("a cancellation reason is required")
	}

	if err := m.alloc.ReleaseAll(r.ID); err != nil {
		return Result{}, err
	}

	r.CancellationReason = reason
	if err := m.persistStatus(r, models.StatusCancelled); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: "cancelled",
		Message: fmt.Sprintf("Reservation %s cancelled: %s", r.Reference, reason)}, nil
}

// persistStatus recomputes the cached total and saves the reservation.
// The total refresh is unconditional on every persist cycle.
func (m *Manager) persistStatus(r *models.Reservation, status models.ReservationStatus) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return m.saveStatus(tx, r, status)
	})
}

func (m *Manager) saveStatus(tx *gorm.DB, r *models.Reservation, status models.ReservationStatus) error {
	r.Status = status
	r.ProposedTotalCost = pricing.ReservationTotal(r)
	return tx.Omit("LineItems", "Allocations").Save(r).Error
}
