package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	StatusDraft                ReservationStatus = "Draft"
	StatusReserved             ReservationStatus = "Reserved"
	StatusConfirmedReservation ReservationStatus = "Confirmed Reservation"
	StatusCheckedIn            ReservationStatus = "Checked In"
	StatusCheckedOut           ReservationStatus = "Checked Out"
	StatusCancelled            ReservationStatus = "Cancelled"
)

type AccommodationType string

const (
	AccommodationNone     AccommodationType = "None"
	AccommodationRooms    AccommodationType = "Rooms"
	AccommodationOwnTents AccommodationType = "Own Tents"
	AccommodationSWSTents AccommodationType = "SWS Tents"
)

type GuestFields struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email"`
	TotalPeople   int    `json:"total_people"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
}

// Reservation is the booking document. ProposedTotalCost is a cache of
// the pricing engine's output, refreshed on every line-item change and
// before any persisted transition.
type Reservation struct {
	gorm.Model
	Reference          string `gorm:"uniqueIndex" json:"reference"`
	GuestFields        `gorm:"embedded"`
	AccommodationType  AccommodationType `json:"accommodation_type"`
	CheckInDate        time.Time         `json:"check_in_date"`
	CheckOutDate       time.Time         `json:"check_out_date"`
	Status             ReservationStatus `gorm:"index;default:Draft" json:"status"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CheckedInAt        *time.Time        `json:"checked_in_at,omitempty"`
	CheckedOutAt       *time.Time        `json:"checked_out_at,omitempty"`
	ProposedTotalCost  decimal.Decimal   `gorm:"type:decimal(20,4)" json:"proposed_total_cost"`
	InquiryID          *uint             `gorm:"index" json:"inquiry_id,omitempty"`
	LineItems          []LineItem        `gorm:"foreignKey:ReservationID" json:"line_items"`
	Allocations        []Allocation      `gorm:"foreignKey:ReservationID" json:"allocations"`
}

// PeopleCountValid checks the headcount invariant enforced before every
// persisted transition.
func (r *Reservation) PeopleCountValid() bool {
	return r.TotalPeople == r.Adults+r.Children
}

func (r *Reservation) Terminal() bool {
	return r.Status == StatusCheckedOut || r.Status == StatusCancelled
}

func (r *Reservation) HasRoomBooking() bool {
	for _, li := range r.LineItems {
		if li.Kind == KindRoomBooking {
			return true
		}
	}
	return false
}
