package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryOpen InquiryStatus = "Open"
	InquiryLost InquiryStatus = "Lost"
)

// BookingInquiry is the pre-reservation record. Conversion copies its
// fields into a Draft reservation; the inquiry itself keeps its own
// lifecycle and is never invalidated by reservation changes.
type BookingInquiry struct {
	gorm.Model
	CustomerName      string            `json:"customer_name" validate:"required"`
	CustomerEmail     string            `json:"customer_email" validate:"omitempty,email"`
	TotalPeople       int               `json:"total_people"`
	Adults            int               `json:"adults"`
	Children          int               `json:"children"`
	AccommodationType AccommodationType `json:"accommodation_type"`
	CheckInDate       time.Time         `json:"check_in_date" validate:"required"`
	CheckOutDate      time.Time         `json:"check_out_date" validate:"required"`
	Status            InquiryStatus     `gorm:"index;default:Open" json:"status"`
	LostReason        string            `json:"lost_reason,omitempty"`
	ProposedTotalCost decimal.Decimal   `gorm:"type:decimal(20,4)" json:"proposed_total_cost"`
	ReservationID     *uint             `json:"reservation_id,omitempty"`
	LineItems         []LineItem        `gorm:"foreignKey:InquiryID" json:"line_items"`
}
