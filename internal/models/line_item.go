package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LineItemKind string

const (
	KindActivity    LineItemKind = "Activity"
	KindRoomBooking LineItemKind = "Room Booking"
	KindTentBooking LineItemKind = "Tent Booking"
	KindTransport   LineItemKind = "Transport"
)

// LineItem is a single billable row on a reservation or inquiry. Exactly
// one of ReservationID/InquiryID is set.
type LineItem struct {
	gorm.Model
	ReservationID *uint           `gorm:"index" json:"reservation_id,omitempty"`
	InquiryID     *uint           `gorm:"index" json:"inquiry_id,omitempty"`
	Kind          LineItemKind    `json:"kind"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitRate      decimal.Decimal `gorm:"type:decimal(20,4)" json:"unit_rate"`
	Position      int             `json:"position"` // display order only
}

// EffectiveQuantity applies the per-kind default: tents carry an explicit
// quantity, everything else counts as one when unset.
func (li *LineItem) EffectiveQuantity() int {
	if li.Quantity > 0 {
		return li.Quantity
	}
	if li.Kind == KindTentBooking {
		return 0
	}
	return 1
}

// Amount is quantity times rate. Malformed rows (negative or missing
// rate) contribute zero rather than failing the aggregation.
func (li *LineItem) Amount() decimal.Decimal {
	if li.UnitRate.IsNegative() {
		return decimal.Zero
	}
	return li.UnitRate.Mul(decimal.NewFromInt(int64(li.EffectiveQuantity())))
}
