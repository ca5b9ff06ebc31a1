package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ItemCodeActivity      = "ACTIVITY"
	ItemCodeAccommodation = "ACCOMMODATION"
	ItemCodeTransport     = "TRANSPORT"
)

type QuotationItem struct {
	gorm.Model
	QuotationID uint            `gorm:"index" json:"quotation_id"`
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,4)" json:"rate"`
}

// Quotation is the priced offer document built from a reservation's line
// items. At most one submitted quotation may exist per reservation.
type Quotation struct {
	gorm.Model
	Reference     string          `gorm:"uniqueIndex" json:"reference"`
	ReservationID uint            `gorm:"index" json:"reservation_id"`
	CustomerName  string          `json:"customer_name"`
	CheckInDate   time.Time       `json:"check_in_date"`
	CheckOutDate  time.Time       `json:"check_out_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_amount"`
	Submitted     bool            `gorm:"index" json:"submitted"`
	Items         []QuotationItem `gorm:"foreignKey:QuotationID" json:"items"`
}
