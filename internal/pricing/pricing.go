// Package pricing computes proposed totals for reservations and booking
// inquiries. The aggregation is a pure function over line items and
// never fails: malformed rows count as zero.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/sws-safaris/booking-api/internal/models"
)

// Total sums quantity times unit rate across all line items. Activities,
// room bookings and transport default to quantity one; tent bookings
// carry an explicit quantity. The result is never negative.
func Total(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Amount())
	}
	return total
}

// ReservationTotal computes the total for a reservation's current line
// items. The caller stores the result into ProposedTotalCost.
func ReservationTotal(r *models.Reservation) decimal.Decimal {
	return Total(r.LineItems)
}

// InquiryTotal applies the same rule to an inquiry's tentative line-item
// set.
func InquiryTotal(inq *models.BookingInquiry) decimal.Decimal {
	return Total(inq.LineItems)
}
