// Package quote builds quotation documents from reservations. A
// quotation is a priced snapshot of the line items; rendering (print,
// PDF, email) is the consumer's concern.
package quote

import (
	"github.com/google/uuid"
	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/pricing"
	"gorm.io/gorm"
)

type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

func itemCode(kind models.LineItemKind) string {
	switch kind {
	case models.KindActivity:
		return models.ItemCodeActivity
	case models.KindTransport:
		return models.ItemCodeTransport
	default:
		return models.ItemCodeAccommodation
	}
}

// Build creates a quotation for the reservation. The reservation needs a
// customer name, and a reservation with a submitted quotation cannot get
// another one.
func (b *Builder) Build(reservationID uint) (*models.Quotation, error) {
	var reservation models.Reservation
	if err := b.db.Preload("LineItems").First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("reservation", reservationID)
		}
		return nil, err
	}

	if reservation.CustomerName == "" {
		return nil, errs.Validation("the reservation needs a customer name before a quotation can be created")
	}

	var submitted int64
	if err := b.db.Model(&models.Quotation{}).
		Where("reservation_id = ? AND submitted = ?", reservationID, true).
		Count(&submitted).Error; err != nil {
		return nil, err
	}
	if submitted > 0 {
		return nil, errs.Validation("a quotation has already been submitted for reservation %s", reservation.Reference)
	}

	quotation := models.Quotation{
		Reference:     uuid.NewString(),
		ReservationID: reservation.ID,
		CustomerName:  reservation.CustomerName,
		CheckInDate:   reservation.CheckInDate,
		CheckOutDate:  reservation.CheckOutDate,
		TotalAmount:   pricing.ReservationTotal(&reservation),
	}

	for i := range reservation.LineItems {
		li := &reservation.LineItems[i]
		quotation.Items = append(quotation.Items, models.QuotationItem{
			ItemCode:    itemCode(li.Kind),
			Description: li.Description,
			Qty:         li.EffectiveQuantity(),
			Rate:        li.UnitRate,
		})
	}

	if err := b.db.Create(&quotation).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

// Submit finalises a quotation, locking the reservation against further
// quotations.
func (b *Builder) Submit(quotationID uint) error {
	var quotation models.Quotation
	if err := b.db.First(&quotation, quotationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.NotFound("quotation", quotationID)
		}
		return err
	}
	if quotation.Submitted {
		return nil
	}
	return b.db.Model(&quotation).Update("submitted", true).Error
}
