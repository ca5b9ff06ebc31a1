package lifecycle

import (
	"github.com/google/uuid"
	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/pricing"
	"gorm.io/gorm"
)

// ConvertInquiry builds a Draft reservation from a booking inquiry,
// copying customer identity, people counts, dates, accommodation and
// line items. The inquiry only gets the produced reservation's ID for
// traceability; one inquiry yields at most one reservation.
func (m *Manager) ConvertInquiry(inquiryID uint) (*models.Reservation, error) {
	var inquiry models.BookingInquiry
	if err := m.db.Preload("LineItems").First(&inquiry, inquiryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("booking inquiry", inquiryID)
		}
		return nil, err
	}

	if inquiry.ReservationID != nil {
		return nil, errs.State("inquiry %d has already been converted to reservation %d",
			inquiry.ID, *inquiry.ReservationID)
	}
	if inquiry.Status == models.InquiryLost {
		return nil, errs.State("a lost inquiry cannot be converted")
	}
	if err := m.validate.Struct(&inquiry); err != nil {
		return nil, errs.Validation("inquiry is missing required fields (customer identity, date range)")
	}

	reservation := models.Reservation{
		Reference: uuid.NewString(),
		GuestFields: models.GuestFields{
			CustomerName:  inquiry.CustomerName,
			CustomerEmail: inquiry.CustomerEmail,
			TotalPeople:   inquiry.TotalPeople,
			Adults:        inquiry.Adults,
			Children:      inquiry.Children,
		},
		AccommodationType: inquiry.AccommodationType,
		CheckInDate:       inquiry.CheckInDate,
		CheckOutDate:      inquiry.CheckOutDate,
		Status:            models.StatusDraft,
		InquiryID:         &inquiry.ID,
	}

	for i, src := range inquiry.LineItems {
		reservation.LineItems = append(reservation.LineItems, models.LineItem{
			Kind:        src.Kind,
			Description: src.Description,
			Quantity:    src.Quantity,
			UnitRate:    src.UnitRate,
			Position:    i,
		})
	}
	reservation.ProposedTotalCost = pricing.ReservationTotal(&reservation)

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		return tx.Model(&inquiry).Update("reservation_id", reservation.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// MarkLost closes an open inquiry. Lost inquiries keep their data but
// can no longer be converted.
func (m *Manager) MarkLost(inquiryID uint, reason string) error {
	var inquiry models.BookingInquiry
	if err := m.db.First(&inquiry, inquiryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.NotFound("booking inquiry", inquiryID)
		}
		return err
	}
	if inquiry.Status == models.InquiryLost {
		return nil
	}

	return m.db.Model(&inquiry).Updates(map[string]any{
		"status":      models.InquiryLost,
		"lost_reason": reason,
	}).Error
}
