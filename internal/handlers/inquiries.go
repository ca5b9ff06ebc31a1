package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/lifecycle"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/notifier"
	"github.com/sws-safaris/booking-api/internal/pricing"
	"gorm.io/gorm"
)

type InquiryHandler struct {
	db          *gorm.DB
	manager     *lifecycle.Manager
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
	log         *logrus.Logger
}

func NewInquiryHandler(db *gorm.DB, manager *lifecycle.Manager, n notifier.Notifier, authHandler *auth.AuthHandler, log *logrus.Logger) *InquiryHandler {
	return &InquiryHandler{db: db, manager: manager, notifier: n, authHandler: authHandler, log: log}
}

// LineItemInput is the wire form of a line item on create/add calls.
type LineItemInput struct {
	Kind        string  `json:"kind" doc:"Activity, Room Booking, Tent Booking or Transport" required:"true"`
	Description string  `json:"description" doc:"Human-readable description"`
	Quantity    int     `json:"quantity" doc:"Explicit quantity (tents); others default to 1"`
	UnitRate    float64 `json:"unit_rate" doc:"Rate per unit"`
}

var lineItemKinds = map[string]models.LineItemKind{
	string(models.KindActivity):    models.KindActivity,
	string(models.KindRoomBooking): models.KindRoomBooking,
	string(models.KindTentBooking): models.KindTentBooking,
	string(models.KindTransport):   models.KindTransport,
}

func buildLineItems(inputs []LineItemInput) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(inputs))
	for i, in := range inputs {
		kind, ok := lineItemKinds[in.Kind]
		if !ok {
			return nil, huma.Error422UnprocessableEntity("line item " + in.Kind + " is not a known kind")
		}
		items = append(items, models.LineItem{
			Kind:        kind,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitRate:    decimal.NewFromFloat(in.UnitRate),
			Position:    i,
		})
	}
	return items, nil
}

type CreateInquiryRequest struct {
	auth.AuthInput
	Body struct {
		CustomerName      string          `json:"customer_name" doc:"Customer name" required:"true"`
		CustomerEmail     string          `json:"customer_email" doc:"Customer email"`
		TotalPeople       int             `json:"total_people"`
		Adults            int             `json:"adults"`
		Children          int             `json:"children"`
		AccommodationType string          `json:"accommodation_type" doc:"None, Rooms, Own Tents or SWS Tents"`
		CheckInDate       string          `json:"check_in_date" doc:"YYYY-MM-DD" required:"true"`
		CheckOutDate      string          `json:"check_out_date" doc:"YYYY-MM-DD" required:"true"`
		LineItems         []LineItemInput `json:"line_items"`
	}
}

type InquiryResponse struct {
	Body models.BookingInquiry
}

func (h *InquiryHandler) HandleCreateInquiry(ctx context.Context, input *CreateInquiryRequest) (*InquiryResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	checkIn, err := parseDate(input.Body.CheckInDate, "check_in_date")
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate(input.Body.CheckOutDate, "check_out_date")
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(input.Body.LineItems)
	if err != nil {
		return nil, err
	}

	inquiry := models.BookingInquiry{
		CustomerName:      input.Body.CustomerName,
		CustomerEmail:     input.Body.CustomerEmail,
		TotalPeople:       input.Body.TotalPeople,
		Adults:            input.Body.Adults,
		Children:          input.Body.Children,
		AccommodationType: models.AccommodationType(input.Body.AccommodationType),
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Status:            models.InquiryOpen,
		LineItems:         items,
	}
	inquiry.ProposedTotalCost = pricing.InquiryTotal(&inquiry)

	if err := h.db.Create(&inquiry).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create inquiry: " + err.Error())
	}

	if h.notifier != nil {
		if nerr := h.notifier.NotifyInquiry(inquiry); nerr != nil {
			h.log.Warnf("inquiry notification failed: %v", nerr)
		}
	}

	return &InquiryResponse{Body: inquiry}, nil
}

type GetInquiryRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *InquiryHandler) HandleGetInquiry(ctx context.Context, input *GetInquiryRequest) (*InquiryResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var inquiry models.BookingInquiry
	if err := h.db.Preload("LineItems").First(&inquiry, input.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, huma.Error404NotFound("Inquiry not found")
		}
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}
	return &InquiryResponse{Body: inquiry}, nil
}

type ConvertInquiryRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type ReservationResponse struct {
	Body models.Reservation
}

func (h *InquiryHandler) HandleConvertInquiry(ctx context.Context, input *ConvertInquiryRequest) (*ReservationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	reservation, err := h.manager.ConvertInquiry(input.ID)
	if err != nil {
		return nil, domainError(err)
	}
	return &ReservationResponse{Body: *reservation}, nil
}

type MarkLostRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Reason string `json:"reason" doc:"Why the inquiry was lost"`
	}
}

type MarkLostResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *InquiryHandler) HandleMarkLost(ctx context.Context, input *MarkLostRequest) (*MarkLostResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.manager.MarkLost(input.ID, input.Body.Reason); err != nil {
		return nil, domainError(err)
	}

	res := &MarkLostResponse{}
	res.Body.Message = "Inquiry marked as lost"
	return res, nil
}
