package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/lifecycle"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/pricing"
	"github.com/sws-safaris/booking-api/internal/quote"
	"gorm.io/gorm"
)

type ReservationHandler struct {
	db          *gorm.DB
	alloc       *allocator.Allocator
	manager     *lifecycle.Manager
	quotes      *quote.Builder
	authHandler *auth.AuthHandler
}

func NewReservationHandler(db *gorm.DB, alloc *allocator.Allocator, manager *lifecycle.Manager, quotes *quote.Builder, authHandler *auth.AuthHandler) *ReservationHandler {
	return &ReservationHandler{db: db, alloc: alloc, manager: manager, quotes: quotes, authHandler: authHandler}
}

type CreateReservationRequest struct {
	auth.AuthInput
	Body struct {
		CustomerName      string          `json:"customer_name" doc:"Customer name" required:"true"`
		CustomerEmail     string          `json:"customer_email"`
		TotalPeople       int             `json:"total_people"`
		Adults            int             `json:"adults"`
		Children          int             `json:"children"`
		AccommodationType string          `json:"accommodation_type" doc:"None, Rooms, Own Tents or SWS Tents"`
		CheckInDate       string          `json:"check_in_date" doc:"YYYY-MM-DD" required:"true"`
		CheckOutDate      string          `json:"check_out_date" doc:"YYYY-MM-DD" required:"true"`
		LineItems         []LineItemInput `json:"line_items"`
	}
}

func (h *ReservationHandler) HandleCreateReservation(ctx context.Context, input *CreateReservationRequest) (*ReservationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if input.Body.TotalPeople != input.Body.Adults+input.Body.Children {
		return nil, domainError(errs.Validation("total people (%d) must equal adults (%d) plus children (%d)",
			input.Body.TotalPeople, input.Body.Adults, input.Body.Children))
	}

	checkIn, err := parseDate(input.Body.CheckInDate, "check_in_date")
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate(input.Body.CheckOutDate, "check_out_date")
	if err != nil {
		return nil, err
	}
	if !checkIn.Before(checkOut) {
		return nil, domainError(errs.Validation("check-in date must be before check-out date"))
	}
	items, err := buildLineItems(input.Body.LineItems)
	if err != nil {
		return nil, err
	}

	reservation := models.Reservation{
		Reference: uuid.NewString(),
		GuestFields: models.GuestFields{
			CustomerName:  input.Body.CustomerName,
			CustomerEmail: input.Body.CustomerEmail,
			TotalPeople:   input.Body.TotalPeople,
			Adults:        input.Body.Adults,
			Children:      input.Body.Children,
		},
		AccommodationType: models.AccommodationType(input.Body.AccommodationType),
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Status:            models.StatusDraft,
		LineItems:         items,
	}
	reservation.ProposedTotalCost = pricing.ReservationTotal(&reservation)

	if err := h.db.Create(&reservation).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create reservation: " + err.Error())
	}
	return &ReservationResponse{Body: reservation}, nil
}

type GetReservationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *ReservationHandler) HandleGetReservation(ctx context.Context, input *GetReservationRequest) (*ReservationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	err := h.db.Preload("LineItems").Preload("Allocations").Preload("Allocations.RoomUnit").First(&reservation, input.ID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, huma.Error404NotFound("Reservation not found")
		}
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}
	return &ReservationResponse{Body: reservation}, nil
}

type AddLineItemRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body LineItemInput
}

// HandleAddLineItem appends a line item and refreshes the cached total in
// the same transaction.
func (h *ReservationHandler) HandleAddLineItem(ctx context.Context, input *AddLineItemRequest) (*ReservationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	items, err := buildLineItems([]LineItemInput{input.Body})
	if err != nil {
		return nil, err
	}

	var reservation models.Reservation
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("LineItems").First(&reservation, input.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("reservation", input.ID)
			}
			return err
		}
		if reservation.Terminal() {
			return errs.State("reservation %s is %s and cannot be edited", reservation.Reference, reservation.Status)
		}

		item := items[0]
		item.ReservationID = &reservation.ID
		item.Position = len(reservation.LineItems)
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		reservation.LineItems = append(reservation.LineItems, item)
		return tx.Model(&reservation).
			Update("proposed_total_cost", pricing.ReservationTotal(&reservation)).Error
	})
	if txErr != nil {
		return nil, domainError(txErr)
	}
	return &ReservationResponse{Body: reservation}, nil
}

type RemoveLineItemRequest struct {
	auth.AuthInput
	ID     uint `path:"id"`
	ItemID uint `path:"itemID"`
}

func (h *ReservationHandler) HandleRemoveLineItem(ctx context.Context, input *RemoveLineItemRequest) (*ReservationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, input.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("reservation", input.ID)
			}
			return err
		}
		if reservation.Terminal() {
			return errs.State("reservation %s is %s and cannot be edited", reservation.Reference, reservation.Status)
		}

		result := tx.Where("id = ? AND reservation_id = ?", input.ItemID, reservation.ID).Delete(&models.LineItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("line item", input.ItemID)
		}

		if err := tx.Preload("LineItems").First(&reservation, input.ID).Error; err != nil {
			return err
		}
		return tx.Model(&reservation).
			Update("proposed_total_cost", pricing.ReservationTotal(&reservation)).Error
	})
	if txErr != nil {
		return nil, domainError(txErr)
	}
	return &ReservationResponse{Body: reservation}, nil
}

type AllocateRoomRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		RoomID   uint   `json:"room_id" doc:"Room unit to allocate" required:"true"`
		CheckIn  string `json:"check_in" doc:"YYYY-MM-DD; defaults to the reservation's arrival"`
		CheckOut string `json:"check_out" doc:"YYYY-MM-DD; defaults to the reservation's departure"`
	}
}

type AllocationResponse struct {
	Body models.Allocation
}

// HandleAllocateRoom tentatively holds a room for the reservation. A 409
// means someone got there first; the caller re-queries availability.
func (h *ReservationHandler) HandleAllocateRoom(ctx context.Context, input *AllocateRoomRequest) (*AllocationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	if err := h.db.First(&reservation, input.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, huma.Error404NotFound("Reservation not found")
		}
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}
	if reservation.Terminal() {
		return nil, domainError(errs.State("reservation %s is %s and cannot take rooms", reservation.Reference, reservation.Status))
	}

	checkIn, checkOut := reservation.CheckInDate, reservation.CheckOutDate
	var err error
	if input.Body.CheckIn != "" {
		if checkIn, err = parseDate(input.Body.CheckIn, "check_in"); err != nil {
			return nil, err
		}
	}
	if input.Body.CheckOut != "" {
		if checkOut, err = parseDate(input.Body.CheckOut, "check_out"); err != nil {
			return nil, err
		}
	}

	allocation, err := h.alloc.TentativelyAllocate(input.Body.RoomID, reservation.ID, checkIn, checkOut)
	if err != nil {
		return nil, domainError(err)
	}
	return &AllocationResponse{Body: *allocation}, nil
}

type ReleaseAllocationRequest struct {
	auth.AuthInput
	ID           uint `path:"id"`
	AllocationID uint `path:"allocationID"`
}

type ReleaseAllocationResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ReservationHandler) HandleReleaseAllocation(ctx context.Context, input *ReleaseAllocationRequest) (*ReleaseAllocationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var allocation models.Allocation
	if err := h.db.First(&allocation, input.AllocationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, huma.Error404NotFound("Allocation not found")
		}
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}
	if allocation.ReservationID != input.ID {
		return nil, huma.Error404NotFound("Allocation does not belong to this reservation")
	}

	if err := h.alloc.Release(allocation.ID); err != nil {
		return nil, domainError(err)
	}

	res := &ReleaseAllocationResponse{}
	res.Body.Message = "Allocation released"
	return res, nil
}

type TransitionRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Target             string `json:"target" doc:"Target status" required:"true"`
		CancellationReason string `json:"cancellation_reason,omitempty" doc:"Required when cancelling"`
	}
}

type TransitionResponse struct {
	Body lifecycle.Result
}

func (h *ReservationHandler) HandleTransition(ctx context.Context, input *TransitionRequest) (*TransitionResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	result, err := h.manager.Transition(input.ID, models.ReservationStatus(input.Body.Target), lifecycle.Context{
		CancellationReason: input.Body.CancellationReason,
	})
	if err != nil {
		return nil, domainError(err)
	}
	return &TransitionResponse{Body: result}, nil
}

type CreateQuotationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type QuotationResponse struct {
	Body models.Quotation
}

func (h *ReservationHandler) HandleCreateQuotation(ctx context.Context, input *CreateQuotationRequest) (*QuotationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	quotation, err := h.quotes.Build(input.ID)
	if err != nil {
		return nil, domainError(err)
	}
	return &QuotationResponse{Body: *quotation}, nil
}

type SubmitQuotationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *ReservationHandler) HandleSubmitQuotation(ctx context.Context, input *SubmitQuotationRequest) (*QuotationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.quotes.Submit(input.ID); err != nil {
		return nil, domainError(err)
	}

	var quotation models.Quotation
	if err := h.db.Preload("Items").First(&quotation, input.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load quotation: " + err.Error())
	}
	return &QuotationResponse{Body: quotation}, nil
}
