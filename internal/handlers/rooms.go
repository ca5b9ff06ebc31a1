package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/gorm"
)

type RoomHandler struct {
	db          *gorm.DB
	alloc       *allocator.Allocator
	authHandler *auth.AuthHandler
}

func NewRoomHandler(db *gorm.DB, alloc *allocator.Allocator, authHandler *auth.AuthHandler) *RoomHandler {
	return &RoomHandler{db: db, alloc: alloc, authHandler: authHandler}
}

const dateLayout = "2006-01-02"

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, huma.Error400BadRequest(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

type CreateRoomRequest struct {
	auth.AuthInput
	Body struct {
		Number       string  `json:"number" doc:"Room number" required:"true"`
		RoomType     string  `json:"room_type" doc:"Room type, e.g. Twin or Double" required:"true"`
		Capacity     int     `json:"capacity" doc:"Maximum number of guests"`
		BaseRate     float64 `json:"base_rate" doc:"Nightly rate for non-residents"`
		ResidentRate float64 `json:"resident_rate" doc:"Nightly rate for residents"`
	}
}

type RoomResponse struct {
	Body models.RoomUnit
}

func (h *RoomHandler) HandleCreateRoom(ctx context.Context, input *CreateRoomRequest) (*RoomResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	room := models.RoomUnit{
		Number:       input.Body.Number,
		RoomType:     input.Body.RoomType,
		Capacity:     input.Body.Capacity,
		BaseRate:     decimal.NewFromFloat(input.Body.BaseRate),
		ResidentRate: decimal.NewFromFloat(input.Body.ResidentRate),
		Status:       models.RoomAvailable,
	}
	if err := h.db.Create(&room).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create room: " + err.Error())
	}

	return &RoomResponse{Body: room}, nil
}

type ListRoomsRequest struct {
	auth.AuthInput
	RoomType string `query:"room_type" doc:"Filter by room type"`
	Status   string `query:"status" doc:"Filter by room status"`
}

type ListRoomsResponse struct {
	Body []models.RoomUnit
}

func (h *RoomHandler) HandleListRooms(ctx context.Context, input *ListRoomsRequest) (*ListRoomsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	q := h.db.Order("number")
	if input.RoomType != "" {
		q = q.Where("room_type = ?", input.RoomType)
	}
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}

	var rooms []models.RoomUnit
	if err := q.Find(&rooms).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list rooms: " + err.Error())
	}
	return &ListRoomsResponse{Body: rooms}, nil
}

type FindAvailableRequest struct {
	auth.AuthInput
	RoomType string `query:"room_type" doc:"Room type to search" required:"true"`
	CheckIn  string `query:"check_in" doc:"Check-in date (inclusive), YYYY-MM-DD" required:"true"`
	CheckOut string `query:"check_out" doc:"Check-out date (exclusive), YYYY-MM-DD" required:"true"`
}

type FindAvailableResponse struct {
	Body []models.RoomUnit
}

func (h *RoomHandler) HandleFindAvailable(ctx context.Context, input *FindAvailableRequest) (*FindAvailableResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	checkIn, err := parseDate(input.CheckIn, "check_in")
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate(input.CheckOut, "check_out")
	if err != nil {
		return nil, err
	}

	rooms, err := h.alloc.FindAvailable(input.RoomType, checkIn, checkOut)
	if err != nil {
		return nil, domainError(err)
	}
	return &FindAvailableResponse{Body: rooms}, nil
}

type MarkCleanedRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MarkCleanedResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *RoomHandler) HandleMarkCleaned(ctx context.Context, input *MarkCleanedRequest) (*MarkCleanedResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.alloc.MarkCleaned(input.ID); err != nil {
		return nil, domainError(err)
	}

	res := &MarkCleanedResponse{}
	res.Body.Message = "Room is available again"
	return res, nil
}
