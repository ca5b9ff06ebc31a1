package handlers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/config"
	"github.com/sws-safaris/booking-api/internal/lifecycle"
	"github.com/sws-safaris/booking-api/internal/models"
	"github.com/sws-safaris/booking-api/internal/quote"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlers(t *testing.T) (*gorm.DB, *ReservationHandler, *RoomHandler, string) {
	t.Helper()
	// Setup in-memory DB
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.APIKey{},
		&models.RoomUnit{}, &models.Allocation{}, &models.LineItem{},
		&models.Reservation{}, &models.BookingInquiry{},
		&models.MaintenanceLog{}, &models.Quotation{}, &models.QuotationItem{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	user := models.User{DiscordID: "123456789"}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)

	alloc := allocator.New(db)
	manager := lifecycle.New(db, alloc, nil, logrus.New())
	quotes := quote.NewBuilder(db)

	reservationHandler := NewReservationHandler(db, alloc, manager, quotes, authHandler)
	roomHandler := NewRoomHandler(db, alloc, authHandler)

	token, _ := authHandler.GenerateToken(user.ID)
	return db, reservationHandler, roomHandler, "auth_token=" + token
}

func TestHandleCreateReservation(t *testing.T) {
	db, handler, _, cookie := setupHandlers(t)

	req := CreateReservationRequest{}
	req.Cookie = cookie
	req.Body.CustomerName = "Jane Mwangi"
	req.Body.TotalPeople = 3
	req.Body.Adults = 2
	req.Body.Children = 1
	req.Body.AccommodationType = "Rooms"
	req.Body.CheckInDate = "2026-01-01"
	req.Body.CheckOutDate = "2026-01-05"
	req.Body.LineItems = []LineItemInput{
		{Kind: "Activity", Description: "Game drive", UnitRate: 100},
		{Kind: "Activity", Description: "Nature walk", UnitRate: 50},
		{Kind: "Room Booking", Description: "Twin room", UnitRate: 200},
	}

	resp, err := handler.HandleCreateReservation(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleCreateReservation returned error: %v", err)
	}

	if resp.Body.Status != models.StatusDraft {
		t.Errorf("expected Draft, got %s", resp.Body.Status)
	}
	if !resp.Body.ProposedTotalCost.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected proposed total 350, got %s", resp.Body.ProposedTotalCost)
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 reservation in DB, got %d", count)
	}
}

func TestHandleCreateReservation_PeopleMismatch(t *testing.T) {
	db, handler, _, cookie := setupHandlers(t)

	req := CreateReservationRequest{}
	req.Cookie = cookie
	req.Body.CustomerName = "Jane Mwangi"
	req.Body.TotalPeople = 5
	req.Body.Adults = 2
	req.Body.Children = 1
	req.Body.CheckInDate = "2026-01-01"
	req.Body.CheckOutDate = "2026-01-05"

	if _, err := handler.HandleCreateReservation(context.Background(), &req); err == nil {
		t.Fatal("expected error for mismatched people counts, got nil")
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no reservation after rejected create, got %d", count)
	}
}

func TestHandleAddAndRemoveLineItem_RetotalsReservation(t *testing.T) {
	db, handler, _, cookie := setupHandlers(t)

	create := CreateReservationRequest{}
	create.Cookie = cookie
	create.Body.CustomerName = "Jane Mwangi"
	create.Body.CheckInDate = "2026-01-01"
	create.Body.CheckOutDate = "2026-01-05"
	created, err := handler.HandleCreateReservation(context.Background(), &create)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	add := AddLineItemRequest{}
	add.Cookie = cookie
	add.ID = created.Body.ID
	add.Body = LineItemInput{Kind: "Tent Booking", Description: "SWS tent", Quantity: 2, UnitRate: 40}

	added, err := handler.HandleAddLineItem(context.Background(), &add)
	if err != nil {
		t.Fatalf("add line item failed: %v", err)
	}
	if !added.Body.ProposedTotalCost.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected total 80 after add, got %s", added.Body.ProposedTotalCost)
	}

	var item models.LineItem
	db.Where("reservation_id = ?", created.Body.ID).First(&item)

	remove := RemoveLineItemRequest{}
	remove.Cookie = cookie
	remove.ID = created.Body.ID
	remove.ItemID = item.ID

	removed, err := handler.HandleRemoveLineItem(context.Background(), &remove)
	if err != nil {
		t.Fatalf("remove line item failed: %v", err)
	}
	if !removed.Body.ProposedTotalCost.IsZero() {
		t.Errorf("expected total 0 after remove, got %s", removed.Body.ProposedTotalCost)
	}
}

func TestHandleTransition_FullFlow(t *testing.T) {
	db, handler, _, cookie := setupHandlers(t)

	room := models.RoomUnit{Number: "R1", RoomType: "Twin", BaseRate: decimal.NewFromInt(100), Status: models.RoomAvailable}
	db.Create(&room)

	create := CreateReservationRequest{}
	create.Cookie = cookie
	create.Body.CustomerName = "Jane Mwangi"
	create.Body.TotalPeople = 2
	create.Body.Adults = 2
	create.Body.AccommodationType = "Rooms"
	create.Body.CheckInDate = "2026-01-01"
	create.Body.CheckOutDate = "2026-01-05"
	create.Body.LineItems = []LineItemInput{
		{Kind: "Room Booking", Description: "Twin room", UnitRate: 200},
	}
	created, err := handler.HandleCreateReservation(context.Background(), &create)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	allocate := AllocateRoomRequest{}
	allocate.Cookie = cookie
	allocate.ID = created.Body.ID
	allocate.Body.RoomID = room.ID
	if _, err := handler.HandleAllocateRoom(context.Background(), &allocate); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	for _, target := range []string{"Reserved", "Confirmed Reservation"} {
		tr := TransitionRequest{}
		tr.Cookie = cookie
		tr.ID = created.Body.ID
		tr.Body.Target = target
		resp, err := handler.HandleTransition(context.Background(), &tr)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if !resp.Body.OK {
			t.Fatalf("transition to %s reported not OK: %+v", target, resp.Body)
		}
	}

	var got models.Reservation
	db.First(&got, created.Body.ID)
	if got.Status != models.StatusConfirmedReservation {
		t.Errorf("expected Confirmed Reservation, got %s", got.Status)
	}

	var confirmed int64
	db.Model(&models.Allocation{}).
		Where("reservation_id = ? AND state = ?", created.Body.ID, models.AllocationConfirmed).
		Count(&confirmed)
	if confirmed != 1 {
		t.Errorf("expected 1 confirmed allocation, got %d", confirmed)
	}
}

func TestHandleCreateQuotation(t *testing.T) {
	_, handler, _, cookie := setupHandlers(t)

	create := CreateReservationRequest{}
	create.Cookie = cookie
	create.Body.CustomerName = "Jane Mwangi"
	create.Body.CheckInDate = "2026-01-01"
	create.Body.CheckOutDate = "2026-01-05"
	create.Body.LineItems = []LineItemInput{
		{Kind: "Activity", Description: "Game drive", UnitRate: 150},
		{Kind: "Transport", Description: "Airstrip pickup", UnitRate: 60},
	}
	created, err := handler.HandleCreateReservation(context.Background(), &create)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	req := CreateQuotationRequest{}
	req.Cookie = cookie
	req.ID = created.Body.ID

	resp, err := handler.HandleCreateQuotation(context.Background(), &req)
	if err != nil {
		t.Fatalf("quotation failed: %v", err)
	}
	if len(resp.Body.Items) != 2 {
		t.Errorf("expected 2 quotation items, got %d", len(resp.Body.Items))
	}
	if !resp.Body.TotalAmount.Equal(decimal.NewFromInt(210)) {
		t.Errorf("expected total 210, got %s", resp.Body.TotalAmount)
	}

	// Submitting locks the reservation against further quotations.
	submit := SubmitQuotationRequest{}
	submit.Cookie = cookie
	submit.ID = resp.Body.ID
	submitted, err := handler.HandleSubmitQuotation(context.Background(), &submit)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !submitted.Body.Submitted {
		t.Error("expected quotation to be submitted")
	}

	if _, err := handler.HandleCreateQuotation(context.Background(), &req); err == nil {
		t.Error("expected error creating a quotation after one was submitted")
	}
}
