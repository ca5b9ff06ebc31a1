package lifecycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/errs"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *allocator.Allocator, *Manager) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.RoomUnit{}, &models.Allocation{}, &models.LineItem{},
		&models.Reservation{}, &models.BookingInquiry{}, &models.MaintenanceLog{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	alloc := allocator.New(db)
	m := New(db, alloc, nil, logrus.New())
	return db, alloc, m
}

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func makeReservation(t *testing.T, db *gorm.DB, status models.ReservationStatus) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		Reference: "res-" + string(status) + "-" + time.Now().Format("150405.000000000"),
		GuestFields: models.GuestFields{
			CustomerName: "Jane Mwangi",
			TotalPeople:  3,
			Adults:       2,
			Children:     1,
		},
		AccommodationType: models.AccommodationRooms,
		CheckInDate:       day(1),
		CheckOutDate:      day(5),
		Status:            status,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}
	return r
}

func TestTransition_PeopleCountInvariant(t *testing.T) {
	db, _, m := setup(t)

	r := makeReservation(t, db, models.StatusDraft)
	db.Model(r).Update("total_people", 5) // 5 != 2 + 1

	_, err := m.Transition(r.ID, models.StatusReserved, Context{})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var got models.Reservation
	db.First(&got, r.ID)
	if got.Status != models.StatusDraft {
		t.Errorf("failed transition must not change status, got %s", got.Status)
	}
}

func TestTransition_DraftToReserved(t *testing.T) {
	db, _, m := setup(t)

	r := makeReservation(t, db, models.StatusDraft)
	db.Create(&models.LineItem{ReservationID: &r.ID, Kind: models.KindActivity, UnitRate: decimal.NewFromInt(100)})

	result, err := m.Transition(r.ID, models.StatusReserved, Context{})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !result.OK || result.Code != "reserved" {
		t.Errorf("unexpected result: %+v", result)
	}

	var got models.Reservation
	db.First(&got, r.ID)
	if got.Status != models.StatusReserved {
		t.Errorf("expected Reserved, got %s", got.Status)
	}
	// The cached total is refreshed on every persisted transition.
	if !got.ProposedTotalCost.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected refreshed total 100, got %s", got.ProposedTotalCost)
	}
}

func TestTransition_ReservedRequiresCustomer(t *testing.T) {
	db, _, m := setup(t)

	r := makeReservation(t, db, models.StatusDraft)
	db.Model(r).Update("customer_name", "")

	_, err := m.Transition(r.ID, models.StatusReserved, Context{})
	if !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for missing customer, got %v", err)
	}
}

func TestTransition_ConfirmAllOrNothing(t *testing.T) {
	db, alloc, m := setup(t)

	room := models.RoomUnit{Number: "R1", RoomType: "Twin", BaseRate: decimal.NewFromInt(100), Status: models.RoomAvailable}
	db.Create(&room)

	r := makeReservation(t, db, models.StatusReserved)
	if _, err := alloc.TentativelyAllocate(room.ID, r.ID, day(1), day(5)); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}

	// A competing confirmed allocation appears before we confirm.
	competitor := models.Allocation{
		RoomUnitID:    room.ID,
		ReservationID: r.ID + 1000,
		CheckIn:       day(3),
		CheckOut:      day(8),
		State:         models.AllocationConfirmed,
	}
	db.Create(&competitor)

	_, err := m.Transition(r.ID, models.StatusConfirmedReservation, Context{})
	if !errs.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	var got models.Reservation
	db.First(&got, r.ID)
	if got.Status != models.StatusReserved {
		t.Errorf("reservation must remain Reserved after failed confirm, got %s", got.Status)
	}
}

func TestTransition_ConfirmSucceeds(t *testing.T) {
	db, alloc, m := setup(t)

	room := models.RoomUnit{Number: "R1", RoomType: "Twin", BaseRate: decimal.NewFromInt(100), Status: models.RoomAvailable}
	db.Create(&room)

	r := makeReservation(t, db, models.StatusReserved)
	if _, err := alloc.TentativelyAllocate(room.ID, r.ID, day(1), day(5)); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}

	result, err := m.Transition(r.ID, models.StatusConfirmedReservation, Context{})
	if err != nil {
		t.Fatalf("confirm transition failed: %v", err)
	}
	if !result.OK || result.Code != "confirmed" {
		t.Errorf("unexpected result: %+v", result)
	}

	var confirmed int64
	db.Model(&models.Allocation{}).
		Where("reservation_id = ? AND state = ?", r.ID, models.AllocationConfirmed).
		Count(&confirmed)
	if confirmed != 1 {
		t.Errorf("expected 1 confirmed allocation, got %d", confirmed)
	}
}

func TestTransition_CheckInGuards(t *testing.T) {
	db, _, m := setup(t)

	// Without a room booking line item check-in is rejected.
	r := makeReservation(t, db, models.StatusConfirmedReservation)
	_, err := m.Transition(r.ID, models.StatusCheckedIn, Context{})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError without room booking, got %v", err)
	}

	db.Create(&models.LineItem{ReservationID: &r.ID, Kind: models.KindRoomBooking, UnitRate: decimal.NewFromInt(200)})

	result, err := m.Transition(r.ID, models.StatusCheckedIn, Context{})
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if !result.OK {
		t.Errorf("unexpected result: %+v", result)
	}

	// Checking in twice is a no-op, not an error.
	result, err = m.Transition(r.ID, models.StatusCheckedIn, Context{})
	if err != nil {
		t.Fatalf("repeated check-in must not fail: %v", err)
	}
	if !result.OK {
		t.Errorf("unexpected result on repeated check-in: %+v", result)
	}
}

func TestTransition_CheckOut(t *testing.T) {
	db, alloc, m := setup(t)

	room := models.RoomUnit{Number: "R1", RoomType: "Twin", BaseRate: decimal.NewFromInt(100), Status: models.RoomAvailable}
	db.Create(&room)

	r := makeReservation(t, db, models.StatusReserved)
	db.Create(&models.LineItem{ReservationID: &r.ID, Kind: models.KindRoomBooking, UnitRate: decimal.NewFromInt(200)})
	if _, err := alloc.TentativelyAllocate(room.ID, r.ID, day(1), day(5)); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	if _, err := m.Transition(r.ID, models.StatusConfirmedReservation, Context{}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := m.Transition(r.ID, models.StatusCheckedIn, Context{}); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	// Before the departure date checkout is rejected.
	m.now = func() time.Time { return day(3) }
	if _, err := m.Transition(r.ID, models.StatusCheckedOut, Context{}); !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError before departure date, got %v", err)
	}

	m.now = func() time.Time { return day(5) }
	result, err := m.Transition(r.ID, models.StatusCheckedOut, Context{})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !result.OK || result.Code != "checked_out" {
		t.Errorf("unexpected result: %+v", result)
	}

	var gotRoom models.RoomUnit
	db.First(&gotRoom, room.ID)
	if gotRoom.Status != models.RoomUnderMaintenance {
		t.Errorf("expected room Under Maintenance after checkout, got %s", gotRoom.Status)
	}
	var logs int64
	db.Model(&models.MaintenanceLog{}).Where("room_unit_id = ?", room.ID).Count(&logs)
	if logs != 1 {
		t.Errorf("expected a maintenance log entry, got %d", logs)
	}

	// Checked Out is terminal.
	if _, err := m.Transition(r.ID, models.StatusCancelled, Context{CancellationReason: "x"}); !errs.IsState(err) {
		t.Errorf("expected StateError from terminal state, got %v", err)
	}
}

func TestTransition_Cancel(t *testing.T) {
	db, alloc, m := setup(t)

	room := models.RoomUnit{Number: "R1", RoomType: "Twin", BaseRate: decimal.NewFromInt(100), Status: models.RoomAvailable}
	db.Create(&room)

	r := makeReservation(t, db, models.StatusReserved)
	allocation, err := alloc.TentativelyAllocate(room.ID, r.ID, day(1), day(5))
	if err != nil {
		t.Fatalf("allocation failed: %v", err)
	}

	// A reason is mandatory.
	if _, err := m.Transition(r.ID, models.StatusCancelled, Context{}); !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError without reason, got %v", err)
	}

	result, err := m.Transition(r.ID, models.StatusCancelled, Context{CancellationReason: "guest changed plans"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !result.OK || result.Code != "cancelled" {
		t.Errorf("unexpected result: %+v", result)
	}

	var gotAlloc models.Allocation
	db.First(&gotAlloc, allocation.ID)
	if gotAlloc.State != models.AllocationReleased {
		t.Errorf("cancellation must release allocations, got %s", gotAlloc.State)
	}

	// Cancellation is irreversible.
	if _, err := m.Transition(r.ID, models.StatusReserved, Context{}); !errs.IsState(err) {
		t.Errorf("expected StateError after cancellation, got %v", err)
	}
}

func TestTransition_CancelCheckedInRejected(t *testing.T) {
	db, _, m := setup(t)

	r := makeReservation(t, db, models.StatusCheckedIn)
	_, err := m.Transition(r.ID, models.StatusCancelled, Context{CancellationReason: "too late"})
	if !errs.IsState(err) {
		t.Errorf("expected StateError cancelling a checked-in reservation, got %v", err)
	}
}

func TestConvertInquiry(t *testing.T) {
	db, _, m := setup(t)

	inquiry := models.BookingInquiry{
		CustomerName:      "Amos Otieno",
		TotalPeople:       2,
		Adults:            2,
		AccommodationType: models.AccommodationRooms,
		CheckInDate:       day(10),
		CheckOutDate:      day(14),
		Status:            models.InquiryOpen,
		LineItems: []models.LineItem{
			{Kind: models.KindActivity, Description: "Game drive", UnitRate: decimal.NewFromInt(150)},
			{Kind: models.KindRoomBooking, Description: "Twin room", UnitRate: decimal.NewFromInt(200)},
		},
	}
	db.Create(&inquiry)

	reservation, err := m.ConvertInquiry(inquiry.ID)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	if reservation.Status != models.StatusDraft {
		t.Errorf("expected Draft reservation, got %s", reservation.Status)
	}
	if reservation.CustomerName != inquiry.CustomerName {
		t.Errorf("customer not copied: %s", reservation.CustomerName)
	}
	if len(reservation.LineItems) != 2 {
		t.Errorf("expected 2 copied line items, got %d", len(reservation.LineItems))
	}
	if !reservation.ProposedTotalCost.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected total 350, got %s", reservation.ProposedTotalCost)
	}

	var gotInquiry models.BookingInquiry
	db.First(&gotInquiry, inquiry.ID)
	if gotInquiry.ReservationID == nil || *gotInquiry.ReservationID != reservation.ID {
		t.Error("inquiry must record the produced reservation for traceability")
	}

	// At most one reservation per inquiry.
	if _, err := m.ConvertInquiry(inquiry.ID); !errs.IsState(err) {
		t.Errorf("expected StateError on second conversion, got %v", err)
	}
}

func TestConvertInquiry_MissingCustomer(t *testing.T) {
	db, _, m := setup(t)

	inquiry := models.BookingInquiry{
		CheckInDate:  day(10),
		CheckOutDate: day(14),
		Status:       models.InquiryOpen,
	}
	db.Create(&inquiry)

	_, err := m.ConvertInquiry(inquiry.ID)
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// No reservation record may exist.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no reservation after failed conversion, got %d", count)
	}
}

func TestMarkLost(t *testing.T) {
	db, _, m := setup(t)

	inquiry := models.BookingInquiry{
		CustomerName: "Amos Otieno",
		CheckInDate:  day(10),
		CheckOutDate: day(14),
		Status:       models.InquiryOpen,
	}
	db.Create(&inquiry)

	if err := m.MarkLost(inquiry.ID, "went with a competitor"); err != nil {
		t.Fatalf("mark lost failed: %v", err)
	}

	var got models.BookingInquiry
	db.First(&got, inquiry.ID)
	if got.Status != models.InquiryLost {
		t.Errorf("expected Lost, got %s", got.Status)
	}

	// Lost inquiries cannot be converted.
	if _, err := m.ConvertInquiry(inquiry.ID); !errs.IsState(err) {
		t.Errorf("expected StateError converting a lost inquiry, got %v", err)
	}
}
