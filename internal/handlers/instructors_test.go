package handlers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/config"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInstructors(t *testing.T) (*gorm.DB, *InstructorHandler, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.APIKey{},
		&models.Instructor{}, &models.InstructorActivityLevel{}, &models.InstructorRate{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	user := models.User{DiscordID: "123456789"}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)
	token, _ := authHandler.GenerateToken(user.ID)

	return db, NewInstructorHandler(db, authHandler), "auth_token=" + token
}

func createInstructor(t *testing.T, handler *InstructorHandler, cookie, name, activity, qualification string) {
	t.Helper()
	req := CreateInstructorRequest{}
	req.Cookie = cookie
	req.Body.Name = name
	req.Body.ActivityLevels = append(req.Body.ActivityLevels, struct {
		ActivityName  string `json:"activity_name" required:"true"`
		Qualification string `json:"qualification" required:"true"`
	}{ActivityName: activity, Qualification: qualification})
	if _, err := handler.HandleCreateInstructor(context.Background(), &req); err != nil {
		t.Fatalf("create instructor failed: %v", err)
	}
}

func TestHandleFindInstructors(t *testing.T) {
	_, handler, cookie := setupInstructors(t)

	createInstructor(t, handler, cookie, "Amos Kiptoo", "Kayaking", "Level 2")
	createInstructor(t, handler, cookie, "Beatrice Njeri", "Kayaking", "Level 1")
	createInstructor(t, handler, cookie, "Collins Odhiambo", "Game Drive", "Senior Guide")

	rate := CreateInstructorRateRequest{}
	rate.Cookie = cookie
	rate.Body.Qualification = "Level 2"
	rate.Body.ActivityName = "Kayaking"
	rate.Body.SessionType = "Group"
	rate.Body.Rate = 45
	if _, err := handler.HandleCreateInstructorRate(context.Background(), &rate); err != nil {
		t.Fatalf("create rate failed: %v", err)
	}

	find := FindInstructorsRequest{}
	find.Cookie = cookie
	find.Activity = "Kayaking"
	find.SessionType = "Group"
	resp, err := handler.HandleFindInstructors(context.Background(), &find)
	if err != nil {
		t.Fatalf("find instructors failed: %v", err)
	}

	if len(resp.Body) != 2 {
		t.Fatalf("expected 2 kayaking instructors, got %d", len(resp.Body))
	}
	byName := map[string]InstructorSuggestion{}
	for _, s := range resp.Body {
		byName[s.Instructor] = s
	}

	// Level 2 carries a Group rate, Level 1 has no rate card yet.
	amos, ok := byName["Amos Kiptoo"]
	if !ok || amos.Rate == nil || !amos.Rate.Equal(decimal.NewFromInt(45)) {
		t.Errorf("expected Amos Kiptoo with rate 45, got %+v", amos)
	}
	beatrice, ok := byName["Beatrice Njeri"]
	if !ok || beatrice.Rate != nil {
		t.Errorf("expected Beatrice Njeri without a rate, got %+v", beatrice)
	}
}

func TestHandleFindInstructors_RequiresBothParameters(t *testing.T) {
	_, handler, cookie := setupInstructors(t)

	find := FindInstructorsRequest{}
	find.Cookie = cookie
	find.Activity = "Kayaking"
	if _, err := handler.HandleFindInstructors(context.Background(), &find); err == nil {
		t.Error("expected error with missing session_type")
	}
}
