package main

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/sws-safaris/booking-api/internal/allocator"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/config"
	"github.com/sws-safaris/booking-api/internal/database"
	"github.com/sws-safaris/booking-api/internal/handlers"
	"github.com/sws-safaris/booking-api/internal/lifecycle"
	"github.com/sws-safaris/booking-api/internal/notifier"
	"github.com/sws-safaris/booking-api/internal/quote"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg)

	// Connect to Database
	db := database.Connect(cfg)

	// Discord notification surface; the API runs fine without it.
	var staffNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			logger.Warnf("Discord notifier not initialized: %v", err)
		} else {
			staffNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Core components
	alloc := allocator.New(db)
	manager := lifecycle.New(db, alloc, staffNotifier, logger)
	quotes := quote.NewBuilder(db)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	roomHandler := handlers.NewRoomHandler(db, alloc, authHandler)
	inquiryHandler := handlers.NewInquiryHandler(db, manager, staffNotifier, authHandler, logger)
	reservationHandler := handlers.NewReservationHandler(db, alloc, manager, quotes, authHandler)
	instructorHandler := handlers.NewInstructorHandler(db, authHandler)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, roomHandler, inquiryHandler, reservationHandler, instructorHandler, apiKeyHandler)

	// Start Server
	logger.Infof("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
