package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sws-safaris/booking-api/internal/auth"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	roomHandler *RoomHandler,
	inquiryHandler *InquiryHandler,
	reservationHandler *ReservationHandler,
	instructorHandler *InstructorHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Safari Camp Booking API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)
	api.UseMiddleware(authHandler.SessionRefresh)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	cookieAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	huma.Get(api, "/me", authHandler.HandleMe, cookieAuth)

	// API keys
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, cookieAuth)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, cookieAuth)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, cookieAuth)

	// Room directory and availability
	huma.Post(api, "/rooms", roomHandler.HandleCreateRoom, cookieAuth)
	huma.Get(api, "/rooms", roomHandler.HandleListRooms, cookieAuth)
	huma.Get(api, "/rooms/available", roomHandler.HandleFindAvailable, cookieAuth)
	huma.Post(api, "/rooms/{id}/cleaned", roomHandler.HandleMarkCleaned, cookieAuth)

	// Booking inquiries
	huma.Post(api, "/inquiries", inquiryHandler.HandleCreateInquiry, cookieAuth)
	huma.Get(api, "/inquiries/{id}", inquiryHandler.HandleGetInquiry, cookieAuth)
	huma.Post(api, "/inquiries/{id}/convert", inquiryHandler.HandleConvertInquiry, cookieAuth)
	huma.Post(api, "/inquiries/{id}/lost", inquiryHandler.HandleMarkLost, cookieAuth)

	// Reservations
	huma.Post(api, "/reservations", reservationHandler.HandleCreateReservation, cookieAuth)
	huma.Get(api, "/reservations/{id}", reservationHandler.HandleGetReservation, cookieAuth)
	huma.Post(api, "/reservations/{id}/line-items", reservationHandler.HandleAddLineItem, cookieAuth)
	huma.Delete(api, "/reservations/{id}/line-items/{itemID}", reservationHandler.HandleRemoveLineItem, cookieAuth)
	huma.Post(api, "/reservations/{id}/rooms", reservationHandler.HandleAllocateRoom, cookieAuth)
	huma.Delete(api, "/reservations/{id}/rooms/{allocationID}", reservationHandler.HandleReleaseAllocation, cookieAuth)
	huma.Post(api, "/reservations/{id}/transition", reservationHandler.HandleTransition, cookieAuth)
	huma.Post(api, "/reservations/{id}/quotation", reservationHandler.HandleCreateQuotation, cookieAuth)
	huma.Post(api, "/quotations/{id}/submit", reservationHandler.HandleSubmitQuotation, cookieAuth)

	// Instructor directory
	huma.Post(api, "/instructors", instructorHandler.HandleCreateInstructor, cookieAuth)
	huma.Get(api, "/instructors", instructorHandler.HandleFindInstructors, cookieAuth)
	huma.Post(api, "/instructor-rates", instructorHandler.HandleCreateInstructorRate, cookieAuth)
}
