package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
	"github.com/sws-safaris/booking-api/internal/auth"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/gorm"
)

type InstructorHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewInstructorHandler(db *gorm.DB, authHandler *auth.AuthHandler) *InstructorHandler {
	return &InstructorHandler{db: db, authHandler: authHandler}
}

type CreateInstructorRequest struct {
	auth.AuthInput
	Body struct {
		Name           string `json:"name" doc:"Instructor name" required:"true"`
		ActivityLevels []struct {
			ActivityName  string `json:"activity_name" required:"true"`
			Qualification string `json:"qualification" required:"true"`
		} `json:"activity_levels" doc:"Qualifications held per activity"`
	}
}

type InstructorResponse struct {
	Body models.Instructor
}

func (h *InstructorHandler) HandleCreateInstructor(ctx context.Context, input *CreateInstructorRequest) (*InstructorResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	instructor := models.Instructor{Name: input.Body.Name, Active: true}
	for _, level := range input.Body.ActivityLevels {
		instructor.ActivityLevels = append(instructor.ActivityLevels, models.InstructorActivityLevel{
			ActivityName:  level.ActivityName,
			Qualification: level.Qualification,
		})
	}
	if err := h.db.Create(&instructor).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create instructor: " + err.Error())
	}
	return &InstructorResponse{Body: instructor}, nil
}

type CreateInstructorRateRequest struct {
	auth.AuthInput
	Body struct {
		Qualification string  `json:"qualification" required:"true"`
		ActivityName  string  `json:"activity_name" required:"true"`
		SessionType   string  `json:"session_type" required:"true"`
		Rate          float64 `json:"rate"`
	}
}

type InstructorRateResponse struct {
	Body models.InstructorRate
}

func (h *InstructorHandler) HandleCreateInstructorRate(ctx context.Context, input *CreateInstructorRateRequest) (*InstructorRateResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	rate := models.InstructorRate{
		Qualification: input.Body.Qualification,
		ActivityName:  input.Body.ActivityName,
		SessionType:   input.Body.SessionType,
		Rate:          decimal.NewFromFloat(input.Body.Rate),
	}
	if err := h.db.Create(&rate).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create instructor rate: " + err.Error())
	}
	return &InstructorRateResponse{Body: rate}, nil
}

type FindInstructorsRequest struct {
	auth.AuthInput
	Activity    string `query:"activity" doc:"Activity name" required:"true"`
	SessionType string `query:"session_type" doc:"Session type, e.g. Group or Private" required:"true"`
}

// InstructorSuggestion pairs a qualified instructor with the rate for
// the requested session type. Rate is nil when no rate card covers the
// qualification yet.
type InstructorSuggestion struct {
	Instructor    string           `json:"instructor"`
	Qualification string           `json:"qualification"`
	Rate          *decimal.Decimal `json:"rate"`
}

type FindInstructorsResponse struct {
	Body []InstructorSuggestion
}

// HandleFindInstructors lists instructors qualified for an activity,
// joined with the rate card for the requested session type.
func (h *InstructorHandler) HandleFindInstructors(ctx context.Context, input *FindInstructorsRequest) (*FindInstructorsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}
	if input.Activity == "" || input.SessionType == "" {
		return nil, huma.Error422UnprocessableEntity("Both activity and session_type are required")
	}

	var levels []models.InstructorActivityLevel
	if err := h.db.Where("activity_name = ?", input.Activity).Find(&levels).Error; err != nil {
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}

	var rates []models.InstructorRate
	if err := h.db.
		Where("activity_name = ? AND session_type = ?", input.Activity, input.SessionType).
		Find(&rates).Error; err != nil {
		return nil, huma.Error500InternalServerError("Database error: " + err.Error())
	}
	rateByQualification := make(map[string]decimal.Decimal, len(rates))
	for i := range rates {
		rateByQualification[rates[i].Qualification] = rates[i].Rate
	}

	suggestions := make([]InstructorSuggestion, 0, len(levels))
	for i := range levels {
		var instructor models.Instructor
		if err := h.db.First(&instructor, levels[i].InstructorID).Error; err != nil {
			continue
		}
		suggestion := InstructorSuggestion{
			Instructor:    instructor.Name,
			Qualification: levels[i].Qualification,
		}
		if rate, ok := rateByQualification[levels[i].Qualification]; ok {
			suggestion.Rate = &rate
		}
		suggestions = append(suggestions, suggestion)
	}
	return &FindInstructorsResponse{Body: suggestions}, nil
}
