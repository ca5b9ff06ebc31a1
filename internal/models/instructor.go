package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Instructor leads guided activities such as water sports sessions.
type Instructor struct {
	gorm.Model
	Name           string                    `json:"name" gorm:"uniqueIndex"`
	Active         bool                      `json:"active"`
	ActivityLevels []InstructorActivityLevel `json:"activity_levels"`
}

// InstructorActivityLevel records a qualification an instructor holds
// for one activity.
type InstructorActivityLevel struct {
	gorm.Model
	InstructorID  uint   `json:"instructor_id"`
	ActivityName  string `json:"activity_name" gorm:"index"`
	Qualification string `json:"qualification"`
}

// InstructorRate prices a qualification for an activity and session
// type. Rates are keyed by qualification, not by instructor, so every
// instructor at the same level earns the same rate.
type InstructorRate struct {
	gorm.Model
	Qualification string          `json:"qualification"`
	ActivityName  string          `json:"activity_name" gorm:"index"`
	SessionType   string          `json:"session_type"`
	Rate          decimal.Decimal `json:"rate" gorm:"type:decimal(20,4)"`
}
