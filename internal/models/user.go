package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:text" json:"name"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Search preferences collected during intake.
	DesiredPosition   string `gorm:"type:text" json:"desired_position"`
	SalaryExpectation string `gorm:"type:text" json:"salary_expectation"`
	Location          string `gorm:"type:text" json:"location"`
	WorkModality      string `gorm:"type:text" json:"work_modality"`
}

func (u *User) TableName() string {
	return "users"
}

// ProfileComplete reports whether every intake question has an answer.
func (u *User) ProfileComplete() bool {
	for _, v := range []string{u.DesiredPosition, u.SalaryExpectation, u.Location, u.WorkModality} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// PreferenceQuery is the free-text used to embed the user's search intent
// alongside the CV when ranking offers.
func (u *User) PreferenceQuery() string {
	parts := make([]string, 0, 4)
	for _, v := range []string{u.DesiredPosition, u.Location, u.WorkModality, u.SalaryExpectation} {
		if s := strings.TrimSpace(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}
