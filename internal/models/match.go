package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchRunStatus string

const (
	StatusQueued     MatchRunStatus = "queued"
	StatusProcessing MatchRunStatus = "processing"
	StatusCompleted  MatchRunStatus = "completed"
	StatusFailed     MatchRunStatus = "failed"
)

// MatchRun is one asynchronous ranking pass of all active offers against a
// user's CV and preferences.
type MatchRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Status       MatchRunStatus `gorm:"not null;default:'queued'" json:"status"`
	Limit        int            `gorm:"not null;default:0" json:"limit"`
	MatchCount   int            `gorm:"not null;default:0" json:"match_count"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}

type Match struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RunID         uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	JobOfferID    uuid.UUID `gorm:"type:uuid;not null;index" json:"job_offer_id"`
	Score         float64   `gorm:"not null" json:"score"`
	IsRecommended bool      `gorm:"not null;default:false;index" json:"is_recommended"`
	MatchedAt     time.Time `gorm:"type:timestamp;default:now()" json:"matched_at"`

	Run      MatchRun `gorm:"foreignKey:RunID" json:"-"`
	JobOffer JobOffer `gorm:"foreignKey:JobOfferID" json:"-"`
}

func (Match) TableName() string {
	return "job_matches"
}
