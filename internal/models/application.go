package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

// Board columns, in pipeline order. Rejected sits outside the pipeline and
// is reachable from any non-terminal column.
const (
	StatusShortlisted  ApplicationStatus = "shortlisted"
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffer        ApplicationStatus = "offer"
	StatusRejected     ApplicationStatus = "rejected"
)

var boardOrder = map[ApplicationStatus]int{
	StatusShortlisted:  0,
	StatusApplied:      1,
	StatusInterviewing: 2,
	StatusOffer:        3,
}

// BoardColumns lists every column in display order.
func BoardColumns() []ApplicationStatus {
	return []ApplicationStatus{
		StatusShortlisted,
		StatusApplied,
		StatusInterviewing,
		StatusOffer,
		StatusRejected,
	}
}

func (s ApplicationStatus) Valid() bool {
	if s == StatusRejected {
		return true
	}
	_, ok := boardOrder[s]
	return ok
}

// CanTransitionTo enforces the board rules: cards move one column forward at
// a time, any non-terminal card can be rejected, and offer/rejected are
// terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !s.Valid() || !next.Valid() || s == next {
		return false
	}
	if s == StatusOffer || s == StatusRejected {
		return false
	}
	if next == StatusRejected {
		return true
	}
	return boardOrder[next] == boardOrder[s]+1
}

type Application struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_applications_user_offer,unique" json:"user_id"`
	JobOfferID uuid.UUID         `gorm:"type:uuid;not null;index:idx_applications_user_offer,unique" json:"job_offer_id"`
	Status     ApplicationStatus `gorm:"not null;default:'shortlisted';index" json:"status"`
	Notes      string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	JobOffer JobOffer `gorm:"foreignKey:JobOfferID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// Move validates and applies a column change.
func (a *Application) Move(next ApplicationStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("cannot move application from %s to %s", a.Status, next)
	}
	a.Status = next
	return nil
}
