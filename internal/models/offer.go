package models

import (
	"time"

	"github.com/google/uuid"
)

type JobSource struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	BaseURL   string    `gorm:"type:text" json:"base_url"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (s *JobSource) TableName() string {
	return "job_sources"
}

type JobOffer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SourceID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_offers_source_external,unique" json:"source_id"`
	ExternalJobID  string     `gorm:"type:text;not null;index:idx_offers_source_external,unique" json:"external_job_id"`
	Title          string     `gorm:"type:text;not null" json:"title"`
	Company        string     `gorm:"type:text" json:"company"`
	Location       string     `gorm:"type:text" json:"location"`
	WorkMode       string     `gorm:"type:text" json:"work_mode,omitempty"`
	SalaryMin      *int       `json:"salary_min,omitempty"`
	SalaryMax      *int       `json:"salary_max,omitempty"`
	SalaryCurrency string     `gorm:"type:text" json:"salary_currency,omitempty"`
	Description    string     `gorm:"type:text" json:"description"`
	URL            string     `gorm:"type:text" json:"url"`
	PostedAt       *time.Time `gorm:"type:timestamp" json:"posted_at,omitempty"`
	IsActive       bool       `gorm:"not null;default:true;index" json:"is_active"`
	Vectorized     bool       `gorm:"not null;default:false;index" json:"vectorized"`
	CreatedAt      time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`

	Source JobSource `gorm:"foreignKey:SourceID" json:"-"`
}

func (o *JobOffer) TableName() string {
	return "job_offers"
}

// EmbeddingText is the text handed to the embedding model for an offer.
func (o *JobOffer) EmbeddingText() string {
	text := o.Title
	if o.Company != "" {
		text += "\n" + o.Company
	}
	if o.Location != "" {
		text += "\n" + o.Location
	}
	if o.Description != "" {
		text += "\n\n" + o.Description
	}
	return text
}
