package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	Vectorized       bool      `gorm:"not null;default:false" json:"vectorized"`
	EmbeddingModel   string    `gorm:"type:text" json:"embedding_model,omitempty"`
	ChunkCount       int       `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (d *Document) TableName() string {
	return "cv_documents"
}
