package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type ChatMessageRepository interface {
	Create(message *models.ChatMessage) error
	FindByUser(userID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create implements ChatMessageRepository.
func (r *chatMessageRepository) Create(message *models.ChatMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// FindByUser implements ChatMessageRepository: returns the transcript in
// chronological order.
func (r *chatMessageRepository) FindByUser(userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var messages []models.ChatMessage
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to find chat messages: %w", err)
	}
	return messages, nil
}
