package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindByUserAndOffer(userID, offerID uuid.UUID) (*models.Application, error)
	FindByUser(userID uuid.UUID) ([]models.Application, error)
	Update(app *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements ApplicationRepository.
func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// FindByID implements ApplicationRepository.
func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// FindByUserAndOffer implements ApplicationRepository.
func (r *applicationRepository) FindByUserAndOffer(userID, offerID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.
		Where("user_id = ? AND job_offer_id = ?", userID, offerID).
		First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// FindByUser implements ApplicationRepository. Cards come back ordered by
// last activity so each board column lists the most recently touched first.
func (r *applicationRepository) FindByUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Update implements ApplicationRepository.
func (r *applicationRepository) Update(app *models.Application) error {
	if err := r.db.Save(app).Error; err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}
