package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type OfferRepository interface {
	EnsureSource(name, baseURL string) (*models.JobSource, error)
	Upsert(offer *models.JobOffer) error
	FindByID(id uuid.UUID) (*models.JobOffer, error)
	FindByIDs(ids []uuid.UUID) ([]models.JobOffer, error)
	ListActive(limit, offset int) ([]models.JobOffer, error)
	FindUnvectorized(limit int) ([]models.JobOffer, error)
	MarkVectorized(id uuid.UUID) error
	DeactivateBySource(sourceID uuid.UUID) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// EnsureSource implements OfferRepository.
func (r *offerRepository) EnsureSource(name, baseURL string) (*models.JobSource, error) {
	var source models.JobSource
	err := r.db.Where("name = ?", name).First(&source).Error
	if err == nil {
		return &source, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to find job source: %w", err)
	}

	source = models.JobSource{ID: uuid.New(), Name: name, BaseURL: baseURL}
	if err := r.db.Create(&source).Error; err != nil {
		return nil, fmt.Errorf("failed to create job source: %w", err)
	}
	return &source, nil
}

// Upsert implements OfferRepository. Offers are keyed by (source, external id);
// a rescraped offer refreshes its fields and reactivates it.
func (r *offerRepository) Upsert(offer *models.JobOffer) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}, {Name: "external_job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "company", "location", "work_mode",
			"salary_min", "salary_max", "salary_currency",
			"description", "url", "posted_at", "is_active", "updated_at",
		}),
	}).Create(offer).Error
	if err != nil {
		return fmt.Errorf("failed to upsert offer: %w", err)
	}
	return nil
}

// FindByID implements OfferRepository.
func (r *offerRepository) FindByID(id uuid.UUID) (*models.JobOffer, error) {
	var offer models.JobOffer
	if err := r.db.Where("id = ?", id).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("offer not found")
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return &offer, nil
}

// FindByIDs implements OfferRepository.
func (r *offerRepository) FindByIDs(ids []uuid.UUID) ([]models.JobOffer, error) {
	var offers []models.JobOffer
	if err := r.db.Where("id IN ?", ids).Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}
	return offers, nil
}

// ListActive implements OfferRepository.
func (r *offerRepository) ListActive(limit, offset int) ([]models.JobOffer, error) {
	if limit <= 0 {
		limit = 50
	}
	var offers []models.JobOffer
	err := r.db.
		Where("is_active = ?", true).
		Order("posted_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// FindUnvectorized implements OfferRepository.
func (r *offerRepository) FindUnvectorized(limit int) ([]models.JobOffer, error) {
	var offers []models.JobOffer
	err := r.db.
		Where("vectorized = ? AND is_active = ?", false, true).
		Order("created_at ASC").
		Limit(limit).
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unvectorized offers: %w", err)
	}
	return offers, nil
}

// MarkVectorized implements OfferRepository.
func (r *offerRepository) MarkVectorized(id uuid.UUID) error {
	result := r.db.Model(&models.JobOffer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"vectorized": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark offer vectorized: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("offer not found")
	}
	return nil
}

// DeactivateBySource implements OfferRepository.
func (r *offerRepository) DeactivateBySource(sourceID uuid.UUID) error {
	err := r.db.Model(&models.JobOffer{}).
		Where("source_id = ?", sourceID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate offers: %w", err)
	}
	return nil
}
