package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type MatchRepository interface {
	CreateRun(run *models.MatchRun) error
	FindRunByID(id uuid.UUID) (*models.MatchRun, error)
	UpdateRunStatus(id uuid.UUID, status models.MatchRunStatus) error
	CompleteRun(id uuid.UUID, matchCount int) error
	FailRun(id uuid.UUID, errorMsg string) error
	FindPendingRuns(limit int) ([]models.MatchRun, error)
	ReplaceMatches(runID, userID uuid.UUID, matches []models.Match) error
	FindMatchesByRun(runID uuid.UUID) ([]models.Match, error)
	FindLatestMatches(userID uuid.UUID, limit int) ([]models.Match, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) CreateRun(run *models.MatchRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create match run: %w", err)
	}
	return nil
}

func (r *matchRepository) FindRunByID(id uuid.UUID) (*models.MatchRun, error) {
	var run models.MatchRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match run not found")
		}
		return nil, fmt.Errorf("failed to find match run: %w", err)
	}
	return &run, nil
}

func (r *matchRepository) UpdateRunStatus(id uuid.UUID, status models.MatchRunStatus) error {
	result := r.db.Model(&models.MatchRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update run status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("match run not found")
	}
	return nil
}

func (r *matchRepository) CompleteRun(id uuid.UUID, matchCount int) error {
	result := r.db.Model(&models.MatchRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.StatusCompleted,
			"match_count": matchCount,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("match run not found")
	}
	return nil
}

func (r *matchRepository) FailRun(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.MatchRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to fail run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("match run not found")
	}
	return nil
}

func (r *matchRepository) FindPendingRuns(limit int) ([]models.MatchRun, error) {
	var runs []models.MatchRun
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}
	return runs, nil
}

// ReplaceMatches swaps the user's match set for the results of a new run so
// stale scores never mix with fresh ones.
func (r *matchRepository) ReplaceMatches(runID, userID uuid.UUID, matches []models.Match) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Match{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous matches: %w", err)
		}
		if len(matches) == 0 {
			return nil
		}
		if err := tx.Create(&matches).Error; err != nil {
			return fmt.Errorf("failed to save matches: %w", err)
		}
		return nil
	})
}

func (r *matchRepository) FindMatchesByRun(runID uuid.UUID) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.
		Where("run_id = ?", runID).
		Order("score DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	return matches, nil
}

func (r *matchRepository) FindLatestMatches(userID uuid.UUID, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 20
	}
	var matches []models.Match
	err := r.db.
		Where("user_id = ?", userID).
		Order("score DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	return matches, nil
}
