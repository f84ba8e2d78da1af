package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrNotFound = errors.New("record not found")

type SessionRepository interface {
	Create(session *models.ScreeningSession) error
	FindByID(id uuid.UUID) (*models.ScreeningSession, error)
	UpdateStatus(id uuid.UUID, status models.SessionStatus) error
	Complete(id uuid.UUID, data *SessionResultData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindStale(before time.Time, limit int) ([]models.ScreeningSession, error)
	Delete(id uuid.UUID) error
}

type SessionResultData struct {
	FitCount     int
	Total        int
	Metrics      *models.BatchMetrics
	MetricsError string
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.ScreeningSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create screening session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.ScreeningSession, error) {
	var session models.ScreeningSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("screening session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find screening session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *sessionRepository) Complete(id uuid.UUID, data *SessionResultData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"fit_count":  data.FitCount,
		"total":      data.Total,
		"updated_at": time.Now(),
	}

	if data.Metrics != nil {
		updates["precision"] = data.Metrics.Precision
		updates["recall"] = data.Metrics.Recall
		updates["f1"] = data.Metrics.F1
	}
	if data.MetricsError != "" {
		updates["metrics_error"] = data.MetricsError
	}

	return r.update(id, updates)
}

func (r *sessionRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

// FindStale returns sessions still queued or processing that have not been
// touched since before.
func (r *sessionRepository) FindStale(before time.Time, limit int) ([]models.ScreeningSession, error) {
	var sessions []models.ScreeningSession
	err := r.db.
		Where("status IN ?", []models.SessionStatus{models.StatusQueued, models.StatusProcessing}).
		Where("updated_at < ?", before).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find stale sessions: %w", err)
	}

	return sessions, nil
}

func (r *sessionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.ScreeningSession{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete screening session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("screening session %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *sessionRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.ScreeningSession{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update screening session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("screening session %s: %w", id, ErrNotFound)
	}

	return nil
}
