package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

type CandidateRepository interface {
	CreateBatch(records []models.CandidateRecord) error
	FindBySession(sessionID uuid.UUID) ([]models.CandidateRecord, error)
	FindByID(sessionID, id uuid.UUID) (*models.CandidateRecord, error)
	SaveInterview(id uuid.UUID, qa models.InterviewQA) error
	DeleteBySession(sessionID uuid.UUID) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) CreateBatch(records []models.CandidateRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(&records, 100).Error; err != nil {
		return fmt.Errorf("failed to create candidate records: %w", err)
	}
	return nil
}

// FindBySession returns a session's candidates in ranked order.
func (r *candidateRepository) FindBySession(sessionID uuid.UUID) ([]models.CandidateRecord, error) {
	var records []models.CandidateRecord
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("rank ASC").
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	return records, nil
}

func (r *candidateRepository) FindByID(sessionID, id uuid.UUID) (*models.CandidateRecord, error) {
	var record models.CandidateRecord
	err := r.db.
		Where("id = ? AND session_id = ?", id, sessionID).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}

	return &record, nil
}

func (r *candidateRepository) SaveInterview(id uuid.UUID, qa models.InterviewQA) error {
	payload, err := json.Marshal(qa)
	if err != nil {
		return fmt.Errorf("failed to encode interview: %w", err)
	}

	result := r.db.Model(&models.CandidateRecord{}).
		Where("id = ?", id).
		Update("interview_qa", datatypes.JSON(payload))

	if result.Error != nil {
		return fmt.Errorf("failed to save interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *candidateRepository) DeleteBySession(sessionID uuid.UUID) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&models.CandidateRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}
	return nil
}
