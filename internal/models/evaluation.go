package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusQueued     SessionStatus = "queued"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// ScreeningSession is one batch of resumes screened against one job description.
type ScreeningSession struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserEmail      string        `gorm:"type:text;index" json:"user_email"`
	JobDescription string        `gorm:"type:text" json:"job_description"`
	Mode           ScreeningMode `gorm:"type:text;not null;default:'evaluation'" json:"mode"`
	Status         SessionStatus `gorm:"not null;default:'queued'" json:"status"`
	FitCount       int           `json:"fit_count"`
	Total          int           `json:"total"`
	Precision      *float64      `json:"precision,omitempty"`
	Recall         *float64      `json:"recall,omitempty"`
	F1             *float64      `json:"f1,omitempty"`
	MetricsError   *string       `gorm:"type:text" json:"metrics_error,omitempty"`
	ErrorMessage   *string       `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Candidates []CandidateRecord `gorm:"foreignKey:SessionID" json:"-"`
}

func (ScreeningSession) TableName() string {
	return "screening_sessions"
}
