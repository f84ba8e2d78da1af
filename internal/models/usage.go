package models

import "time"

type UsageLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserEmail  string    `gorm:"type:text;index" json:"user_email"`
	NumResumes int       `json:"num_resumes"`
	CreatedAt  time.Time `json:"timestamp"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

type UserUsage struct {
	Email                string    `gorm:"primaryKey;type:text" json:"email"`
	TotalResumesScreened int       `json:"total_resumes_screened"`
	UsageCount           int       `json:"usage_count"`
	LastUsedAt           time.Time `json:"last_used_at"`
}

func (UserUsage) TableName() string {
	return "user_usages"
}
