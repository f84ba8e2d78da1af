package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/resume-screener/internal/models"
)

const anonymousUser = "anonymous"

type UsageRepository interface {
	LogUsage(ctx context.Context, userEmail string, numResumes int) error
	Summary(ctx context.Context) (*models.UsageSummary, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// LogUsage appends a usage log row and bumps the caller's running totals in
// one transaction.
func (r *usageRepository) LogUsage(ctx context.Context, userEmail string, numResumes int) error {
	email := strings.TrimSpace(userEmail)
	if email == "" {
		email = anonymousUser
	}
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.UsageLog{
			UserEmail:  email,
			NumResumes: numResumes,
			CreatedAt:  now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to insert usage log: %w", err)
		}

		usage := models.UserUsage{
			Email:                email,
			TotalResumesScreened: numResumes,
			UsageCount:           1,
			LastUsedAt:           now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_resumes_screened": gorm.Expr("user_usages.total_resumes_screened + ?", numResumes),
				"usage_count":            gorm.Expr("user_usages.usage_count + 1"),
				"last_used_at":           now,
			}),
		}).Create(&usage).Error
		if err != nil {
			return fmt.Errorf("failed to update user usage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to log usage: %w", err)
	}

	return nil
}

func (r *usageRepository) Summary(ctx context.Context) (*models.UsageSummary, error) {
	var users []models.UserUsage
	err := r.db.WithContext(ctx).
		Order("total_resumes_screened DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}

	summary := &models.UsageSummary{
		UniqueUsers: len(users),
		Users:       users,
	}
	for _, u := range users {
		summary.TotalResumes += u.TotalResumesScreened
	}

	return summary, nil
}
