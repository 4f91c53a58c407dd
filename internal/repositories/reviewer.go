package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"swipe/interview-assistant/internal/models"
)

type ReviewerRepository interface {
	Create(reviewer *models.Reviewer) error
	FindByEmail(email string) (*models.Reviewer, error)
}

type reviewerRepository struct {
	db *gorm.DB
}

func NewReviewerRepository(db *gorm.DB) ReviewerRepository {
	return &reviewerRepository{db: db}
}

func (r *reviewerRepository) Create(reviewer *models.Reviewer) error {
	if err := r.db.Create(reviewer).Error; err != nil {
		return fmt.Errorf("failed to create reviewer: %w", err)
	}
	return nil
}

func (r *reviewerRepository) FindByEmail(email string) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := r.db.Where("email = ?", email).First(&reviewer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reviewer: %w", err)
	}
	return &reviewer, nil
}
