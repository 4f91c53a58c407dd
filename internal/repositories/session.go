package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"swipe/interview-assistant/internal/models"
)

// SessionRepository persists the single in-flight interview session. The
// partition is independent from the candidate store; writes after each
// mutation are fire-and-forget and the two need not be transactionally
// consistent.
type SessionRepository interface {
	Save(session *models.InterviewSession) error
	Load() (*models.InterviewSession, error)
	Clear() error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Save(session *models.InterviewSession) error {
	session.ID = 1
	session.UpdatedAt = time.Now()
	if err := r.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil when no interview is in flight.
func (r *sessionRepository) Load() (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.Where("id = ?", 1).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Clear() error {
	if err := r.db.Where("id = ?", 1).Delete(&models.InterviewSession{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
