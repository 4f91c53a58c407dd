package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"swipe/interview-assistant/internal/models"
)

// CandidateUpdate carries the mergeable fields of an update; nil pointers
// are left untouched.
type CandidateUpdate struct {
	Name          *string
	Email         *string
	Phone         *string
	InfoConfirmed *bool
	Status        *models.CandidateStatus
}

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	List(search string) ([]models.Candidate, error)
	Update(id uuid.UUID, update CandidateUpdate) error
	AppendAnswer(id uuid.UUID, record *models.AnswerRecord) error
	Complete(id uuid.UUID, score int, summary string) error
	SetCurrent(id *uuid.UUID) error
	Current() (*models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.
		Preload("ChatHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

// List returns candidates in insertion order. Search filters on name or
// email; sorting beyond that is a presentation concern.
func (r *candidateRepository) List(search string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	query := r.db.
		Preload("ChatHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) Update(id uuid.UUID, update CandidateUpdate) error {
	existing, err := r.FindByID(id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.InfoConfirmed != nil {
		updates["info_confirmed"] = *update.InfoConfirmed
	}
	if update.Status != nil {
		if !existing.Status.CanTransitionTo(*update.Status) {
			return models.ErrInvalidState
		}
		updates["status"] = *update.Status
	}

	result := r.db.Model(&models.Candidate{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) AppendAnswer(id uuid.UUID, record *models.AnswerRecord) error {
	var count int64
	if err := r.db.Model(&models.Candidate{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check candidate: %w", err)
	}
	if count == 0 {
		return models.ErrNotFound
	}

	var position int64
	if err := r.db.Model(&models.AnswerRecord{}).Where("candidate_id = ?", id).Count(&position).Error; err != nil {
		return fmt.Errorf("failed to count answers: %w", err)
	}

	record.CandidateID = id
	record.Position = int(position)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to append answer: %w", err)
	}
	return nil
}

func (r *candidateRepository) Complete(id uuid.UUID, score int, summary string) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.StatusCompleted,
			"score":      score,
			"summary":    summary,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetCurrent updates the current-candidate pointer; nil clears it.
func (r *candidateRepository) SetCurrent(id *uuid.UUID) error {
	state := models.AppState{ID: 1, CurrentCandidateID: id, UpdatedAt: time.Now()}
	if err := r.db.Save(&state).Error; err != nil {
		return fmt.Errorf("failed to set current candidate: %w", err)
	}
	return nil
}

// Current returns the candidate the pointer references, or nil when unset.
func (r *candidateRepository) Current() (*models.Candidate, error) {
	var state models.AppState
	err := r.db.Where("id = ?", 1).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load app state: %w", err)
	}
	if state.CurrentCandidateID == nil {
		return nil, nil
	}
	return r.FindByID(*state.CurrentCandidateID)
}
