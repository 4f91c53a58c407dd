package models

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusPending    CandidateStatus = "pending"
	StatusInProgress CandidateStatus = "in_progress"
	StatusCompleted  CandidateStatus = "completed"
)

// CanTransitionTo reports whether the status may move forward to next.
// Transitions are monotonic: pending → in_progress → completed.
func (s CandidateStatus) CanTransitionTo(next CandidateStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusCompleted
	case StatusInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}

type Candidate struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"type:text" json:"name"`
	Email         string          `gorm:"type:text" json:"email"`
	Phone         string          `gorm:"type:text" json:"phone"`
	ResumeFile    string          `gorm:"type:text" json:"-"`
	ResumeText    string          `gorm:"type:text" json:"-"`
	InfoConfirmed bool            `gorm:"not null;default:false" json:"info_confirmed"`
	Status        CandidateStatus `gorm:"not null;default:'pending'" json:"status"`
	Score         int             `gorm:"not null;default:0" json:"score"`
	Summary       string          `gorm:"type:text" json:"summary"`
	CreatedAt     time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	ChatHistory []AnswerRecord `gorm:"foreignKey:CandidateID;references:ID" json:"chat_history,omitempty"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// AnswerRecord is one answered question. Rows are append-only and ordered
// by Position within a candidate.
type AnswerRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null" json:"position"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text" json:"answer"`
	Difficulty  string    `gorm:"type:text;not null" json:"difficulty"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	TimeTaken   int       `gorm:"not null;default:0" json:"time_taken"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}

// NoAnswerSentinel marks a timed-out or empty submission in an AnswerRecord.
const NoAnswerSentinel = "[No answer provided]"
