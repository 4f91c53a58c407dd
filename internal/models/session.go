package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Question struct {
	Text       string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuestionList is stored as a JSON text column.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question list: %w", err)
	}
	return string(b), nil
}

func (q *QuestionList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*q = nil
		return nil
	default:
		return fmt.Errorf("unsupported question list column type %T", value)
	}
	return json.Unmarshal(data, q)
}

// InterviewSession is the single-row durable partition for the in-flight
// interview. It is independent from the candidates table and cleared when
// the interview ends.
type InterviewSession struct {
	ID                   int          `gorm:"primaryKey" json:"-"`
	CandidateID          uuid.UUID    `gorm:"type:uuid;not null" json:"candidate_id"`
	Questions            QuestionList `gorm:"type:text;not null" json:"questions"`
	CurrentQuestionIndex int          `gorm:"not null;default:0" json:"current_question_index"`
	RemainingTime        int          `gorm:"not null;default:0" json:"remaining_time"`
	IsPaused             bool         `gorm:"not null;default:false" json:"is_paused"`
	UpdatedAt            time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// AppState holds the current-candidate pointer so it survives restarts.
type AppState struct {
	ID                 int        `gorm:"primaryKey"`
	CurrentCandidateID *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
}

func (AppState) TableName() string {
	return "app_state"
}
