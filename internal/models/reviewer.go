package models

import (
	"time"

	"github.com/google/uuid"
)

// Reviewer is a dashboard account behind the login gate.
type Reviewer struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Reviewer) TableName() string {
	return "reviewers"
}
