package interview

import (
	"fmt"
	"time"

	"swipe/interview-assistant/internal/models"
)

type Role string

const (
	RoleBot       Role = "bot"
	RoleCandidate Role = "candidate"
)

// Message is one line of the chat-style transcript.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// BuildTranscript rebuilds the conversation log from the candidate's
// answered questions plus the prompt for the question currently under the
// countdown. It is a pure projection: session progress and scoring never
// read from it.
func BuildTranscript(history []models.AnswerRecord, current *models.Question, questionNumber, totalQuestions int) []Message {
	messages := make([]Message, 0, len(history)*2+1)

	for i, rec := range history {
		messages = append(messages, Message{
			Role:      RoleBot,
			Text:      fmt.Sprintf("Question %d: %s", i+1, rec.Question),
			Timestamp: rec.CreatedAt,
		})
		messages = append(messages, Message{
			Role:      RoleCandidate,
			Text:      rec.Answer,
			Timestamp: rec.CreatedAt,
		})
	}

	if current != nil {
		messages = append(messages, Message{
			Role:      RoleBot,
			Text:      fmt.Sprintf("Question %d of %d: %s", questionNumber, totalQuestions, current.Text),
			Timestamp: time.Now(),
		})
	}

	return messages
}
