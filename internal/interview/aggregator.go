package interview

import (
	"math"
	"strings"

	"swipe/interview-assistant/internal/models"
)

// FallbackScore computes the deterministic final score used whenever the
// judgment provider cannot: round(mean(per-question scores) * 10), clamped
// to [0, 100].
func FallbackScore(history []models.AnswerRecord) int {
	if len(history) == 0 {
		return 0
	}
	var sum int
	for _, rec := range history {
		sum += rec.Score
	}
	avg := float64(sum) / float64(len(history))
	return ClampScore(int(math.Round(avg * 10)))
}

// FallbackSummary renders the templated narrative for a final score. The
// tone branches at 70 and the wording at 80.
func FallbackSummary(totalScore int) string {
	strength := "moderate"
	if totalScore >= 70 {
		strength = "strong"
	}
	grasp := "good"
	if totalScore >= 80 {
		grasp = "excellent"
	}
	tail := "Well-prepared for full-stack roles."
	if totalScore < 70 {
		tail = "Additional focus on Node.js backend concepts recommended."
	}
	return "Candidate showed " + strength + " technical knowledge with " + grasp +
		" understanding of React concepts. " + tail
}

// Finalize is the last word on a provider-produced result: the score is
// clamped to [0, 100] and an empty summary is replaced with the fallback
// narrative.
func Finalize(totalScore int, summary string) (int, string) {
	score := ClampScore(totalScore)
	if strings.TrimSpace(summary) == "" {
		summary = FallbackSummary(score)
	}
	return score, summary
}

// ClampScore bounds a final score to [0, 100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ClampQuestionScore bounds a per-question score to [0, 10].
func ClampQuestionScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
