package interview

import (
	"strings"
	"testing"

	"swipe/interview-assistant/internal/models"
)

func historyWithScores(scores ...int) []models.AnswerRecord {
	recs := make([]models.AnswerRecord, len(scores))
	for i, s := range scores {
		recs[i] = models.AnswerRecord{Position: i, Score: s}
	}
	return recs
}

func TestFallbackScore(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   int
	}{
		{"all perfect", []int{10, 10, 10, 10, 10, 10}, 100},
		{"all zero", []int{0, 0, 0, 0, 0, 0}, 0},
		{"all middling", []int{5, 5, 5, 5, 5, 5}, 50},
		{"mixed rounds up", []int{7, 8, 6, 9, 5, 7}, 70},
		{"rounding half up", []int{7, 8, 7, 8, 7, 8}, 75},
		{"empty history", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackScore(historyWithScores(tc.scores...)); got != tc.want {
				t.Errorf("FallbackScore(%v) = %d, want %d", tc.scores, got, tc.want)
			}
		})
	}
}

func TestFallbackSummaryBranches(t *testing.T) {
	cases := []struct {
		score        int
		wantContains []string
	}{
		{85, []string{"strong", "excellent", "Well-prepared"}},
		{80, []string{"strong", "excellent"}},
		{75, []string{"strong", "good", "Well-prepared"}},
		{70, []string{"strong", "good"}},
		{69, []string{"moderate", "good", "Node.js backend"}},
		{0, []string{"moderate", "good", "Node.js backend"}},
	}
	for _, tc := range cases {
		got := FallbackSummary(tc.score)
		for _, want := range tc.wantContains {
			if !strings.Contains(got, want) {
				t.Errorf("FallbackSummary(%d) = %q, missing %q", tc.score, got, want)
			}
		}
	}
}

func TestFinalize(t *testing.T) {
	score, summary := Finalize(120, "Did great.")
	if score != 100 || summary != "Did great." {
		t.Errorf("Finalize(120, ...) = (%d, %q)", score, summary)
	}

	score, summary = Finalize(-5, "  ")
	if score != 0 {
		t.Errorf("Finalize(-5, ...) score = %d, want 0", score)
	}
	if summary != FallbackSummary(0) {
		t.Errorf("blank summary not replaced: %q", summary)
	}
}

func TestClamps(t *testing.T) {
	if got := ClampScore(-1); got != 0 {
		t.Errorf("ClampScore(-1) = %d", got)
	}
	if got := ClampScore(101); got != 100 {
		t.Errorf("ClampScore(101) = %d", got)
	}
	if got := ClampQuestionScore(11); got != 10 {
		t.Errorf("ClampQuestionScore(11) = %d", got)
	}
	if got := ClampQuestionScore(-3); got != 0 {
		t.Errorf("ClampQuestionScore(-3) = %d", got)
	}
	if got := ClampQuestionScore(7); got != 7 {
		t.Errorf("ClampQuestionScore(7) = %d", got)
	}
}
