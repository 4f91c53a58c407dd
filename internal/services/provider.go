package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"swipe/interview-assistant/internal/interview"
	"swipe/interview-assistant/internal/models"
)

const questionCount = 6

// Judgment is the provider's verdict on one answer.
type Judgment struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// SummaryResult is the provider's verdict on a finished interview.
type SummaryResult struct {
	TotalScore int    `json:"totalScore"`
	Summary    string `json:"summary"`
}

// QuestionProvider generates the question list and scores answers. Every
// method is total: provider failures are absorbed into deterministic
// built-in fallbacks so the interview always proceeds.
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context) []models.Question
	JudgeAnswer(ctx context.Context, question, answer string) Judgment
	GenerateSummary(ctx context.Context, history []models.AnswerRecord) SummaryResult
}

type aiProvider struct {
	gemini     GeminiService
	maxRetries int
}

// NewQuestionProvider wraps Gemini. A nil gemini service selects mock mode:
// built-in questions and heuristic judgments only.
func NewQuestionProvider(gemini GeminiService, maxRetries int) QuestionProvider {
	return &aiProvider{gemini: gemini, maxRetries: maxRetries}
}

// GenerateQuestions implements QuestionProvider. The result always has
// exactly 6 questions, 2 per difficulty, in easy→hard order.
func (p *aiProvider) GenerateQuestions(ctx context.Context) []models.Question {
	if p.gemini == nil {
		return builtinQuestions()
	}

	response, err := p.gemini.GenerateTextWithRetry(ctx, questionPrompt, 0.7, p.maxRetries)
	if err != nil {
		log.Printf("⚠️  Question generation failed, using built-in list: %v\n", err)
		return builtinQuestions()
	}

	var questions []models.Question
	if err := parseJSONResponse(response, &questions); err != nil {
		log.Printf("⚠️  Malformed question response, using built-in list: %v\n", err)
		return builtinQuestions()
	}
	if err := validateQuestions(questions); err != nil {
		log.Printf("⚠️  Invalid question set, using built-in list: %v\n", err)
		return builtinQuestions()
	}

	return questions
}

// JudgeAnswer implements QuestionProvider. Empty or whitespace-only answers
// short-circuit to score 0 without a remote call.
func (p *aiProvider) JudgeAnswer(ctx context.Context, question, answer string) Judgment {
	if strings.TrimSpace(answer) == "" {
		return Judgment{
			Score:    0,
			Feedback: "No answer provided - time expired or empty submission.",
		}
	}

	if p.gemini == nil {
		return fallbackJudgment(answer)
	}

	prompt := fmt.Sprintf(judgePromptFormat, question, answer)
	response, err := p.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, p.maxRetries)
	if err != nil {
		log.Printf("⚠️  Judgment failed, using heuristic score: %v\n", err)
		return fallbackJudgment(answer)
	}

	var judgment Judgment
	if err := parseJSONResponse(response, &judgment); err != nil {
		log.Printf("⚠️  Malformed judgment response, using heuristic score: %v\n", err)
		return fallbackJudgment(answer)
	}

	judgment.Score = interview.ClampQuestionScore(judgment.Score)
	if strings.TrimSpace(judgment.Feedback) == "" {
		judgment.Feedback = "Answer evaluated."
	}
	return judgment
}

// GenerateSummary implements QuestionProvider. The returned score is already
// clamped; callers still run it through the aggregator as the final
// authority.
func (p *aiProvider) GenerateSummary(ctx context.Context, history []models.AnswerRecord) SummaryResult {
	fallbackScore := interview.FallbackScore(history)

	if p.gemini == nil {
		return SummaryResult{
			TotalScore: fallbackScore,
			Summary:    interview.FallbackSummary(fallbackScore),
		}
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return SummaryResult{TotalScore: fallbackScore, Summary: interview.FallbackSummary(fallbackScore)}
	}

	prompt := fmt.Sprintf(summaryPromptFormat, string(historyJSON), fallbackScore)
	response, err := p.gemini.GenerateTextWithRetry(ctx, prompt, 0.5, p.maxRetries)
	if err != nil {
		log.Printf("⚠️  Summary generation failed, using fallback: %v\n", err)
		return SummaryResult{TotalScore: fallbackScore, Summary: interview.FallbackSummary(fallbackScore)}
	}

	var result SummaryResult
	if err := parseJSONResponse(response, &result); err != nil {
		log.Printf("⚠️  Malformed summary response, using fallback: %v\n", err)
		return SummaryResult{TotalScore: fallbackScore, Summary: interview.FallbackSummary(fallbackScore)}
	}

	result.TotalScore, result.Summary = interview.Finalize(result.TotalScore, result.Summary)
	return result
}

// fallbackJudgment scores deterministically by answer length so recovery
// from provider failures is reproducible.
func fallbackJudgment(answer string) Judgment {
	words := len(strings.Fields(answer))
	var score int
	switch {
	case words < 5:
		score = 3
	case words < 20:
		score = 5
	case words < 60:
		score = 6
	default:
		score = 7
	}
	return Judgment{
		Score:    score,
		Feedback: "Good understanding demonstrated with room for more detail.",
	}
}

func builtinQuestions() []models.Question {
	return []models.Question{
		{Text: "What is JSX and why is it used in React?", Difficulty: models.DifficultyEasy},
		{Text: "Explain the difference between useState and useEffect hooks", Difficulty: models.DifficultyEasy},
		{Text: "How does Redux manage application state?", Difficulty: models.DifficultyMedium},
		{Text: "What is the purpose of useEffect cleanup functions?", Difficulty: models.DifficultyMedium},
		{Text: "How would you implement caching in a Node.js API?", Difficulty: models.DifficultyHard},
		{Text: "Explain CORS and how to configure it in Express", Difficulty: models.DifficultyHard},
	}
}

func validateQuestions(questions []models.Question) error {
	if len(questions) != questionCount {
		return fmt.Errorf("expected %d questions, got %d", questionCount, len(questions))
	}
	perDifficulty := map[models.Difficulty]int{}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d is empty", i+1)
		}
		if !q.Difficulty.Valid() {
			return fmt.Errorf("question %d has unknown difficulty %q", i+1, q.Difficulty)
		}
		perDifficulty[q.Difficulty]++
	}
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if perDifficulty[d] != 2 {
			return fmt.Errorf("expected 2 %s questions, got %d", d, perDifficulty[d])
		}
	}
	return nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSON pulls a JSON object or array out of text that may wrap it in
// markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startArr != -1 && endArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}
	return text
}

const questionPrompt = `Generate a JSON array of exactly 6 interview questions for a React/Node.js full-stack developer role.
Return ONLY valid JSON with this exact structure:
[{"question": "string", "difficulty": "easy"|"medium"|"hard"}]

Requirements:
- 2 questions with difficulty "easy" (React basics, JSX, components)
- 2 questions with difficulty "medium" (Hooks, state management, API integration)
- 2 questions with difficulty "hard" (Performance optimization, architecture, scalability)

Examples:
Easy: "What is JSX in React?", "Explain the difference between props and state"
Medium: "How do React hooks differ from class lifecycle methods?", "Explain Redux state management"
Hard: "How would you optimize a React app with large datasets?", "Explain Node.js clustering for API scalability"`

const judgePromptFormat = `Score this interview answer from 0-10 for technical accuracy and relevance.
Return ONLY valid JSON: {"score": number, "feedback": "string"}

Question: %s
Answer: %s

Scoring criteria:
0-3: Incorrect or irrelevant
4-6: Partially correct
7-8: Mostly correct
9-10: Excellent and comprehensive

Provide 1-sentence feedback.`

const summaryPromptFormat = `Analyze this interview performance and provide a 2-3 sentence summary.
Return ONLY valid JSON: {"totalScore": number, "summary": "string"}

Chat History: %s

Total Score (0-100): %d

Provide constructive feedback on strengths and areas for improvement.`
