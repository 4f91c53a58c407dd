package models

type UploadResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	NeedsInfo bool   `json:"needs_info"`
}

type ConfirmInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type StartInterviewRequest struct {
	CandidateID string `json:"candidate_id"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// SessionStateResponse is the snapshot the interview UI polls.
type SessionStateResponse struct {
	Active         bool   `json:"active"`
	AwaitingResume bool   `json:"awaiting_resume"`
	CandidateID    string `json:"candidate_id,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`
	Question       string `json:"question,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	RemainingTime  int    `json:"remaining_time"`
	IsPaused       bool   `json:"is_paused"`
}

// AnswerResult reports what happened after a submission: either the next
// question or the final score. Per-question scores are not exposed while
// the interview is running.
type AnswerResult struct {
	Completed      bool   `json:"completed"`
	QuestionNumber int    `json:"question_number,omitempty"`
	NextQuestion   string `json:"next_question,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	RemainingTime  int    `json:"remaining_time,omitempty"`
	TotalScore     int    `json:"total_score,omitempty"`
	Summary        string `json:"summary,omitempty"`
}
