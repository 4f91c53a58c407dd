package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"swipe/interview-assistant/internal/interview"
	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/repositories"
)

// InterviewService drives the interview flow: it owns the state machine and
// the active countdown, calls out to the question provider, and writes
// results into the candidate store. All mutation goes through one mutex so
// user actions and timer ticks are processed one at a time, mirroring a
// single-threaded event loop.
type InterviewService interface {
	Start(ctx context.Context, candidateID uuid.UUID) (*models.SessionStateResponse, error)
	SubmitAnswer(ctx context.Context, answer string) (*models.AnswerResult, error)
	State() *models.SessionStateResponse
	Transcript() ([]interview.Message, error)
	Resume() ([]interview.Message, error)
	Abandon() error
	Restore() error
	AbandonIfStale(olderThan time.Duration) (bool, error)
	Shutdown()
}

type interviewService struct {
	mu             sync.Mutex
	machine        *interview.Machine
	countdown      *interview.Countdown
	generation     uint64
	awaitingResume bool

	candidates repositories.CandidateRepository
	sessions   repositories.SessionRepository
	provider   QuestionProvider

	tickInterval time.Duration
}

func NewInterviewService(
	candidates repositories.CandidateRepository,
	sessions repositories.SessionRepository,
	provider QuestionProvider,
	tickInterval time.Duration,
) InterviewService {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	s := &interviewService{
		machine:      interview.NewMachine(),
		candidates:   candidates,
		sessions:     sessions,
		provider:     provider,
		tickInterval: tickInterval,
	}
	return s
}

// Start begins the interview for a confirmed candidate: generates the
// question list, activates the machine, marks the candidate in progress and
// starts the first countdown.
func (s *interviewService) Start(ctx context.Context, candidateID uuid.UUID) (*models.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.awaitingResume {
		return nil, models.ErrInvalidState
	}
	if s.machine.Active() && s.machine.CandidateID() != candidateID {
		return nil, models.ErrInvalidState
	}

	candidate, err := s.candidates.FindByID(candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status == models.StatusCompleted || !candidate.InfoConfirmed {
		return nil, models.ErrInvalidState
	}

	questions := s.provider.GenerateQuestions(ctx)
	initialAllotment := interview.AllotmentFor(questions[0].Difficulty)
	if err := s.machine.Start(candidateID, questions, initialAllotment); err != nil {
		return nil, err
	}

	status := models.StatusInProgress
	if err := s.candidates.Update(candidateID, repositories.CandidateUpdate{Status: &status}); err != nil {
		s.machine.End()
		return nil, err
	}
	if err := s.candidates.SetCurrent(&candidateID); err != nil {
		log.Printf("⚠️  Failed to persist current candidate: %v\n", err)
	}

	s.persistSession()
	s.startCountdown()

	return s.snapshot(), nil
}

// SubmitAnswer records the candidate's answer to the current question. The
// countdown is paused while the judgment call is in flight, then the session
// either advances or completes.
func (s *interviewService) SubmitAnswer(ctx context.Context, answer string) (*models.AnswerResult, error) {
	s.mu.Lock()
	if s.awaitingResume || !s.machine.Active() {
		s.mu.Unlock()
		return nil, models.ErrInvalidState
	}
	gen := s.generation
	s.mu.Unlock()
	return s.submit(ctx, answer, gen)
}

// submit is the single path for both user answers and forced timeouts. gen
// identifies the question's countdown epoch; a stale gen means the session
// moved on (or ended) and the submission is discarded.
func (s *interviewService) submit(ctx context.Context, answer string, gen uint64) (*models.AnswerResult, error) {
	s.mu.Lock()
	if gen != s.generation || !s.machine.Active() {
		s.mu.Unlock()
		return nil, models.ErrInvalidState
	}

	question, ok := s.machine.CurrentQuestion()
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrInvalidState
	}
	remaining := s.machine.Remaining()
	allotment := interview.AllotmentFor(question.Difficulty)
	candidateID := s.machine.CandidateID()

	// Freeze the countdown while the judgment call is in flight so a
	// timeout cannot race the result.
	s.machine.SetPaused(true)
	s.stopCountdown()
	s.persistSession()
	s.mu.Unlock()

	judgment := s.provider.JudgeAnswer(ctx, question.Text, answer)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have been abandoned while we were judging; a resolved
	// call must not be applied to a reset session.
	if gen != s.generation || !s.machine.Active() || s.machine.CandidateID() != candidateID {
		return nil, models.ErrInvalidState
	}

	recordedAnswer := answer
	if recordedAnswer == "" {
		recordedAnswer = models.NoAnswerSentinel
	}
	timeTaken := allotment - remaining
	if timeTaken < 0 {
		timeTaken = 0
	}
	record := &models.AnswerRecord{
		Question:   question.Text,
		Answer:     recordedAnswer,
		Difficulty: string(question.Difficulty),
		Score:      judgment.Score,
		TimeTaken:  timeTaken,
	}
	if err := s.candidates.AppendAnswer(candidateID, record); err != nil {
		s.machine.SetPaused(false)
		s.startCountdown()
		return nil, err
	}

	if s.machine.OnLastQuestion() {
		return s.completeLocked(ctx, candidateID)
	}

	if err := s.machine.Advance(); err != nil {
		return nil, err
	}
	s.machine.SetPaused(false)
	s.persistSession()
	s.startCountdown()

	next, _ := s.machine.CurrentQuestion()
	return &models.AnswerResult{
		Completed:      false,
		QuestionNumber: s.machine.Index() + 1,
		NextQuestion:   next.Text,
		Difficulty:     string(next.Difficulty),
		RemainingTime:  s.machine.Remaining(),
	}, nil
}

// completeLocked aggregates the final score, persists it on the candidate
// and resets the session. Caller holds the lock.
func (s *interviewService) completeLocked(ctx context.Context, candidateID uuid.UUID) (*models.AnswerResult, error) {
	candidate, err := s.candidates.FindByID(candidateID)
	if err != nil {
		return nil, err
	}

	result := s.provider.GenerateSummary(ctx, candidate.ChatHistory)
	totalScore, summary := interview.Finalize(result.TotalScore, result.Summary)

	if err := s.candidates.Complete(candidateID, totalScore, summary); err != nil {
		return nil, err
	}

	s.endSessionLocked()
	log.Printf("✅ Interview completed for candidate %s: %d/100\n", candidateID, totalScore)

	return &models.AnswerResult{
		Completed:  true,
		TotalScore: totalScore,
		Summary:    summary,
	}, nil
}

// State returns a snapshot of the in-flight session for the UI.
func (s *interviewService) State() *models.SessionStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Transcript rebuilds the conversation log from the candidate's answer
// history plus the current question prompt.
func (s *interviewService) Transcript() ([]interview.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcriptLocked()
}

func (s *interviewService) transcriptLocked() ([]interview.Message, error) {
	if !s.machine.Active() {
		return nil, models.ErrInvalidState
	}
	candidate, err := s.candidates.FindByID(s.machine.CandidateID())
	if err != nil {
		return nil, err
	}
	var current *models.Question
	if q, ok := s.machine.CurrentQuestion(); ok {
		current = &q
	}
	return interview.BuildTranscript(
		candidate.ChatHistory,
		current,
		s.machine.Index()+1,
		s.machine.QuestionCount(),
	), nil
}

// Restore rehydrates the machine from the persisted session partition at
// process start. The session stays paused and ignores input until the
// candidate explicitly resumes.
func (s *interviewService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.Active() {
		return models.ErrInvalidState
	}

	persisted, err := s.sessions.Load()
	if err != nil {
		return err
	}
	if persisted == nil {
		return nil
	}

	err = s.machine.Restore(
		persisted.CandidateID,
		persisted.Questions,
		persisted.CurrentQuestionIndex,
		persisted.RemainingTime,
		true,
	)
	if err != nil {
		// A corrupt row must not strand the candidate; drop it.
		log.Printf("⚠️  Dropping unrestorable session row: %v\n", err)
		return s.sessions.Clear()
	}

	s.awaitingResume = true
	log.Printf("🔄 Restored in-progress interview for candidate %s (question %d)\n",
		persisted.CandidateID, persisted.CurrentQuestionIndex+1)
	return nil
}

// Resume continues a restored interview: the countdown restarts at the full
// allotment of the current question (remaining time across a reload is an
// accepted approximation) and the transcript is returned for re-rendering.
func (s *interviewService) Resume() ([]interview.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.machine.Active() || !s.awaitingResume {
		return nil, models.ErrInvalidState
	}

	messages, err := s.transcriptLocked()
	if err != nil {
		return nil, err
	}

	question, _ := s.machine.CurrentQuestion()
	if err := s.machine.ResetCountdown(interview.AllotmentFor(question.Difficulty)); err != nil {
		return nil, err
	}
	s.awaitingResume = false
	s.persistSession()
	s.startCountdown()
	return messages, nil
}

// Abandon discards the in-flight session. The candidate record keeps its
// partial answer history.
func (s *interviewService) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.machine.Active() {
		// Clear a stray persisted row even when nothing is live.
		return s.sessions.Clear()
	}
	s.endSessionLocked()
	return nil
}

// AbandonIfStale ends the session when its persisted row has not been
// touched for olderThan. Used by the janitor.
func (s *interviewService) AbandonIfStale(olderThan time.Duration) (bool, error) {
	s.mu.Lock()
	persisted, err := s.sessions.Load()
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	if persisted == nil || time.Since(persisted.UpdatedAt) < olderThan {
		s.mu.Unlock()
		return false, nil
	}
	if s.machine.Active() {
		s.endSessionLocked()
	} else if err := s.sessions.Clear(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()
	return true, nil
}

// Shutdown stops the countdown; session state is already persisted.
func (s *interviewService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdown()
}

// endSessionLocked resets everything session-scoped. Caller holds the lock.
func (s *interviewService) endSessionLocked() {
	s.stopCountdown()
	s.machine.End()
	s.awaitingResume = false
	s.generation++
	if err := s.sessions.Clear(); err != nil {
		log.Printf("⚠️  Failed to clear session row: %v\n", err)
	}
}

// startCountdown opens a new countdown epoch for the current question.
// Caller holds the lock.
func (s *interviewService) startCountdown() {
	s.stopCountdown()
	s.generation++
	gen := s.generation
	s.countdown = interview.NewCountdown(s.tickInterval)
	s.countdown.Start(func() bool {
		return s.onTick(gen)
	})
}

func (s *interviewService) stopCountdown() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

// onTick runs once per countdown interval. Returning false ends the loop.
func (s *interviewService) onTick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.generation || !s.machine.Active() {
		s.mu.Unlock()
		return false
	}
	remaining, expired, err := s.machine.Tick()
	if err != nil {
		s.mu.Unlock()
		return false
	}
	s.persistSession()
	s.mu.Unlock()

	if expired {
		// The zero crossing forces an empty submission exactly once; the
		// machine itself never auto-submits.
		go func() {
			if _, err := s.submit(context.Background(), "", gen); err != nil {
				log.Printf("⚠️  Forced submission discarded: %v\n", err)
			}
		}()
		return false
	}
	return remaining > 0
}

// persistSession mirrors the machine into the durable session row.
// Best-effort: a failed write is logged, not fatal. Caller holds the lock.
func (s *interviewService) persistSession() {
	if !s.machine.Active() {
		return
	}
	session := &models.InterviewSession{
		CandidateID:          s.machine.CandidateID(),
		Questions:            s.machine.Questions(),
		CurrentQuestionIndex: s.machine.Index(),
		RemainingTime:        s.machine.Remaining(),
		IsPaused:             s.machine.Paused(),
	}
	if err := s.sessions.Save(session); err != nil {
		log.Printf("⚠️  Failed to persist session: %v\n", err)
	}
}

func (s *interviewService) snapshot() *models.SessionStateResponse {
	resp := &models.SessionStateResponse{
		Active:         s.machine.Active(),
		AwaitingResume: s.awaitingResume,
		RemainingTime:  s.machine.Remaining(),
		IsPaused:       s.machine.Paused(),
	}
	if !s.machine.Active() {
		return resp
	}
	resp.CandidateID = s.machine.CandidateID().String()
	resp.QuestionNumber = s.machine.Index() + 1
	resp.TotalQuestions = s.machine.QuestionCount()
	if q, ok := s.machine.CurrentQuestion(); ok {
		resp.Question = q.Text
		resp.Difficulty = string(q.Difficulty)
	}
	return resp
}
