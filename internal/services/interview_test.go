package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"swipe/interview-assistant/internal/config"
	"swipe/interview-assistant/internal/interview"
	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedCandidate(t *testing.T, repo repositories.CandidateRepository, confirmed bool) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		ID:            uuid.New(),
		Name:          "Jamie Rivera",
		Email:         "jamie@example.com",
		Phone:         "+1 555 010 2030",
		InfoConfirmed: confirmed,
		Status:        models.StatusPending,
	}
	if err := repo.Create(candidate); err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	return candidate
}

// newTestService wires the interview service against an in-memory database
// and the built-in question/judgment fallbacks (nil Gemini = mock mode).
func newTestService(t *testing.T, tick time.Duration) (InterviewService, repositories.CandidateRepository, repositories.SessionRepository) {
	t.Helper()
	db := newTestDB(t)
	candidates := repositories.NewCandidateRepository(db)
	sessions := repositories.NewSessionRepository(db)
	svc := NewInterviewService(candidates, sessions, NewQuestionProvider(nil, 0), tick)
	t.Cleanup(svc.Shutdown)
	return svc, candidates, sessions
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// An eight-word answer lands in the heuristic's 5-point band.
const typicalAnswer = "Props are read-only inputs passed from parent components."

func TestInterviewStartValidation(t *testing.T) {
	svc, candidates, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Start(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Start for unknown candidate = %v, want ErrNotFound", err)
	}

	unconfirmed := seedCandidate(t, candidates, false)
	if _, err := svc.Start(ctx, unconfirmed.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Start for unconfirmed candidate = %v, want ErrInvalidState", err)
	}

	finished := seedCandidate(t, candidates, true)
	if err := candidates.Complete(finished.ID, 80, "done"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if _, err := svc.Start(ctx, finished.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Start for completed candidate = %v, want ErrInvalidState", err)
	}

	candidate := seedCandidate(t, candidates, true)
	state, err := svc.Start(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !state.Active || state.QuestionNumber != 1 || state.TotalQuestions != 6 {
		t.Fatalf("unexpected start state: %+v", state)
	}
	if state.Difficulty != "easy" || state.RemainingTime != interview.EasyAllotment {
		t.Fatalf("first question not easy/%d: %+v", interview.EasyAllotment, state)
	}

	// One interview at a time.
	other := seedCandidate(t, candidates, true)
	if _, err := svc.Start(ctx, other.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Start while another interview active = %v, want ErrInvalidState", err)
	}

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("candidate status = %q, want in_progress", stored.Status)
	}
}

func TestInterviewFullFlow(t *testing.T) {
	svc, candidates, sessions := newTestService(t, time.Hour)
	ctx := context.Background()
	candidate := seedCandidate(t, candidates, true)

	if _, err := svc.Start(ctx, candidate.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	wantNext := []struct {
		questionNumber int
		difficulty     string
		remaining      int
	}{
		{2, "easy", interview.EasyAllotment},
		{3, "medium", interview.MediumAllotment},
		{4, "medium", interview.MediumAllotment},
		{5, "hard", interview.HardAllotment},
		{6, "hard", interview.HardAllotment},
	}
	for i, want := range wantNext {
		result, err := svc.SubmitAnswer(ctx, typicalAnswer)
		if err != nil {
			t.Fatalf("SubmitAnswer %d returned error: %v", i+1, err)
		}
		if result.Completed {
			t.Fatalf("interview completed after %d answers", i+1)
		}
		if result.QuestionNumber != want.questionNumber || result.Difficulty != want.difficulty || result.RemainingTime != want.remaining {
			t.Fatalf("answer %d result = %+v, want %+v", i+1, result, want)
		}
		if result.NextQuestion == "" {
			t.Fatalf("answer %d: empty next question", i+1)
		}
	}

	final, err := svc.SubmitAnswer(ctx, typicalAnswer)
	if err != nil {
		t.Fatalf("final SubmitAnswer returned error: %v", err)
	}
	if !final.Completed {
		t.Fatal("sixth answer did not complete the interview")
	}
	if final.TotalScore != 50 {
		t.Errorf("total score = %d, want 50", final.TotalScore)
	}
	if !strings.Contains(final.Summary, "moderate") {
		t.Errorf("summary = %q, want the moderate-knowledge narrative", final.Summary)
	}

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Status != models.StatusCompleted || stored.Score != 50 {
		t.Errorf("stored candidate status=%q score=%d", stored.Status, stored.Score)
	}
	if len(stored.ChatHistory) != 6 {
		t.Fatalf("chat history has %d records, want 6", len(stored.ChatHistory))
	}
	for i, rec := range stored.ChatHistory {
		if rec.Position != i {
			t.Errorf("record %d position = %d", i, rec.Position)
		}
		if rec.Score != 5 {
			t.Errorf("record %d score = %d, want 5", i, rec.Score)
		}
	}

	if state := svc.State(); state.Active {
		t.Error("session still active after completion")
	}
	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if persisted != nil {
		t.Error("session row not cleared after completion")
	}

	if _, err := svc.SubmitAnswer(ctx, "late"); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("SubmitAnswer after completion = %v, want ErrInvalidState", err)
	}
}

func TestInterviewEmptyAnswer(t *testing.T) {
	svc, candidates, _ := newTestService(t, time.Hour)
	ctx := context.Background()
	candidate := seedCandidate(t, candidates, true)

	if _, err := svc.Start(ctx, candidate.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	result, err := svc.SubmitAnswer(ctx, "")
	if err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if result.QuestionNumber != 2 {
		t.Fatalf("empty answer did not advance: %+v", result)
	}

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if len(stored.ChatHistory) != 1 {
		t.Fatalf("chat history has %d records, want 1", len(stored.ChatHistory))
	}
	rec := stored.ChatHistory[0]
	if rec.Answer != models.NoAnswerSentinel {
		t.Errorf("recorded answer = %q, want sentinel", rec.Answer)
	}
	if rec.Score != 0 {
		t.Errorf("recorded score = %d, want 0", rec.Score)
	}
}

func TestInterviewTimeoutAutoSubmits(t *testing.T) {
	svc, candidates, _ := newTestService(t, time.Millisecond)
	ctx := context.Background()
	candidate := seedCandidate(t, candidates, true)

	if _, err := svc.Start(ctx, candidate.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// With a millisecond tick every countdown expires on its own and the
	// whole interview runs to completion without any input.
	waitFor(t, 10*time.Second, "auto-timeout completion", func() bool {
		stored, err := candidates.FindByID(candidate.ID)
		return err == nil && stored.Status == models.StatusCompleted
	})

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Score != 0 {
		t.Errorf("score = %d, want 0 for an all-timeout interview", stored.Score)
	}
	if len(stored.ChatHistory) != 6 {
		t.Fatalf("chat history has %d records, want 6", len(stored.ChatHistory))
	}
	for i, rec := range stored.ChatHistory {
		if rec.Answer != models.NoAnswerSentinel {
			t.Errorf("record %d answer = %q, want sentinel", i, rec.Answer)
		}
		if rec.Score != 0 {
			t.Errorf("record %d score = %d, want 0", i, rec.Score)
		}
	}
	if state := svc.State(); state.Active {
		t.Error("session still active after all questions timed out")
	}
}

func TestInterviewAnswersThenFinalTimeout(t *testing.T) {
	// A 5ms tick keeps every question window comfortably wider than the
	// submissions while the last question still times out within the test.
	svc, candidates, _ := newTestService(t, 5*time.Millisecond)
	ctx := context.Background()
	candidate := seedCandidate(t, candidates, true)

	if _, err := svc.Start(ctx, candidate.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		result, err := svc.SubmitAnswer(ctx, typicalAnswer)
		if err != nil {
			t.Fatalf("SubmitAnswer %d returned error: %v", i+1, err)
		}
		if result.Completed {
			t.Fatalf("interview completed after %d answers", i+1)
		}
	}

	// Question 6 is never answered and expires on its own.
	waitFor(t, 10*time.Second, "final-question timeout", func() bool {
		stored, err := candidates.FindByID(candidate.ID)
		return err == nil && stored.Status == models.StatusCompleted
	})

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if len(stored.ChatHistory) != 6 {
		t.Fatalf("chat history has %d records, want 6", len(stored.ChatHistory))
	}
	for i := 0; i < 5; i++ {
		if stored.ChatHistory[i].Score != 5 {
			t.Errorf("record %d score = %d, want 5", i, stored.ChatHistory[i].Score)
		}
	}
	last := stored.ChatHistory[5]
	if last.Answer != models.NoAnswerSentinel || last.Score != 0 {
		t.Errorf("timed-out record = %+v", last)
	}
	// round(mean([5 5 5 5 5 0]) * 10)
	if stored.Score != 42 {
		t.Errorf("total score = %d, want 42", stored.Score)
	}
}

func TestInterviewAbandonKeepsHistory(t *testing.T) {
	svc, candidates, sessions := newTestService(t, time.Hour)
	ctx := context.Background()
	candidate := seedCandidate(t, candidates, true)

	if _, err := svc.Start(ctx, candidate.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, typicalAnswer); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if err := svc.Abandon(); err != nil {
		t.Fatalf("Abandon returned error: %v", err)
	}

	if state := svc.State(); state.Active {
		t.Error("session still active after Abandon")
	}
	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if persisted != nil {
		t.Error("session row not cleared by Abandon")
	}

	stored, err := candidates.FindByID(candidate.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if len(stored.ChatHistory) != 1 {
		t.Errorf("partial history lost: %d records", len(stored.ChatHistory))
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("candidate status = %q after abandon", stored.Status)
	}
}

func TestInterviewRestoreAndResume(t *testing.T) {
	db := newTestDB(t)
	candidates := repositories.NewCandidateRepository(db)
	sessions := repositories.NewSessionRepository(db)

	candidate := seedCandidate(t, candidates, true)
	inProgress := models.StatusInProgress
	if err := candidates.Update(candidate.ID, repositories.CandidateUpdate{Status: &inProgress}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	questions := builtinQuestions()
	for i := 0; i < 3; i++ {
		rec := &models.AnswerRecord{
			Question:   questions[i].Text,
			Answer:     typicalAnswer,
			Difficulty: string(questions[i].Difficulty),
			Score:      5,
			TimeTaken:  10,
		}
		if err := candidates.AppendAnswer(candidate.ID, rec); err != nil {
			t.Fatalf("AppendAnswer returned error: %v", err)
		}
	}
	if err := sessions.Save(&models.InterviewSession{
		CandidateID:          candidate.ID,
		Questions:            questions,
		CurrentQuestionIndex: 3,
		RemainingTime:        30,
		IsPaused:             true,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	svc := NewInterviewService(candidates, sessions, NewQuestionProvider(nil, 0), time.Hour)
	t.Cleanup(svc.Shutdown)
	if err := svc.Restore(); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	state := svc.State()
	if !state.Active || !state.AwaitingResume || !state.IsPaused {
		t.Fatalf("restored state = %+v", state)
	}
	if state.QuestionNumber != 4 {
		t.Fatalf("restored question number = %d, want 4", state.QuestionNumber)
	}

	ctx := context.Background()
	if _, err := svc.SubmitAnswer(ctx, typicalAnswer); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("SubmitAnswer before Resume = %v, want ErrInvalidState", err)
	}
	if _, err := svc.Start(ctx, candidate.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Start before Resume = %v, want ErrInvalidState", err)
	}

	messages, err := svc.Resume()
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if len(messages) != 7 {
		t.Fatalf("resume transcript has %d messages, want 7", len(messages))
	}
	last := messages[len(messages)-1]
	if !strings.HasPrefix(last.Text, "Question 4 of 6:") {
		t.Errorf("last transcript message = %q", last.Text)
	}

	state = svc.State()
	if state.AwaitingResume || state.IsPaused {
		t.Fatalf("state after Resume = %+v", state)
	}
	// The countdown restarts at the full allotment of the current question.
	if state.RemainingTime != interview.MediumAllotment {
		t.Errorf("remaining after Resume = %d, want %d", state.RemainingTime, interview.MediumAllotment)
	}

	result, err := svc.SubmitAnswer(ctx, typicalAnswer)
	if err != nil {
		t.Fatalf("SubmitAnswer after Resume returned error: %v", err)
	}
	if result.QuestionNumber != 5 {
		t.Errorf("question number after answer = %d, want 5", result.QuestionNumber)
	}

	if _, err := svc.Resume(); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("second Resume = %v, want ErrInvalidState", err)
	}
}

func TestInterviewRestoreDropsCorruptRow(t *testing.T) {
	db := newTestDB(t)
	candidates := repositories.NewCandidateRepository(db)
	sessions := repositories.NewSessionRepository(db)

	if err := sessions.Save(&models.InterviewSession{
		CandidateID:          uuid.New(),
		Questions:            builtinQuestions(),
		CurrentQuestionIndex: 42,
		RemainingTime:        10,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	svc := NewInterviewService(candidates, sessions, NewQuestionProvider(nil, 0), time.Hour)
	t.Cleanup(svc.Shutdown)
	if err := svc.Restore(); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if state := svc.State(); state.Active {
		t.Error("corrupt row produced an active session")
	}
	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if persisted != nil {
		t.Error("corrupt session row not dropped")
	}
}

func TestInterviewAbandonIfStale(t *testing.T) {
	db := newTestDB(t)
	candidates := repositories.NewCandidateRepository(db)
	sessions := repositories.NewSessionRepository(db)
	svc := NewInterviewService(candidates, sessions, NewQuestionProvider(nil, 0), time.Hour)
	t.Cleanup(svc.Shutdown)

	// Nothing persisted: nothing to do.
	abandoned, err := svc.AbandonIfStale(time.Hour)
	if err != nil || abandoned {
		t.Fatalf("AbandonIfStale on empty store = (%v, %v)", abandoned, err)
	}

	if err := sessions.Save(&models.InterviewSession{
		CandidateID:          uuid.New(),
		Questions:            builtinQuestions(),
		CurrentQuestionIndex: 2,
		RemainingTime:        15,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Fresh row survives the sweep.
	abandoned, err = svc.AbandonIfStale(time.Hour)
	if err != nil || abandoned {
		t.Fatalf("AbandonIfStale on fresh row = (%v, %v)", abandoned, err)
	}

	stale := time.Now().Add(-25 * time.Hour)
	if err := db.Model(&models.InterviewSession{}).
		Where("id = ?", 1).
		UpdateColumn("updated_at", stale).Error; err != nil {
		t.Fatalf("failed to backdate session row: %v", err)
	}

	abandoned, err = svc.AbandonIfStale(24 * time.Hour)
	if err != nil {
		t.Fatalf("AbandonIfStale returned error: %v", err)
	}
	if !abandoned {
		t.Fatal("stale row not abandoned")
	}
	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if persisted != nil {
		t.Error("stale session row still present")
	}
}

func TestInterviewTranscriptWhileIdle(t *testing.T) {
	svc, _, _ := newTestService(t, time.Hour)
	if _, err := svc.Transcript(); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Transcript while idle = %v, want ErrInvalidState", err)
	}
}
