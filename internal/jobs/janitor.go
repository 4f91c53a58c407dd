package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"swipe/interview-assistant/internal/services"
)

// SessionJanitor abandons interview sessions whose durable row has gone
// untouched for longer than the configured threshold, so a walked-away
// candidate does not block the next one forever. The candidate record keeps
// its partial answer history.
type SessionJanitor struct {
	interviews services.InterviewService
	staleAfter time.Duration
	cron       *cron.Cron
}

func NewSessionJanitor(interviews services.InterviewService, staleAfter time.Duration) *SessionJanitor {
	return &SessionJanitor{
		interviews: interviews,
		staleAfter: staleAfter,
		cron:       cron.New(),
	}
}

// Start schedules the hourly sweep.
func (j *SessionJanitor) Start() error {
	if _, err := j.cron.AddFunc("@hourly", j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("🧹 Session janitor started (stale after %s)\n", j.staleAfter)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *SessionJanitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	log.Println("🧹 Session janitor stopped")
}

func (j *SessionJanitor) sweep() {
	abandoned, err := j.interviews.AbandonIfStale(j.staleAfter)
	if err != nil {
		log.Printf("⚠️  Janitor sweep failed: %v\n", err)
		return
	}
	if abandoned {
		log.Println("🧹 Abandoned stale interview session")
	}
}
