package interview

import (
	"github.com/google/uuid"

	"swipe/interview-assistant/internal/models"
)

// Per-difficulty countdown allotments in seconds.
const (
	EasyAllotment    = 20
	MediumAllotment  = 60
	HardAllotment    = 120
	DefaultAllotment = 60
)

// AllotmentFor returns the countdown duration for a question difficulty.
// Unknown tags get the medium allotment.
func AllotmentFor(d models.Difficulty) int {
	switch d {
	case models.DifficultyEasy:
		return EasyAllotment
	case models.DifficultyMedium:
		return MediumAllotment
	case models.DifficultyHard:
		return HardAllotment
	default:
		return DefaultAllotment
	}
}

// Machine is the interview session state machine: Idle until Start, Active
// while a candidate is being questioned, back to Idle on End. It is a pure
// in-memory structure; callers own locking and persistence. Misuse never
// corrupts its invariants — out-of-phase calls report ErrInvalidState or
// ErrOutOfRange and leave the state untouched.
type Machine struct {
	active      bool
	candidateID uuid.UUID
	questions   []models.Question
	index       int
	remaining   int
	paused      bool
}

func NewMachine() *Machine {
	return &Machine{}
}

// Start activates a session for the candidate. The question list must be
// non-empty and initialAllotment must equal the first question's allotment.
// Starting over an active session for a different candidate fails; the same
// candidate may restart from the top.
func (m *Machine) Start(candidateID uuid.UUID, questions []models.Question, initialAllotment int) error {
	if m.active && m.candidateID != candidateID {
		return models.ErrInvalidState
	}
	if len(questions) == 0 {
		return models.ErrInvalidState
	}
	if initialAllotment != AllotmentFor(questions[0].Difficulty) {
		return models.ErrInvalidState
	}

	m.active = true
	m.candidateID = candidateID
	m.questions = append([]models.Question(nil), questions...)
	m.index = 0
	m.remaining = initialAllotment
	m.paused = false
	return nil
}

// Restore rebuilds an Active session from persisted fields, used when
// rehydrating after a process restart.
func (m *Machine) Restore(candidateID uuid.UUID, questions []models.Question, index, remaining int, paused bool) error {
	if m.active {
		return models.ErrInvalidState
	}
	if len(questions) == 0 || index < 0 || index >= len(questions) {
		return models.ErrInvalidState
	}
	if remaining < 0 || remaining > AllotmentFor(questions[index].Difficulty) {
		remaining = AllotmentFor(questions[index].Difficulty)
	}

	m.active = true
	m.candidateID = candidateID
	m.questions = append([]models.Question(nil), questions...)
	m.index = index
	m.remaining = remaining
	m.paused = paused
	return nil
}

// Advance moves to the next question and resets the countdown to its
// allotment. At the last question it reports ErrOutOfRange; the caller must
// run completion logic instead.
func (m *Machine) Advance() error {
	if !m.active {
		return models.ErrInvalidState
	}
	if m.index >= len(m.questions)-1 {
		return models.ErrOutOfRange
	}
	m.index++
	m.remaining = AllotmentFor(m.questions[m.index].Difficulty)
	return nil
}

// Tick decrements the remaining time by one second, clamped at zero.
// Expired is true only on the 1→0 crossing; the machine never auto-submits,
// it only exposes the crossing. Ticks while paused or already at zero are
// no-ops.
func (m *Machine) Tick() (remaining int, expired bool, err error) {
	if !m.active {
		return 0, false, models.ErrInvalidState
	}
	if m.paused || m.remaining <= 0 {
		return m.remaining, false, nil
	}
	m.remaining--
	return m.remaining, m.remaining == 0, nil
}

// ResetCountdown puts a fresh allotment on the current question and
// unpauses, used when a restored session resumes. The allotment must match
// the current question's difficulty.
func (m *Machine) ResetCountdown(allotment int) error {
	if !m.active {
		return models.ErrInvalidState
	}
	if allotment != AllotmentFor(m.questions[m.index].Difficulty) {
		return models.ErrInvalidState
	}
	m.remaining = allotment
	m.paused = false
	return nil
}

// SetPaused freezes or resumes the countdown, used while a judgment call is
// in flight.
func (m *Machine) SetPaused(paused bool) error {
	if !m.active {
		return models.ErrInvalidState
	}
	m.paused = paused
	return nil
}

// End resets the machine to Idle, discarding all in-flight fields.
func (m *Machine) End() {
	*m = Machine{}
}

func (m *Machine) Active() bool {
	return m.active
}

func (m *Machine) CandidateID() uuid.UUID {
	return m.candidateID
}

func (m *Machine) Index() int {
	return m.index
}

func (m *Machine) Remaining() int {
	return m.remaining
}

func (m *Machine) Paused() bool {
	return m.paused
}

func (m *Machine) QuestionCount() int {
	return len(m.questions)
}

// CurrentQuestion returns the question under the countdown, or false when
// the machine is idle.
func (m *Machine) CurrentQuestion() (models.Question, bool) {
	if !m.active || m.index >= len(m.questions) {
		return models.Question{}, false
	}
	return m.questions[m.index], true
}

// Questions returns a copy of the fixed question list.
func (m *Machine) Questions() []models.Question {
	return append([]models.Question(nil), m.questions...)
}

// OnLastQuestion reports whether Advance would run past the end.
func (m *Machine) OnLastQuestion() bool {
	return m.active && m.index == len(m.questions)-1
}
