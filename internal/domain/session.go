package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the conversational context across feedback rounds. It is a value
// owned by the caller, created at session start and discarded at process
// exit; nothing here persists across runs.
type Session struct {
	ID          string
	SandboxRoot string
	StartedAt   time.Time
	Rounds      []Round
}

// Round is one full prompt/reply/execute cycle. Insertion order is
// significant: it defines what is replayed as feedback for the next round.
type Round struct {
	Prompt      string
	Reply       string
	UserMessage string
	Results     []ExecutionResult
	StartedAt   time.Time
	DurationMS  int64
}

// NewSession creates a session rooted at the given sandbox directory.
func NewSession(sandboxRoot string) Session {
	return Session{
		ID:          uuid.NewString(),
		SandboxRoot: sandboxRoot,
		StartedAt:   time.Now(),
	}
}

// Append records a completed round.
func (s *Session) Append(r Round) {
	s.Rounds = append(s.Rounds, r)
}

// LastRound returns the most recent round, if any.
func (s *Session) LastRound() (Round, bool) {
	if len(s.Rounds) == 0 {
		return Round{}, false
	}
	return s.Rounds[len(s.Rounds)-1], true
}
