// Package core holds the value types shared by the scoring engine:
// game states, action kinds and the step event pushed once per game step.
package core

import (
	"errors"
	"fmt"
)

// ErrMalformedEvent is returned for step events that would corrupt a play.
var ErrMalformedEvent = errors.New("malformed step event")

// StepEvent is pushed by the event source once per completed game step.
type StepEvent struct {
	GameID          string     `json:"game_id"`
	SessionID       string     `json:"session_id"`
	Action          ActionKind `json:"action"`
	LevelsCompleted int        `json:"levels_completed"`
	State           GameState  `json:"state"`
	// FreshAttempt marks a reset that starts a new play instead of
	// restarting the current level of the existing one.
	FreshAttempt bool `json:"fresh"`
}

// Validate checks the fields that can be judged without play history.
func (e StepEvent) Validate() error {
	if e.GameID == "" {
		return fmt.Errorf("%w: game_id is required", ErrMalformedEvent)
	}
	if e.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrMalformedEvent)
	}
	if !e.Action.Valid() {
		return fmt.Errorf("%w: action kind %d", ErrMalformedEvent, int(e.Action))
	}
	if e.LevelsCompleted < 0 {
		return fmt.Errorf("%w: negative levels_completed %d", ErrMalformedEvent, e.LevelsCompleted)
	}
	if !e.State.Valid() || e.State == StateNotPlayed {
		return fmt.Errorf("%w: state %s is not reportable", ErrMalformedEvent, e.State)
	}
	return nil
}
