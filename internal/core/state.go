package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GameState is the lifecycle state of a single play.
// GameOver and Win are terminal.
type GameState int

const (
	StateNotPlayed   GameState = iota // No play recorded yet
	StateNotFinished                  // Play in progress
	StateGameOver                     // Play ended without winning
	StateWin                          // Play ended with all levels cleared
)

// String returns the wire name of the state.
func (s GameState) String() string {
	switch s {
	case StateNotPlayed:
		return "NOT_PLAYED"
	case StateNotFinished:
		return "NOT_FINISHED"
	case StateGameOver:
		return "GAME_OVER"
	case StateWin:
		return "WIN"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further progress can be made in this state.
func (s GameState) Terminal() bool {
	return s == StateGameOver || s == StateWin
}

// Valid reports whether s is one of the declared states.
func (s GameState) Valid() bool {
	return s >= StateNotPlayed && s <= StateWin
}

// ParseGameState converts a wire name into a GameState.
func ParseGameState(name string) (GameState, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NOT_PLAYED":
		return StateNotPlayed, nil
	case "NOT_FINISHED", "":
		return StateNotFinished, nil
	case "GAME_OVER":
		return StateGameOver, nil
	case "WIN":
		return StateWin, nil
	}
	return StateNotPlayed, fmt.Errorf("core: unknown game state %q", name)
}

// MarshalJSON encodes the state by name.
func (s GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the state from its name.
func (s *GameState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("core: game state must be a string: %w", err)
	}
	parsed, err := ParseGameState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
