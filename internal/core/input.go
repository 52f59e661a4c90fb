package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionKind classifies a single game step for scoring purposes.
// Only the distinction between a reset and a gameplay action matters here;
// which gameplay action was taken is the game's business.
type ActionKind int

const (
	ActionReset ActionKind = iota // RESET - start or restart an attempt
	ActionPlay                    // Any gameplay action (ACTION1..ACTION7)
)

// String returns the wire name of the action kind.
func (a ActionKind) String() string {
	switch a {
	case ActionReset:
		return "RESET"
	case ActionPlay:
		return "ACTION"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether a is a declared action kind.
func (a ActionKind) Valid() bool {
	return a == ActionReset || a == ActionPlay
}

// ParseActionKind converts a wire name into an ActionKind.
// Numbered gameplay actions ("ACTION1".."ACTION7") all map to ActionPlay.
func ParseActionKind(name string) (ActionKind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case upper == "RESET":
		return ActionReset, nil
	case upper == "ACTION":
		return ActionPlay, nil
	case strings.HasPrefix(upper, "ACTION") && len(upper) == len("ACTION")+1:
		if n := upper[len(upper)-1]; n >= '1' && n <= '7' {
			return ActionPlay, nil
		}
	}
	return ActionReset, fmt.Errorf("core: unknown action kind %q", name)
}

// MarshalJSON encodes the action kind by name.
func (a ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the action kind from its name.
func (a *ActionKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("core: action kind must be a string: %w", err)
	}
	parsed, err := ParseActionKind(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
