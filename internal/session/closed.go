package session

import "github.com/vovakirdan/arc-scorecard/internal/report"

// Close reasons.
const (
	ReasonRequested = "requested"
	ReasonIdle      = "idle"
)

// Closed describes a scorecard removed from the registry.
type Closed struct {
	Report report.Report `json:"report"`
	// SessionIDs were bound to the card and are now detached.
	SessionIDs []string `json:"session_ids"`
	// GameSessionKeys lists "<session>.<game>" for every recorded play.
	GameSessionKeys []string `json:"game_session_keys"`
	Reason          string   `json:"reason"`
}

// ClosedHandler receives scorecards after they leave the registry.
// The storage archive implements this to persist final reports.
type ClosedHandler interface {
	HandleClosed(c Closed) error
}

// ClosedHandlerFunc adapts a function to ClosedHandler.
type ClosedHandlerFunc func(c Closed) error

// HandleClosed calls f(c).
func (f ClosedHandlerFunc) HandleClosed(c Closed) error {
	return f(c)
}
