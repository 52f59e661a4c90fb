package driver

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/arc-scorecard/internal/core"
)

// LastCard refers to the most recently opened scorecard of a stream.
const LastCard = "$last"

// Message is a decoded command line.
type Message interface {
	message()
}

// OpenMsg opens a scorecard.
type OpenMsg struct {
	OwnerKey  string          `json:"owner_key"`
	Tags      []string        `json:"tags"`
	SourceURL string          `json:"source_url"`
	Opaque    json.RawMessage `json:"opaque"`
}

func (OpenMsg) message() {}

// BindMsg binds a session to a scorecard. An empty session id is generated.
type BindMsg struct {
	CardID    string `json:"card_id"`
	SessionID string `json:"session_id"`
}

func (BindMsg) message() {}

// StepMsg carries one step event.
type StepMsg struct {
	SessionID       string           `json:"session_id"`
	GameID          string           `json:"game_id"`
	Action          *core.ActionKind `json:"action"`
	LevelsCompleted int              `json:"levels_completed"`
	State           *core.GameState  `json:"state"`
	Fresh           bool             `json:"fresh"`
}

func (StepMsg) message() {}

// Event converts the message to a step event. A missing state means NOT_FINISHED.
func (m StepMsg) Event() (core.StepEvent, error) {
	if m.Action == nil {
		return core.StepEvent{}, fmt.Errorf("%w: action is required", core.ErrMalformedEvent)
	}
	state := core.StateNotFinished
	if m.State != nil {
		state = *m.State
	}
	return core.StepEvent{
		GameID:          m.GameID,
		SessionID:       m.SessionID,
		Action:          *m.Action,
		LevelsCompleted: m.LevelsCompleted,
		State:           state,
		FreshAttempt:    m.Fresh,
	}, nil
}

// ReportMsg requests a report. A missing owner key means internal access.
type ReportMsg struct {
	CardID   string  `json:"card_id"`
	OwnerKey *string `json:"owner_key"`
}

func (ReportMsg) message() {}

// SummaryMsg requests the progress view, optionally for one game.
type SummaryMsg struct {
	CardID   string  `json:"card_id"`
	OwnerKey *string `json:"owner_key"`
	GameID   string  `json:"game_id"`
}

func (SummaryMsg) message() {}

// CloseMsg closes a scorecard.
type CloseMsg struct {
	CardID   string  `json:"card_id"`
	OwnerKey *string `json:"owner_key"`
}

func (CloseMsg) message() {}

// IdleMsg lists idle scorecards. Minutes overrides the configured threshold.
type IdleMsg struct {
	Minutes *int `json:"minutes"`
}

func (IdleMsg) message() {}

// Decode parses one command line.
func Decode(line []byte) (string, Message, error) {
	var head struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return "", nil, fmt.Errorf("driver: invalid command: %w", err)
	}

	var msg Message
	var err error
	switch head.Op {
	case "open":
		msg, err = decodeAs[OpenMsg](line)
	case "bind":
		msg, err = decodeAs[BindMsg](line)
	case "step":
		msg, err = decodeAs[StepMsg](line)
	case "report":
		msg, err = decodeAs[ReportMsg](line)
	case "summary":
		msg, err = decodeAs[SummaryMsg](line)
	case "close":
		msg, err = decodeAs[CloseMsg](line)
	case "idle":
		msg, err = decodeAs[IdleMsg](line)
	case "":
		return "", nil, fmt.Errorf("driver: missing op")
	default:
		return head.Op, nil, fmt.Errorf("driver: unknown op %q", head.Op)
	}
	if err != nil {
		return head.Op, nil, fmt.Errorf("driver: invalid %s command: %w", head.Op, err)
	}
	return head.Op, msg, nil
}

func decodeAs[T Message](line []byte) (Message, error) {
	var m T
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, err
	}
	return m, nil
}
