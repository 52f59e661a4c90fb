package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/session"
)

type resultLine struct {
	Op     string          `json:"op"`
	OK     bool            `json:"ok"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

func newDriver(t *testing.T) *Driver {
	t.Helper()
	games, err := catalog.New(catalog.Entry{GameID: "bt11", Tags: []string{"keyboard"}, BaselineActions: []int{4}})
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return New(session.NewRegistry(), games, Config{MaxOpaqueBytes: 64}, nil)
}

func runLines(t *testing.T, d *Driver, lines ...string) []resultLine {
	t.Helper()
	var out bytes.Buffer
	if _, err := d.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var results []resultLine
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r resultLine
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("Failed to decode result: %v", err)
		}
		results = append(results, r)
	}
	return results
}

func TestDriverFullStream(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d,
		`{"op":"open","owner_key":"k","tags":["run"],"opaque":{"agent": "random"}}`,
		`{"op":"bind","card_id":"$last","session_id":"g1"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"RESET","fresh":true}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"ACTION"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"ACTION"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"ACTION"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"ACTION","levels_completed":1,"state":"WIN"}`,
		`{"op":"report","card_id":"$last","owner_key":"k"}`,
		`{"op":"summary","card_id":"$last","owner_key":"k","game_id":"bt11"}`,
		`{"op":"close","card_id":"$last","owner_key":"k"}`,
	)

	if len(results) != 10 {
		t.Fatalf("Expected 10 results, got %d", len(results))
	}
	for i, r := range results {
		if !r.OK {
			t.Errorf("Command %d (%s) failed: %s", i, r.Op, r.Error)
		}
	}

	var opened struct {
		CardID string `json:"card_id"`
	}
	json.Unmarshal(results[0].Result, &opened)
	var step struct {
		CardID string `json:"card_id"`
		State  string `json:"state"`
	}
	json.Unmarshal(results[6].Result, &step)
	if step.State != "WIN" {
		t.Errorf("Expected WIN after last step, got %q", step.State)
	}
	if step.CardID == "" || step.CardID != opened.CardID {
		t.Errorf("Step card_id = %q, want %q", step.CardID, opened.CardID)
	}

	var rep report.Report
	if err := json.Unmarshal(results[7].Result, &rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if rep.Score != 100 {
		t.Errorf("Expected score 100, got %v", rep.Score)
	}
	if string(rep.Opaque) != `{"agent":"random"}` {
		t.Errorf("Expected compacted opaque, got %s", rep.Opaque)
	}

	var summary struct {
		Won    int `json:"won"`
		Played int `json:"played"`
	}
	json.Unmarshal(results[8].Result, &summary)
	if summary.Won != 1 || summary.Played != 1 {
		t.Errorf("Unexpected summary %s", results[8].Result)
	}

	var closed session.Closed
	if err := json.Unmarshal(results[9].Result, &closed); err != nil {
		t.Fatalf("Failed to decode close result: %v", err)
	}
	if len(closed.SessionIDs) != 1 || closed.SessionIDs[0] != "g1" {
		t.Errorf("Expected detached [g1], got %v", closed.SessionIDs)
	}
}

func TestDriverErrorsDoNotStopStream(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d,
		`not json`,
		`{"op":"bogus"}`,
		`{"op":"open"}`,
		`{"op":"report","card_id":"$last","owner_key":"intruder"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11"}`,
		`{"op":"step","session_id":"g1","game_id":"bt11","action":"JUMP"}`,
		`{"op":"report","card_id":"$last"}`,
	)

	if len(results) != 7 {
		t.Fatalf("Expected 7 results, got %d", len(results))
	}
	wantOK := []bool{false, false, true, false, false, false, true}
	for i, want := range wantOK {
		if results[i].OK != want {
			t.Errorf("Result %d: expected ok=%v, got %+v", i, want, results[i])
		}
	}
	if results[1].Op != "bogus" {
		t.Errorf("Expected op to be echoed, got %q", results[1].Op)
	}
	if results[3].Error != session.ErrNotFound.Error() {
		t.Errorf("Expected not-found error, got %q", results[3].Error)
	}
}

func TestDriverOpaqueLimit(t *testing.T) {
	d := newDriver(t)
	big := strings.Repeat("x", 100)
	results := runLines(t, d, `{"op":"open","opaque":"`+big+`"}`)
	if results[0].OK {
		t.Error("Expected oversized opaque to be rejected")
	}
	if d.registry.Count() != 0 {
		t.Error("Rejected open must not create a scorecard")
	}
}

func TestDriverBindGeneratesSessionID(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d,
		`{"op":"open"}`,
		`{"op":"bind","card_id":"$last"}`,
		`{"op":"bind","card_id":"missing","session_id":"x"}`,
	)

	var bound struct {
		SessionID string `json:"session_id"`
	}
	json.Unmarshal(results[1].Result, &bound)
	if bound.SessionID == "" {
		t.Error("Expected generated session id")
	}
	if results[2].OK {
		t.Error("Bind to unknown card should fail")
	}
}

func TestDriverUnboundStep(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d, `{"op":"step","session_id":"ghost","game_id":"bt11","action":"RESET","fresh":true}`)
	if !results[0].OK {
		t.Fatalf("Unbound step should succeed silently, got %s", results[0].Error)
	}
	if !strings.Contains(string(results[0].Result), `"NOT_PLAYED"`) {
		t.Errorf("Expected NOT_PLAYED, got %s", results[0].Result)
	}
}

func TestDriverIdle(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d,
		`{"op":"open"}`,
		`{"op":"idle"}`,
		`{"op":"idle","minutes":0}`,
	)

	var idle struct {
		CardIDs []string `json:"card_ids"`
	}
	json.Unmarshal(results[1].Result, &idle)
	if len(idle.CardIDs) != 0 {
		t.Errorf("Fresh card should not be idle, got %v", idle.CardIDs)
	}
	json.Unmarshal(results[2].Result, &idle)
	if len(idle.CardIDs) != 1 {
		t.Errorf("Zero threshold should list the card, got %v", idle.CardIDs)
	}
}

func TestDriverSkipsBlankAndComments(t *testing.T) {
	d := newDriver(t)
	var out bytes.Buffer
	stats, err := d.Run(context.Background(), strings.NewReader("\n# comment\n{\"op\":\"open\"}\n\n{\"op\":\"nope\"}\n"), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Commands != 2 || stats.Failed != 1 {
		t.Errorf("Expected 2 commands and 1 failure, got %+v", stats)
	}
}

func TestDriverContextCanceled(t *testing.T) {
	d := newDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := d.Run(ctx, strings.NewReader(`{"op":"open"}`), &out); err == nil {
		t.Error("Expected context error")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %s", out.String())
	}
}

func TestDriverCancelWhileReadBlocked(t *testing.T) {
	d := newDriver(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := d.Run(ctx, pr, io.Discard)
		done <- err
	}()

	// Let Run block on the empty pipe before canceling.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel while input was idle")
	}
}

func TestDriverIdleRejectsNegativeMinutes(t *testing.T) {
	d := newDriver(t)
	results := runLines(t, d,
		`{"op":"open"}`,
		`{"op":"idle","minutes":-5}`,
		`{"op":"idle","minutes":0}`,
	)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[1].OK || !strings.Contains(results[1].Error, "minutes") {
		t.Errorf("Negative minutes should be rejected, got %+v", results[1])
	}
	if !results[2].OK || !strings.Contains(string(results[2].Result), "card_ids") {
		t.Errorf("Zero minutes should list every card, got %+v", results[2])
	}
}
