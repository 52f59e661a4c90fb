package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/scoring"
	"github.com/vovakirdan/arc-scorecard/internal/storage"
)

func TestPad(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("Expected %q, got %q", "ab  ", got)
	}
	if got := pad("abcdef", 4); got != "abcdef" {
		t.Errorf("Long strings should be unchanged, got %q", got)
	}
}

func TestRenderReportPlain(t *testing.T) {
	games := 1
	r := report.Report{
		CardID: "card-1",
		Tags:   []string{"nightly"},
		Score:  50,
		Environments: []report.GameScores{{
			ID:    "zz99",
			Runs:  []scoring.Score{{Message: scoring.MsgNoCatalogEntry}},
			Score: 0,
		}},
		TagScores:         []scoring.Score{{ID: "keyboard", Score: 50, NumberOfEnvironments: &games}},
		TotalEnvironments: 1,
	}

	var buf bytes.Buffer
	renderReport(&buf, newStyles(false), r)
	out := buf.String()

	for _, want := range []string{"Scorecard card-1", "tags: nightly", "50.00", "zz99", scoring.MsgNoCatalogEntry, "keyboard"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Plain output must not contain ANSI escapes")
	}
}

func TestScoreStyleBands(t *testing.T) {
	st := newStyles(true)
	if st.scoreStyle(80).GetForeground() != st.good.GetForeground() {
		t.Error("80 should be good")
	}
	if st.scoreStyle(30).GetForeground() != st.fair.GetForeground() {
		t.Error("30 should be fair")
	}
	if st.scoreStyle(0).GetForeground() != st.poor.GetForeground() {
		t.Error("0 should be poor")
	}
}

func TestRenderAllGameStats(t *testing.T) {
	games, err := catalog.New(catalog.Entry{GameID: "bt11", BaselineActions: []int{4}})
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	stats := map[string]*storage.GameStats{
		"zz99": {GameID: "zz99", Plays: 1, BestScore: 10, AvgScore: 10},
		"bt11": {GameID: "bt11", Plays: 3, Wins: 1, BestScore: 100, AvgScore: 50},
	}

	var buf bytes.Buffer
	renderAllGameStats(&buf, newStyles(false), stats, games)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "bt11") || strings.Contains(lines[1], "not in catalog") {
		t.Errorf("Unexpected bt11 row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "zz99") || !strings.Contains(lines[2], "not in catalog") {
		t.Errorf("Unknown game should be flagged: %q", lines[2])
	}
}

func TestRenderAllGameStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderAllGameStats(&buf, newStyles(false), nil, nil)
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}
