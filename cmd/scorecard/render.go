package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/storage"
)

// styles holds the output styles; all are no-ops when plain is set.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	id     lipgloss.Style
	dim    lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	poor   lipgloss.Style
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true),
		id:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		fair:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		poor:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (s styles) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 75:
		return s.good
	case score >= 25:
		return s.fair
	default:
		return s.poor
	}
}

// pad left-aligns s to width before styling so ANSI codes don't break columns.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func renderReport(w io.Writer, st styles, r report.Report) {
	fmt.Fprintln(w, st.title.Render("Scorecard "+r.CardID))
	if r.SourceURL != "" {
		fmt.Fprintln(w, st.dim.Render(r.SourceURL))
	}
	if len(r.Tags) > 0 {
		fmt.Fprintln(w, st.dim.Render("tags: "+strings.Join(r.Tags, ", ")))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Score        %s\n", st.scoreStyle(r.Score).Render(fmt.Sprintf("%.2f", r.Score)))
	fmt.Fprintf(w, "  Games        %d/%d completed\n", r.TotalEnvironmentsCompleted, r.TotalEnvironments)
	fmt.Fprintf(w, "  Levels       %d/%d completed\n", r.TotalLevelsCompleted, r.TotalLevels)
	fmt.Fprintf(w, "  Actions      %d\n", r.TotalActions)
	fmt.Fprintln(w)

	if len(r.Environments) > 0 {
		fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
			st.header.Render(pad("Game", 10)), st.header.Render(pad("Score", 7)),
			st.header.Render(pad("Plays", 5)), st.header.Render(pad("Levels", 6)), st.header.Render("Actions"))
		for _, g := range r.Environments {
			line := fmt.Sprintf("  %s  %s  %-5d  %-6s  %d",
				st.id.Render(pad(g.ID, 10)), st.scoreStyle(g.Score).Render(pad(fmt.Sprintf("%.1f", g.Score), 7)),
				len(g.Runs), fmt.Sprintf("%d/%d", g.LevelsCompleted, g.LevelCount), g.Actions)
			if msg := g.Best().Message; msg != "" {
				line += "  " + st.dim.Render("("+msg+")")
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	if len(r.TagScores) > 0 {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			st.header.Render(pad("Tag", 14)), st.header.Render(pad("Score", 7)), st.header.Render("Games"))
		for _, t := range r.TagScores {
			games := 0
			if t.NumberOfEnvironments != nil {
				games = *t.NumberOfEnvironments
			}
			fmt.Fprintf(w, "  %s  %s  %d\n",
				pad(t.ID, 14), st.scoreStyle(t.Score).Render(pad(fmt.Sprintf("%.1f", t.Score), 7)), games)
		}
	}
}

// renderAllGameStats prints one row per archived game, sorted by id.
// Games missing from the catalog are flagged.
func renderAllGameStats(w io.Writer, st styles, stats map[string]*storage.GameStats, games *catalog.Catalog) {
	if len(stats) == 0 {
		return
	}
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
		st.header.Render(pad("Game", 10)), st.header.Render(pad("Plays", 5)), st.header.Render(pad("Wins", 5)),
		st.header.Render(pad("Best", 7)), st.header.Render("Avg"))
	for _, id := range ids {
		gs := stats[id]
		line := fmt.Sprintf("  %s  %-5d  %-5d  %s  %.1f",
			st.id.Render(pad(id, 10)), gs.Plays, gs.Wins,
			st.scoreStyle(gs.BestScore).Render(pad(fmt.Sprintf("%.1f", gs.BestScore), 7)), gs.AvgScore)
		if games != nil && !games.Exists(id) {
			line += "  " + st.dim.Render("(not in catalog)")
		}
		fmt.Fprintln(w, line)
	}
}
