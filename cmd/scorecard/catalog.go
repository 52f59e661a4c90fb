package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List all known games",
	Long:  `Shows the games in the catalog with their tags and per-level baseline action counts.`,
	Run:   runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) {
	games := loadCatalog(loadConfig()).List()
	st := newStyles(isTerminal())

	if len(games) == 0 {
		fmt.Println("No games in the catalog.")
		return
	}

	fmt.Println(st.title.Render("Known games"))
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.GameID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %s  %s  %-12s  %s\n",
		st.header.Render(pad("ID", maxIDLen)), st.header.Render(pad("Title", maxTitleLen)),
		st.header.Render("Tags"), st.header.Render("Baselines"))

	for _, g := range games {
		baselines := "-"
		if len(g.BaselineActions) > 0 {
			parts := make([]string, len(g.BaselineActions))
			for i, b := range g.BaselineActions {
				parts[i] = fmt.Sprint(b)
			}
			baselines = strings.Join(parts, " ")
		}
		fmt.Printf("  %s  %s  %-12s  %s\n",
			st.id.Render(pad(g.GameID, maxIDLen)), pad(g.Title, maxTitleLen),
			strings.Join(g.Tags, ","), st.dim.Render(baselines))
	}

	fmt.Println()
	fmt.Printf("%d games.\n", len(games))
}
