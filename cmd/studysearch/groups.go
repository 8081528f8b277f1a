package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

type groupRow struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Entries int    `json:"entries"`
	Failed  bool   `json:"failed,omitempty"`
}

func groupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "Load every content group and report its entry count",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: runGroups,
	}
}

func runGroups(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	idx, err := e.buildIndex(c.Context)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, entry := range idx.Entries() {
		counts[entry.GroupKey]++
	}
	failed := idx.Stats().GroupsFailed

	rows := make([]groupRow, 0, e.catalog.Len())
	for _, t := range e.catalog.Topics() {
		rows = append(rows, groupRow{
			ID:      t.ID,
			Title:   t.DisplayTitle(),
			Entries: counts[t.ID],
			Failed:  slices.Contains(failed, t.ID),
		})
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tENTRIES\tSTATUS")
	for _, r := range rows {
		status := "ok"
		if r.Failed {
			status = "unavailable"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Title, r.Entries, status)
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", idx.Len(), idx.Fingerprint())
	return tw.Flush()
}
