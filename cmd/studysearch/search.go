package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/registry"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Build the index and print ranked hits for a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum hits (default from config)",
			},
			&cli.StringSliceFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Only return these kinds (section, vocab, fact, quiz)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "Highlight matches with ANSI bold",
			},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	q := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if q == "" {
		return errors.New("search: a query is required")
	}
	kinds, err := parseKinds(c.StringSlice("kind"))
	if err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	idx, err := e.buildIndex(c.Context)
	if err != nil {
		return err
	}

	limit := e.cfg.Search.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}
	var hits []index.Hit
	if len(kinds) > 0 {
		hits = idx.SearchKinds(q, limit, kinds...)
	} else {
		hits = idx.Search(q, limit)
	}

	if c.Bool("json") {
		result := registry.SearchResult{Query: q, State: idx.State(), Count: len(hits), Hits: make([]registry.HitView, len(hits))}
		for i, h := range hits {
			result.Hits[i] = registry.HitView{Hit: h, Target: h.Target(), GroupTitle: e.catalog.Title(h.GroupKey)}
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	p := newPrinter(c.App.Writer, c.Bool("color"), e.catalog)
	if len(hits) == 0 {
		p.printf("no results for %q\n", q)
		return nil
	}
	p.hits(q, hits, -1)
	return nil
}

func parseKinds(names []string) ([]content.Kind, error) {
	var kinds []content.Kind
	for _, name := range names {
		for part := range strings.SplitSeq(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			k, ok := content.ParseKind(part)
			if !ok {
				return nil, fmt.Errorf("unknown kind %q", part)
			}
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}
