package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jonwraymond/studysearch/query"
)

const replHelp = `type to search; :n / :p move the selection, :o opens it, :q quits`

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Interactive search prompt",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "color", Usage: "Highlight matches with ANSI bold"},
		},
		Action: runRepl,
	}
}

func runRepl(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	idx := e.newIndex(e.catalog, nil)
	p := newPrinter(c.App.Writer, c.Bool("color"), e.catalog)

	ctrl := query.NewController(idx, query.Options{
		Debounce: e.cfg.Search.Debounce,
		Limit:    e.cfg.Search.Limit,
		Logger:   e.logger,
		Render:   p.view,
	})
	defer ctrl.Shutdown()

	ctrl.Open()
	if err := idx.Build(c.Context); err != nil {
		return err
	}
	p.printf("%d entries from %d groups\n%s\n", idx.Len(), len(idx.Groups()), replHelp)

	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":q", ":quit":
			return nil
		case ":n":
			ctrl.MoveSelection(1)
		case ":p":
			ctrl.MoveSelection(-1)
		case ":o":
			hit, ok := ctrl.Activate()
			if !ok {
				p.printf("nothing selected\n")
				continue
			}
			p.printf("open %s\n", hit.Target())
			ctrl.Open()
		case ":h", ":help":
			p.printf("%s\n", replHelp)
		default:
			if !ctrl.IsOpen() {
				ctrl.Open()
			}
			ctrl.OnInput(line)
			ctrl.Flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
