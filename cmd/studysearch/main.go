// Command studysearch searches study content from the command line, as an
// interactive prompt, or as an MCP server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "studysearch:", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "studysearch",
		Usage:                  "Search sections, vocabulary, key facts and quizzes of study topics",
		Version:                version,
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: ./studysearch.toml if present)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Content directory of <group>.json|.yaml files (overrides config)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Fetch <base-url>/<group>.json instead of reading a directory",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Glob used to discover groups in the content directory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			groupsCommand(),
			replCommand(),
			serveCommand(),
		},
	}
}
