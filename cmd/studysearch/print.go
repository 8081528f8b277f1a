package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/jonwraymond/studysearch/catalog"
	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/query"
	"github.com/jonwraymond/studysearch/textnorm"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// printer renders hits for a terminal. It is safe for concurrent use.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	catalog *catalog.Catalog
	open    string
	shut    string
}

func newPrinter(w io.Writer, color bool, cat *catalog.Catalog) *printer {
	p := &printer{w: w, catalog: cat, open: "[", shut: "]"}
	if color {
		p.open, p.shut = ansiBold, ansiReset
	}
	return p
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) hits(q string, hits []index.Hit, selected int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range hits {
		marker := " "
		if i == selected {
			marker = ">"
		}
		fmt.Fprintf(p.w, "%s %2d. %-10s %s  (%s)  %.1f\n", marker, i+1, h.Kind.Label(),
			textnorm.HighlightTerms(h.Title, q, p.open, p.shut),
			p.catalog.Title(h.GroupKey), h.Score)
		if h.Snippet != "" {
			fmt.Fprintf(p.w, "       %s\n", textnorm.HighlightTerms(h.Snippet, q, p.open, p.shut))
		}
		fmt.Fprintf(p.w, "       %s\n", h.Target())
	}
}

// view renders a controller view.
func (p *printer) view(v query.View) {
	if !v.Open {
		return
	}
	switch v.Status {
	case query.StatusIdle:
		if v.Query != "" {
			p.printf("type at least 2 characters\n")
		}
	case query.StatusLoading:
		p.printf("loading content…\n")
	case query.StatusEmpty:
		p.printf("no results for %q\n", v.Query)
	case query.StatusResults:
		p.printf("%d results for %q\n", len(v.Results), v.Query)
		p.hits(v.Query, v.Results, v.Selected)
	}
}
