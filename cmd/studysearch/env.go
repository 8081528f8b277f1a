package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jonwraymond/studysearch/catalog"
	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/internal/config"
)

var errNoTopics = errors.New("no topics configured: list [[topics]] in the config when reading from a base URL")

// env is the loaded configuration and content wiring shared by commands.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	source  content.Source
	fsys    fs.FS
	catalog *catalog.Catalog
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("dir") {
		cfg.Content.Dir = c.String("dir")
		cfg.Content.BaseURL = ""
	}
	if c.IsSet("base-url") {
		cfg.Content.BaseURL = c.String("base-url")
	}
	if c.IsSet("pattern") {
		cfg.Content.Pattern = c.String("pattern")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	return cfg, nil
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newEnv(c, cfg)
}

func newEnv(c *cli.Context, cfg config.Config) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: cfg.Log.NewLogger(c.App.ErrWriter)}
	if cfg.Content.BaseURL != "" {
		e.source = content.NewHTTPSource(cfg.Content.BaseURL, &http.Client{Timeout: cfg.Index.FetchTimeout})
	} else {
		e.fsys = os.DirFS(cfg.Content.Dir)
		e.source = content.NewFSSource(e.fsys)
	}

	cat, err := e.loadCatalog()
	if err != nil {
		return nil, err
	}
	e.catalog = cat
	return e, nil
}

// loadCatalog returns the configured topics, or the groups discovered in the
// content directory.
func (e *env) loadCatalog() (*catalog.Catalog, error) {
	cat, err := e.cfg.Catalog()
	if err != nil || cat != nil {
		return cat, err
	}
	if e.fsys == nil {
		return nil, errNoTopics
	}

	ids, err := content.DiscoverGroups(e.fsys, e.cfg.Content.Pattern)
	if err != nil {
		return nil, fmt.Errorf("discover groups in %s: %w", e.cfg.Content.Dir, err)
	}
	if len(ids) == 0 {
		e.logger.Warn("no content groups found", "dir", e.cfg.Content.Dir, "pattern", e.cfg.Content.Pattern)
	}
	return catalog.FromIDs(ids), nil
}

func (e *env) newIndex(cat *catalog.Catalog, observer index.Observer) *index.Index {
	return index.NewIndex(e.source, cat.IDs(), e.cfg.IndexOptions(e.logger, observer))
}

func (e *env) buildIndex(ctx context.Context) (*index.Index, error) {
	idx := e.newIndex(e.catalog, nil)
	if err := idx.Build(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}
