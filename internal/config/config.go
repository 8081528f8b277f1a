// Package config loads studysearch settings: defaults, then a TOML file,
// then STUDYSEARCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/jonwraymond/studysearch/catalog"
	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/query"
	"github.com/jonwraymond/studysearch/search"
)

// DefaultPath is read when Load is given no path. It may be absent.
const DefaultPath = "studysearch.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STUDYSEARCH_"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownKeys   = errors.New("unknown config keys")
)

type Config struct {
	Content ContentConfig   `toml:"content"`
	Topics  []catalog.Topic `toml:"topics"`
	Index   IndexConfig     `toml:"index"`
	Search  SearchConfig    `toml:"search"`
	Log     LogConfig       `toml:"log"`
	Server  ServerConfig    `toml:"server"`
}

// ContentConfig locates content groups. BaseURL wins over Dir when both are
// set.
type ContentConfig struct {
	Dir     string `toml:"dir" validate:"required_without=BaseURL"`
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
	Pattern string `toml:"pattern" validate:"required"`
}

type IndexConfig struct {
	MaxBodyLen       int           `toml:"max_body_len" validate:"gt=0"`
	FetchConcurrency int           `toml:"fetch_concurrency" validate:"gt=0,lte=256"`
	FetchTimeout     time.Duration `toml:"fetch_timeout" validate:"gte=0"`
}

type SearchConfig struct {
	Limit    int            `toml:"limit" validate:"gt=0,lte=1000"`
	Debounce time.Duration  `toml:"debounce" validate:"gte=0"`
	// Weights start from the defaults; keys left out keep them and 0
	// switches a term off.
	Weights  search.Weights `toml:"weights"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Name      string `toml:"name" validate:"required"`
	Transport string `toml:"transport" validate:"oneof=stdio http sse"`
	Addr      string `toml:"addr" validate:"required_unless=Transport stdio"`
	Watch     bool   `toml:"watch"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Content: ContentConfig{Dir: "content", Pattern: content.DefaultPattern},
		Index: IndexConfig{
			MaxBodyLen:       index.MaxBodyLen,
			FetchConcurrency: index.DefaultFetchConcurrency,
			FetchTimeout:     10 * time.Second,
		},
		Search: SearchConfig{
			Limit:    index.DefaultLimit,
			Debounce: query.DefaultDebounce,
			Weights:  search.DefaultWeights(),
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Name: "studysearch", Transport: "stdio", Addr: "127.0.0.1:8080"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins). An empty
// path reads DefaultPath if it exists. Unknown keys in the file are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("%w in %s: %s", ErrUnknownKeys, path, strings.Join(keys, ", "))
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Search.Weights = cfg.Search.Weights.WithDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"CONTENT_DIR", &c.Content.Dir},
		{"BASE_URL", &c.Content.BaseURL},
		{"PATTERN", &c.Content.Pattern},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
		{"TRANSPORT", &c.Server.Transport},
		{"ADDR", &c.Server.Addr},
	}
	for _, s := range strs {
		if v := os.Getenv(EnvPrefix + s.key); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv(EnvPrefix + "LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sLIMIT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Search.Limit = n
	}
	if v := os.Getenv(EnvPrefix + "FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sFETCH_TIMEOUT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Index.FetchTimeout = d
	}
	if v := os.Getenv(EnvPrefix + "WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sWATCH: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Server.Watch = b
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the topic list.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Catalog builds the configured topic catalog, or nil when no topics are
// listed and groups should be discovered from the content source.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if len(c.Topics) == 0 {
		return nil, nil
	}
	return catalog.New(c.Topics...)
}

// IndexOptions maps the config onto index options.
func (c Config) IndexOptions(logger *slog.Logger, observer index.Observer) index.IndexOptions {
	return index.IndexOptions{
		Weights:          c.Search.Weights,
		Logger:           logger,
		Observer:         observer,
		MaxBodyLen:       c.Index.MaxBodyLen,
		FetchConcurrency: c.Index.FetchConcurrency,
		FetchTimeout:     c.Index.FetchTimeout,
	}
}

// SlogLevel returns the configured log level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a text or JSON slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
