// Package config collects runtime settings from defaults, the environment and root flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/idilsaglam/cards/internal/catalog"
	"github.com/idilsaglam/cards/internal/remote"
)

const (
	appName     = "cards"
	logFileName = "cards.log"
	envPrefix   = "CARDS_"
)

type Config struct {
	BaseURL string
	PerPage int
	Timeout time.Duration // 0 keeps the transport default
	APIKey  string

	Theme        string // classic, neon, mono
	ForceColor   bool
	DisableColor bool

	LogFile string // "-" for stderr
	Debug   bool
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
	return Config{
		BaseURL: remote.DefaultBaseURL,
		PerPage: catalog.DefaultPageSize,
		Theme:   "classic",
	}
}

// DefaultLogFile is the log path under the XDG state directory.
func DefaultLogFile() (string, error) {
	p, err := xdg.StateFile(appName + "/" + logFileName)
	if err != nil {
		return "", fmt.Errorf("state dir: %w", err)
	}
	return p, nil
}

// FromEnv overlays CARDS_* variables on c. lookup is usually os.LookupEnv.
func (c Config) FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(k string) (string, bool) {
		v, ok := lookup(envPrefix + k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := get("PER_PAGE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sPER_PAGE: %w", envPrefix, err)
		}
		c.PerPage = n
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := get("API_KEY"); ok {
		c.APIKey = v
	}
	if v, ok := get("THEME"); ok {
		c.Theme = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.LogFile = v
	}
	return c, nil
}

// RegisterFlags binds root flags to c; values already in c become the defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "base URL of the users collection")
	fs.IntVar(&c.PerPage, "per-page", c.PerPage, "records fetched on load")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request timeout (0 = none)")
	fs.StringVar(&c.APIKey, "api-key", c.APIKey, "value for the x-api-key header")
	fs.StringVar(&c.Theme, "theme", c.Theme, "print theme: classic, neon or mono")
	fs.BoolVar(&c.ForceColor, "color", c.ForceColor, "force colored output")
	fs.BoolVar(&c.DisableColor, "no-color", c.DisableColor, "disable colored output")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "diagnostics log path, - for stderr")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log every request")
}

// Load builds the config: defaults, then environment, then flags from args.
// It returns the arguments left after flag parsing.
func Load(fs *flag.FlagSet, args []string) (Config, []string, error) {
	c, err := Default().FromEnv(os.LookupEnv)
	if err != nil {
		return c, nil, err
	}
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return c, nil, err
	}
	if err := c.Validate(); err != nil {
		return c, nil, err
	}
	return c, fs.Args(), nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base url is empty"))
	}
	if c.PerPage < 1 {
		errs = append(errs, fmt.Errorf("per page must be at least 1, got %d", c.PerPage))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		errs = append(errs, fmt.Errorf("unknown theme %q", c.Theme))
	}
	return errors.Join(errs...)
}
