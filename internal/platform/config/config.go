// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"hermesx/internal/platform/stealth"
)

// Config is the full runtime configuration. Precedence, lowest to highest:
// defaults, YAML file, HERMESX_* environment, command-line flags.
type Config struct {
	// Workers is the enrichment pool width.
	Workers int `yaml:"workers"`

	PrintVersion bool `yaml:"-"`

	HTTP   HTTP   `yaml:"http"`
	Render Render `yaml:"render"`
	IO     IO     `yaml:"io"`
}

// HTTP configures the stealth transport. Durations are whole seconds, the
// way they appear in the YAML file.
type HTTP struct {
	TimeoutS     int  `yaml:"timeout_s"`
	MaxRetries   int  `yaml:"max_retries"`
	BackoffBaseS int  `yaml:"backoff_base_s"`
	BackoffCapS  int  `yaml:"backoff_cap_s"`
	OriginDelayS int  `yaml:"origin_delay_s"`
	RetryOnBlock bool `yaml:"retry_on_block"`
	CacheSize    int  `yaml:"cache_size"`
	CacheTTLS    int  `yaml:"cache_ttl_s"`
}

// Render configures the tier-3 fallback.
type Render struct {
	Enabled     bool     `yaml:"enabled"`
	NavTimeoutS int      `yaml:"nav_timeout_s"`
	SettleS     int      `yaml:"settle_s"`
	JSKeywords  []string `yaml:"js_keywords"`
}

// IO configures the collaborator surface (input records, annotated output).
type IO struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	NoTable bool   `yaml:"no_table"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		Workers: 5,
		HTTP: HTTP{
			TimeoutS:     10,
			MaxRetries:   3,
			BackoffBaseS: 2,
			BackoffCapS:  8,
			OriginDelayS: 2,
			RetryOnBlock: false,
			CacheSize:    256,
			CacheTTLS:    300,
		},
		Render: Render{
			Enabled:     true,
			NavTimeoutS: 15,
			SettleS:     3,
			JSKeywords:  nil, // nil means the built-in keyword list
		},
		IO: IO{
			Input:  "targets.json",
			Output: "enriched.json",
		},
	}
}

// ClientConfig converts the HTTP section into the transport's config.
func (h HTTP) ClientConfig() stealth.Config {
	return stealth.Config{
		Timeout:      time.Duration(h.TimeoutS) * time.Second,
		MaxRetries:   h.MaxRetries,
		BackoffBase:  time.Duration(h.BackoffBaseS) * time.Second,
		BackoffCap:   time.Duration(h.BackoffCapS) * time.Second,
		OriginDelay:  time.Duration(h.OriginDelayS) * time.Second,
		RetryOnBlock: h.RetryOnBlock,
		CacheSize:    h.CacheSize,
		CacheTTL:     time.Duration(h.CacheTTLS) * time.Second,
	}
}

// NavTimeout returns the render navigation ceiling.
func (r Render) NavTimeout() time.Duration { return time.Duration(r.NavTimeoutS) * time.Second }

// Settle returns the post-ready render settle interval.
func (r Render) Settle() time.Duration { return time.Duration(r.SettleS) * time.Second }

// Load builds the configuration from every layer. The --config flag is
// pre-scanned so the YAML file loads before the remaining flags override it.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	if path := configPathFromArgs(args); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnv()

	if err := cfg.parseFlags(args); err != nil {
		return cfg, err
	}

	cfg.normalize()
	return cfg, nil
}

// LoadFile merges a YAML file into the config.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv merges HERMESX_* environment variables into the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("HERMESX_WORKERS"); v != "" {
		c.Workers = parseInt(v, c.Workers)
	}
	if v := os.Getenv("HERMESX_HTTP_TIMEOUT"); v != "" {
		c.HTTP.TimeoutS = parseInt(v, c.HTTP.TimeoutS)
	}
	if v := os.Getenv("HERMESX_HTTP_RETRIES"); v != "" {
		c.HTTP.MaxRetries = parseInt(v, c.HTTP.MaxRetries)
	}
	if v := os.Getenv("HERMESX_HTTP_ORIGIN_DELAY"); v != "" {
		c.HTTP.OriginDelayS = parseInt(v, c.HTTP.OriginDelayS)
	}
	if v := os.Getenv("HERMESX_HTTP_RETRY_ON_BLOCK"); v != "" {
		c.HTTP.RetryOnBlock = parseBool(v)
	}
	if v := os.Getenv("HERMESX_RENDER_ENABLED"); v != "" {
		c.Render.Enabled = parseBool(v)
	}
	if v := os.Getenv("HERMESX_RENDER_JS_KEYWORDS"); v != "" {
		c.Render.JSKeywords = splitList(v)
	}
	if v := os.Getenv("HERMESX_INPUT"); v != "" {
		c.IO.Input = v
	}
	if v := os.Getenv("HERMESX_OUTPUT"); v != "" {
		c.IO.Output = v
	}
}

// parseFlags registers flags seeded with the current values, so anything the
// user leaves unset keeps its file/env value.
func (c *Config) parseFlags(args []string) error {
	fs := pflag.NewFlagSet("hermesx", pflag.ContinueOnError)

	fs.String("config", "", "Path to YAML configuration file")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "Concurrent enrichment workers")
	fs.IntVar(&c.HTTP.TimeoutS, "http.timeout", c.HTTP.TimeoutS, "Per-request timeout in seconds")
	fs.IntVar(&c.HTTP.MaxRetries, "http.retries", c.HTTP.MaxRetries, "Max HTTP retry attempts")
	fs.IntVar(&c.HTTP.OriginDelayS, "http.delay", c.HTTP.OriginDelayS, "Minimum seconds between requests to one origin")
	fs.BoolVar(&c.HTTP.RetryOnBlock, "http.retry-on-block", c.HTTP.RetryOnBlock, "Retry 401/403/429/503 instead of failing fast")
	fs.BoolVar(&c.Render.Enabled, "render", c.Render.Enabled, "Enable the headless-render fallback tier")
	fs.StringSliceVar(&c.Render.JSKeywords, "render.keywords", c.Render.JSKeywords, "JS framework indicators that gate rendering")
	fs.StringVarP(&c.IO.Input, "input", "i", c.IO.Input, "Input JSON file of target records")
	fs.StringVarP(&c.IO.Output, "output", "o", c.IO.Output, "Output JSON file for annotated records")
	fs.BoolVar(&c.IO.NoTable, "no-table", c.IO.NoTable, "Disable the summary table")
	fs.BoolVar(&c.PrintVersion, "version", false, "Print version and exit")

	return fs.Parse(args)
}

// normalize clamps nonsensical values back to usable ones.
func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = 5
	}
	if c.HTTP.TimeoutS <= 0 {
		c.HTTP.TimeoutS = 10
	}
	if c.HTTP.MaxRetries <= 0 {
		c.HTTP.MaxRetries = 3
	}
	if c.HTTP.OriginDelayS < 0 {
		c.HTTP.OriginDelayS = 0
	}
}

// configPathFromArgs pre-scans for --config so the file loads before the
// full flag parse.
func configPathFromArgs(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
