package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database

	"gopkg.in/yaml.v3"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/trace"
)

const (
	SourceHTML = "HTML"
	SourceJSON = "JSON"

	DefaultKeyword   = "#Deal"
	DefaultSignature = "This message was generated by trading-journal-stats"
)

// ReportFormats lists the accepted report.format values.
var ReportFormats = []string{"html", "terminal", "json", "yaml"}

type Config struct {
	Source struct {
		Kind     string `yaml:"kind"`     // HTML or JSON Telegram Desktop export
		Path     string `yaml:"path"`     // export directory or file
		Keyword  string `yaml:"keyword"`  // messages without it are not journal entries
		Location string `yaml:"location"` // zone of export timestamps without an offset
	} `yaml:"source"`
	Parser struct {
		DateLayouts []string `yaml:"date_layouts"`
		Location    string   `yaml:"location"`
	} `yaml:"parser"`
	Stats struct {
		ProfitThreshold float64 `yaml:"profit_threshold"`
		LossThreshold   float64 `yaml:"loss_threshold"`
	} `yaml:"stats"`
	Report struct {
		Format    string `yaml:"format"`
		Comment   string `yaml:"comment"`
		Signature string `yaml:"signature"`
	} `yaml:"report"`
	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
	Metrics struct {
		Enabled      bool   `yaml:"enabled"`
		TextfilePath string `yaml:"textfile_path"`
	} `yaml:"metrics"`
	Log struct {
		logger.LogConfig `yaml:",inline"`
		Tracing          trace.Config `yaml:"tracing"`
	} `yaml:"log"`
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceHTML
	}
	if c.Source.Keyword == "" {
		c.Source.Keyword = DefaultKeyword
	}
	if c.Source.Location == "" {
		c.Source.Location = "UTC"
	}
	if c.Parser.Location == "" {
		c.Parser.Location = "UTC"
	}
	// Both zero means the section was left out.
	if c.Stats.ProfitThreshold == 0 && c.Stats.LossThreshold == 0 {
		c.Stats.ProfitThreshold = 0.4
		c.Stats.LossThreshold = -0.2
	}
	if c.Report.Format == "" {
		c.Report.Format = "html"
	}
	if c.Report.Signature == "" {
		c.Report.Signature = DefaultSignature
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// applyEnv lets the environment (and a .env file loaded by the CLI) override the file.
func (c *Config) applyEnv() error {
	if v := os.Getenv("JOURNAL_SOURCE_KIND"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("JOURNAL_SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("JOURNAL_SOURCE_KEYWORD"); v != "" {
		c.Source.Keyword = v
	}
	if v := os.Getenv("JOURNAL_REPORT_FORMAT"); v != "" {
		c.Report.Format = v
	}
	if v := os.Getenv("JOURNAL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOURNAL_WORKERS: %w", err)
		}
		c.Pipeline.Workers = n
	}
	if v := os.Getenv("JOURNAL_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.TextfilePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LOG_DETAILED"); v != "" {
		c.Log.DetailedLogging = v == "true"
	}
	if v := os.Getenv("LOG_TRACING_ENABLED"); v != "" {
		c.Log.Tracing.Enabled = v == "true"
	}
	return nil
}

func (c *Config) Validate() error {
	c.Source.Kind = strings.ToUpper(c.Source.Kind)
	if c.Source.Kind != SourceHTML && c.Source.Kind != SourceJSON {
		return fmt.Errorf("invalid source.kind '%s': must be 'HTML' or 'JSON'", c.Source.Kind)
	}
	if strings.TrimSpace(c.Source.Keyword) == "" {
		return fmt.Errorf("source.keyword cannot be empty")
	}
	if _, err := time.LoadLocation(c.Source.Location); err != nil {
		return fmt.Errorf("invalid source.location '%s': %w", c.Source.Location, err)
	}
	if _, err := time.LoadLocation(c.Parser.Location); err != nil {
		return fmt.Errorf("invalid parser.location '%s': %w", c.Parser.Location, err)
	}
	if c.Stats.ProfitThreshold < c.Stats.LossThreshold {
		return fmt.Errorf("stats.profit_threshold (%.2f) must not be below stats.loss_threshold (%.2f)",
			c.Stats.ProfitThreshold, c.Stats.LossThreshold)
	}
	c.Report.Format = strings.ToLower(c.Report.Format)
	if !validFormat(c.Report.Format) {
		return fmt.Errorf("invalid report.format '%s': must be one of %s", c.Report.Format, strings.Join(ReportFormats, ", "))
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics are enabled")
	}
	return nil
}

func validFormat(f string) bool {
	for _, v := range ReportFormats {
		if f == v {
			return true
		}
	}
	return false
}

// SourceLocation returns the zone for export timestamps. Call after Validate.
func (c *Config) SourceLocation() *time.Location {
	loc, err := time.LoadLocation(c.Source.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParserLocation returns the zone for journal dates. Call after Validate.
func (c *Config) ParserLocation() *time.Location {
	loc, err := time.LoadLocation(c.Parser.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads the YAML file at path; an empty path means defaults only.
// Environment overrides are applied on top, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyDefaults()
	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
