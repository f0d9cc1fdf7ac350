package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/syncwatch/internal/domain"
)

type Email struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type Config struct {
	IntervalSeconds           int             `yaml:"interval_seconds"`
	MinSleepSeconds           int             `yaml:"min_sleep_seconds"`            // skip boundaries closer than this
	DailySummaryWindowMinutes int             `yaml:"daily_summary_window_minutes"` // after local midnight
	ProbeTimeoutSeconds       int             `yaml:"probe_timeout_seconds"`
	ProbeAttempts             int             `yaml:"probe_attempts"`
	ProbeBackoffMS            int             `yaml:"probe_backoff_ms"`
	MaxConcurrentProbes       int             `yaml:"max_concurrent_probes"`
	LogDir                    string          `yaml:"log_dir"` // empty: console only
	LogLevel                  string          `yaml:"log_level"`
	ConsoleLog                bool            `yaml:"console_log"`
	HTTPAddr                  string          `yaml:"http_addr"` // empty: status API off
	APITokens                 []string        `yaml:"api_tokens"`
	HistorySize               int             `yaml:"history_size"`
	SlackWebhook              string          `yaml:"slack_webhook"`
	Email                     Email           `yaml:"email"`
	Targets                   []domain.Target `yaml:"targets"`
}

func Default() Config {
	return Config{
		IntervalSeconds:           300,
		MinSleepSeconds:           10,
		DailySummaryWindowMinutes: 5,
		ProbeTimeoutSeconds:       60,
		ProbeAttempts:             1,
		MaxConcurrentProbes:       1,
		LogDir:                    "logs",
		LogLevel:                  "info",
		ConsoleLog:                true,
		HistorySize:               100,
		Email:                     Email{SMTPPort: 587},
	}
}

// Load reads the YAML file at path, applies environment secrets and
// validates the result. Any problem is fatal for the caller.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(content)
}

func Parse(content []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv lets secrets stay out of the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("SLACK_WEBHOOK"); v != "" {
		c.SlackWebhook = v
	}
	if v := os.Getenv("API_TOKENS"); v != "" {
		c.APITokens = splitList(v)
	}
	if c.Email.From == "" {
		c.Email.From = c.Email.Username
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if c.IntervalSeconds <= 0 {
		err = multierr.Append(err, fmt.Errorf("interval_seconds must be > 0, got %d", c.IntervalSeconds))
	}
	if c.MinSleepSeconds < 0 {
		err = multierr.Append(err, errors.New("min_sleep_seconds must not be negative"))
	}
	if c.DailySummaryWindowMinutes <= 0 || c.DailySummaryWindowMinutes > 60 {
		err = multierr.Append(err, errors.New("daily_summary_window_minutes must be between 1 and 60"))
	}
	if c.ProbeTimeoutSeconds <= 0 {
		err = multierr.Append(err, errors.New("probe_timeout_seconds must be > 0"))
	}
	if c.ProbeAttempts < 1 {
		err = multierr.Append(err, errors.New("probe_attempts must be >= 1"))
	}
	if c.ProbeBackoffMS < 0 {
		err = multierr.Append(err, errors.New("probe_backoff_ms must not be negative"))
	}
	if c.MaxConcurrentProbes < 1 {
		err = multierr.Append(err, errors.New("max_concurrent_probes must be >= 1"))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log_level: %w", lerr))
	}
	if c.Email.SMTPHost == "" {
		err = multierr.Append(err, errors.New("email.smtp_host is required"))
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("email.smtp_port %d is out of range", c.Email.SMTPPort))
	}
	if c.Email.To == "" {
		err = multierr.Append(err, errors.New("email.to is required"))
	}
	if c.Email.From == "" && c.Email.Username == "" {
		err = multierr.Append(err, errors.New("email.from or email.username is required"))
	}

	if len(c.Targets) == 0 {
		err = multierr.Append(err, errors.New("configuration must define at least one target"))
	}
	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		switch {
		case strings.TrimSpace(t.Alias) == "":
			err = multierr.Append(err, fmt.Errorf("target %d is missing alias", i))
		case seen[t.Alias]:
			err = multierr.Append(err, fmt.Errorf("duplicate target alias %q", t.Alias))
		}
		seen[t.Alias] = true
		if len(t.Command) == 0 || strings.TrimSpace(t.Command[0]) == "" {
			err = multierr.Append(err, fmt.Errorf("target %q must define a command", t.Alias))
		}
	}
	return err
}

func (c Config) Interval() time.Duration { return time.Duration(c.IntervalSeconds) * time.Second }

func (c Config) MinSleep() time.Duration { return time.Duration(c.MinSleepSeconds) * time.Second }

func (c Config) SummaryWindow() time.Duration {
	return time.Duration(c.DailySummaryWindowMinutes) * time.Minute
}

func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func (c Config) ProbeBackoff() time.Duration {
	return time.Duration(c.ProbeBackoffMS) * time.Millisecond
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
