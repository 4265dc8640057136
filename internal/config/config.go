// Package config loads runtime settings. Precedence is flag, then
// environment (REALIE_*), then config file, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/scoring"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Exam    ExamConfig    `mapstructure:"exam"`
	History HistoryConfig `mapstructure:"history"`
	Storage StorageConfig `mapstructure:"storage"`
	Bank    BankConfig    `mapstructure:"bank"`
	Log     LogConfig     `mapstructure:"log"`
}

type ExamConfig struct {
	TimeLimit     time.Duration `mapstructure:"time_limit"`
	PassThreshold int           `mapstructure:"pass_threshold"`
	// QuestionCount is the number of questions a generated test must have.
	// 0 accepts whatever the bank yields.
	QuestionCount int           `mapstructure:"question_count"`
	WarningAt     time.Duration `mapstructure:"warning_at"`
	CriticalAt    time.Duration `mapstructure:"critical_at"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
}

type HistoryConfig struct {
	Capacity int    `mapstructure:"capacity"`
	Key      string `mapstructure:"key"`
}

type StorageConfig struct {
	// DB is the SQLite path. Empty resolves to the XDG data dir.
	DB string `mapstructure:"db"`
	// Ephemeral keeps history in memory only.
	Ephemeral bool `mapstructure:"ephemeral"`
}

type BankConfig struct {
	// Path to a JSON bank. Empty uses the bundled bank.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	// File is the log path. Empty resolves to the XDG state dir; "off"
	// disables logging.
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Thresholds returns the countdown bands.
func (e ExamConfig) Thresholds() countdown.Thresholds {
	return countdown.Thresholds{Warning: e.WarningAt, Critical: e.CriticalAt}
}

// Scoring returns the pass rule.
func (e ExamConfig) Scoring() scoring.Config {
	return scoring.Config{PassThreshold: e.PassThreshold}
}

// SetDefaults registers every key with its default value. Keys must be
// known to viper for AutomaticEnv to reach them through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("exam.time_limit", countdown.DefaultLimit)
	v.SetDefault("exam.pass_threshold", scoring.DefaultPassThreshold)
	v.SetDefault("exam.question_count", scoring.DefaultQuestionCount)
	v.SetDefault("exam.warning_at", countdown.DefaultThresholds().Warning)
	v.SetDefault("exam.critical_at", countdown.DefaultThresholds().Critical)
	v.SetDefault("exam.tick_interval", time.Second)

	v.SetDefault("history.capacity", history.DefaultCapacity)
	v.SetDefault("history.key", history.DefaultKey)

	v.SetDefault("storage.db", "")
	v.SetDefault("storage.ephemeral", false)
	v.SetDefault("bank.path", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// envAliases are extra variable names accepted for a key, kept from the
// original single-variable overrides.
var envAliases = map[string][]string{
	"storage.db": {"REALIE_DB"},
	"bank.path":  {"REALIE_BANK"},
}

// EnvName returns the REALIE_* variable that overrides key.
func EnvName(key string) string {
	return "REALIE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// New returns a viper instance with defaults and environment bindings.
// Keys are bound one by one; AutomaticEnv would read REALIE_BANK as the
// whole bank section and hide bank.path.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	for _, key := range v.AllKeys() {
		names := append([]string{key, EnvName(key)}, envAliases[key]...)
		_ = v.BindEnv(names...)
	}
	return v
}

// Load reads the optional config file and decodes v into a validated
// Config. An explicit file must exist; otherwise config.yaml is looked up
// in the user config dir and silently skipped when absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else if dir, err := DefaultConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	e := c.Exam
	if e.TimeLimit <= 0 {
		bad("exam.time_limit must be positive, got %s", e.TimeLimit)
	}
	if e.TickInterval <= 0 {
		bad("exam.tick_interval must be positive, got %s", e.TickInterval)
	}
	if e.PassThreshold < 0 {
		bad("exam.pass_threshold must not be negative, got %d", e.PassThreshold)
	}
	if e.QuestionCount < 0 {
		bad("exam.question_count must not be negative, got %d", e.QuestionCount)
	}
	if e.QuestionCount > 0 && e.PassThreshold > e.QuestionCount {
		bad("exam.pass_threshold %d exceeds exam.question_count %d", e.PassThreshold, e.QuestionCount)
	}
	if e.CriticalAt < 0 {
		bad("exam.critical_at must not be negative, got %s", e.CriticalAt)
	}
	if e.WarningAt < e.CriticalAt {
		bad("exam.warning_at %s is below exam.critical_at %s", e.WarningAt, e.CriticalAt)
	}

	if c.History.Capacity <= 0 {
		bad("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if c.History.Key == "" {
		bad("history.key must not be empty")
	}

	return errors.Join(errs...)
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/realie or ~/.config/realie.
func DefaultConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "realie"), nil
}
