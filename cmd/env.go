package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/config"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/logging"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/store"
)

// env is everything a command needs, opened from the resolved config.
type env struct {
	Config  *config.Config
	Logger  *zap.Logger
	Bank    *bank.Bank
	History *history.Log

	closers []func() error
}

// Close releases the store and flushes the logger.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SessionConfig maps the exam settings onto the session.
func (e *env) SessionConfig() session.Config {
	x := e.Config.Exam
	return session.Config{
		TimeLimit:     x.TimeLimit,
		TickInterval:  x.TickInterval,
		Thresholds:    x.Thresholds(),
		Scoring:       x.Scoring(),
		QuestionCount: x.QuestionCount,
	}
}

// setup loads config, logger, bank and history storage.
func setup(cmd *cobra.Command) (*env, error) {
	e, err := setupHistory(cmd)
	if err != nil {
		return nil, err
	}

	b, err := loadBank(e.Config)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.Bank = b
	return e, nil
}

// setupHistory loads config, logger and history storage but no bank, so
// the history stays readable when the configured bank is broken.
func setupHistory(cmd *cobra.Command) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(settings, configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{Config: cfg}

	logger, err := openLogger(cfg.Log)
	if err != nil {
		// The TUI still works without a log file.
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		logger = zap.NewNop()
	}
	e.Logger = logger
	e.closers = append(e.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	kv, err := openKV(cfg.Storage, logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	if c, ok := kv.(interface{ Close() error }); ok {
		e.closers = append(e.closers, c.Close)
	}

	e.History = history.New(kv,
		history.WithKey(cfg.History.Key),
		history.WithCapacity(cfg.History.Capacity),
		history.WithLogger(logger))
	return e, nil
}

// loadBank reads the configured bank and checks it against the question
// count.
func loadBank(cfg *config.Config) (*bank.Bank, error) {
	b, err := bank.Load(cfg.Bank.Path)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if n := cfg.Exam.QuestionCount; n > 0 && b.GroupCount() != n {
		return nil, fmt.Errorf("%w: bank has %d groups but exam.question_count is %d (set it to 0 to follow the bank)",
			config.ErrInvalid, b.GroupCount(), n)
	}
	return b, nil
}

func openLogger(c config.LogConfig) (*zap.Logger, error) {
	file := c.File
	switch file {
	case "off":
		return zap.NewNop(), nil
	case "":
		p, err := logging.DefaultLogPath()
		if err != nil {
			return nil, err
		}
		file = p
	}
	return logging.New(logging.Options{File: file, Level: c.Level})
}

// openKV returns the SQLite store, or an in-memory one for ephemeral runs.
func openKV(c config.StorageConfig, logger *zap.Logger) (history.KV, error) {
	if c.Ephemeral {
		return store.NewMemory(), nil
	}

	path := c.DB
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	}

	st, err := store.Open(path, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
