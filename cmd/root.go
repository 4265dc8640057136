package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/realie/internal/app"
	"github.com/abhisek/realie/internal/config"
	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/scoring"
)

// settings holds flags, environment and config file values.
var settings = config.New()

var rootCmd = &cobra.Command{
	Use:   "realie",
	Short: "Practice test for the Czech citizenship civics exam",
	Long: "Realie is a terminal practice test: 30 questions, one per topic, " +
		"30 minutes, 18 correct answers to pass. Results are kept in a local history.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (default $XDG_CONFIG_HOME/realie/config.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides REALIE_DB env var)")
	flags.String("bank", "", "Path to a JSON question bank (default: bundled bank)")
	flags.Duration("time-limit", countdown.DefaultLimit, "Time allowed for one test")
	flags.Int("pass-threshold", scoring.DefaultPassThreshold, "Correct answers needed to pass")
	flags.String("log-file", "", `Log file path, or "off" (default $XDG_STATE_HOME/realie/realie.log)`)
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("ephemeral", false, "Keep history in memory only")

	bindFlags(settings, map[string]string{
		"storage.db":          "db",
		"bank.path":           "bank",
		"exam.time_limit":     "time-limit",
		"exam.pass_threshold": "pass-threshold",
		"log.file":            "log-file",
		"log.level":           "log-level",
		"storage.ephemeral":   "ephemeral",
	})

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

func bindFlags(v *viper.Viper, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("tui starting",
		zap.Int("groups", env.Bank.GroupCount()),
		zap.Duration("time_limit", env.Config.Exam.TimeLimit))

	return app.Run(app.Deps{
		Bank:    env.Bank,
		History: env.History,
		Session: env.SessionConfig(),
		Logger:  env.Logger,
	})
}
