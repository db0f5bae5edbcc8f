package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/adapters/joplin"
	"github.com/awcjack/joplin-expenses-sub001/internal/config"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

var (
	logLevel string

	cfg *config.Config
	svc *structure.Service
)

var rootCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Expense tracking on top of a Joplin notebook hierarchy",
	Long: `expenses manages an expense-tracking structure inside Joplin:
a root folder with one folder per year, twelve month notes per year,
an annual summary note, and utility notes for new and recurring
expenses.

All commands are idempotent: structure that already exists is reused,
only the missing pieces are created.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logger, err := newLogger(logLevel, cfg.Logging.Level)
		if err != nil {
			return err
		}

		client := joplin.NewClient(joplin.Options{
			BaseURL:    cfg.Joplin.BaseURL,
			Token:      cfg.Joplin.Token,
			PageLimit:  cfg.Joplin.PageLimit,
			MaxRetries: cfg.Joplin.MaxRetries,
			Logger:     logger,
		})
		svc = structure.NewService(client, structure.Options{
			RootFolderTitle: cfg.Structure.RootFolderTitle,
			CacheTTL:        cfg.Structure.CacheTTL,
			JanitorInterval: cfg.Structure.JanitorInterval,
			Logger:          logger,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			svc.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
}

func newLogger(flagLevel, envLevel string) (zerolog.Logger, error) {
	lvl := flagLevel
	if lvl == "" {
		lvl = envLevel
	}
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("unable to parse log level %q: %w", lvl, err)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
