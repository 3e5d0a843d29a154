package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/config"
	"github.com/DGarbs51/mockedup/internal/logging"
)

// app carries what every subcommand needs once the root command has loaded
// configuration.
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "mockedup [command]",
		Short: "Star-schema mock data generator",
		Long: `Generates linked dimension and fact tables from a declarative schema.
Fact foreign keys always reference existing dimension keys. Output goes to an
Excel workbook, CSV files, JSON, PostgreSQL or ClickHouse.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file (environment variables override it)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging with human-readable output")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newValidateCmd(a),
		newTypesCmd(),
		newExampleCmd(),
	)
	return rootCmd
}

// setup loads .env, configuration and the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
